// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	AlbumType   string          `json:"album_type"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Popularity  *int            `json:"popularity,omitempty"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifySavedAlbum represents an album saved in the user's library.
type SpotifySavedAlbum struct {
	AddedAt string       `json:"added_at"`
	Album   SpotifyAlbum `json:"album"`
}

// SpotifyPaginatedAlbums represents a paginated response of saved albums.
type SpotifyPaginatedAlbums struct {
	Items    []SpotifySavedAlbum `json:"items"`
	Total    int                 `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
}

type severalAlbums struct {
	Albums []SpotifyAlbum `json:"albums"`
}

type albumSearchResult struct {
	Albums struct {
		Items []SpotifyAlbum `json:"items"`
		Total int            `json:"total"`
	} `json:"albums"`
}

// Metadata converts the Spotify album into service-neutral album metadata.
func (a SpotifyAlbum) Metadata() models.AlbumMetadata {
	artists := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		artists = append(artists, artist.Name)
	}

	var imageURL string
	if len(a.Images) > 0 {
		imageURL = a.Images[0].URL
	}

	return models.AlbumMetadata{
		Name:        a.Name,
		Artists:     artists,
		ImageURL:    imageURL,
		ReleaseDate: a.ReleaseDate,
		AlbumType:   a.AlbumType,
		TotalTracks: a.TotalTracks,
		Popularity:  a.Popularity,
		Source:      "spotify",
		SourceID:    a.ID,
	}
}

// Profile converts the Spotify user into a service-neutral profile.
func (u SpotifyUser) Profile() Profile {
	var imageURL string
	if len(u.Images) > 0 {
		imageURL = u.Images[0].URL
	}
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Country:     u.Country,
		Product:     u.Product,
		ImageURL:    imageURL,
	}
}

// SpotifyService implements the Service interface for Spotify API interactions.
// Uses [oauth2] for authentication and provides methods for album and profile operations.
type SpotifyService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	credentials map[string]string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id in credentials", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret in credentials", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"user-library-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		credentials: credentials,
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthorization, err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig returns the underlying OAuth2 configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetToken installs a token obtained elsewhere (callback exchange or a restored credential).
// The HTTP client wraps the token source, so refreshes happen transparently.
func (s *SpotifyService) SetToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, result interface{}) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: spotify API returned 401", shared.ErrTokenExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Album retrieves a single album by ID.
func (s *SpotifyService) Album(ctx context.Context, albumID string) (*SpotifyAlbum, error) {
	var album SpotifyAlbum
	endpoint := fmt.Sprintf("/albums/%s", albumID)
	if err := s.doRequest(ctx, "GET", endpoint, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// SeveralAlbums retrieves up to 20 albums in a single request.
func (s *SpotifyService) SeveralAlbums(ctx context.Context, albumIDs []string) ([]SpotifyAlbum, error) {
	if len(albumIDs) == 0 {
		return nil, nil
	}
	if len(albumIDs) > 20 {
		albumIDs = albumIDs[:20]
	}

	var result severalAlbums
	endpoint := fmt.Sprintf("/albums?ids=%s", strings.Join(albumIDs, ","))
	if err := s.doRequest(ctx, "GET", endpoint, &result); err != nil {
		return nil, err
	}
	return result.Albums, nil
}

// Search queries the Spotify catalog for albums.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]SpotifyAlbum, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "album")
	params.Set("limit", strconv.Itoa(limit))

	var result albumSearchResult
	endpoint := "/search?" + params.Encode()
	if err := s.doRequest(ctx, "GET", endpoint, &result); err != nil {
		return nil, err
	}
	return result.Albums.Items, nil
}

// Library retrieves a page of the user's saved albums.
func (s *SpotifyService) Library(ctx context.Context, limit, offset int) (*SpotifyPaginatedAlbums, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var result SpotifyPaginatedAlbums
	endpoint := fmt.Sprintf("/me/albums?limit=%d&offset=%d", limit, offset)
	if err := s.doRequest(ctx, "GET", endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Service interface implementation

// CurrentProfile retrieves the authenticated account's profile.
func (s *SpotifyService) CurrentProfile(ctx context.Context) (*Profile, error) {
	user, err := s.UserProfile(ctx)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// GetAlbum retrieves a single album's metadata.
func (s *SpotifyService) GetAlbum(ctx context.Context, albumID string) (*models.AlbumMetadata, error) {
	album, err := s.Album(ctx, albumID)
	if err != nil {
		return nil, err
	}
	meta := album.Metadata()
	return &meta, nil
}

// GetAlbums retrieves metadata for several albums, batching 20 at a time.
func (s *SpotifyService) GetAlbums(ctx context.Context, albumIDs []string) ([]models.AlbumMetadata, error) {
	var metas []models.AlbumMetadata
	for start := 0; start < len(albumIDs); start += 20 {
		end := start + 20
		if end > len(albumIDs) {
			end = len(albumIDs)
		}

		albums, err := s.SeveralAlbums(ctx, albumIDs[start:end])
		if err != nil {
			return nil, err
		}
		for _, album := range albums {
			metas = append(metas, album.Metadata())
		}
	}
	return metas, nil
}

// SearchAlbums searches the Spotify catalog for albums matching the query.
func (s *SpotifyService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.AlbumMetadata, error) {
	albums, err := s.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	metas := make([]models.AlbumMetadata, 0, len(albums))
	for _, album := range albums {
		metas = append(metas, album.Metadata())
	}
	return metas, nil
}

// SavedAlbums retrieves albums saved in the user's Spotify library.
func (s *SpotifyService) SavedAlbums(ctx context.Context, limit, offset int) ([]models.AlbumMetadata, error) {
	page, err := s.Library(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	metas := make([]models.AlbumMetadata, 0, len(page.Items))
	for _, item := range page.Items {
		metas = append(metas, item.Album.Metadata())
	}
	return metas, nil
}
