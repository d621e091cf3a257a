// package services defines interface Service for interacting with HTTP APIs
//
// Spotify, Apple Music (planned)
package services

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/models"
)

// Service defines the interface for music catalog providers (Spotify, Apple Music) that can look up and search albums.
type Service interface {
	// Authenticate performs OAuth or API key authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetAlbum retrieves a single album's metadata by its service-side ID.
	GetAlbum(ctx context.Context, albumID string) (*models.AlbumMetadata, error)

	// GetAlbums retrieves metadata for several albums in one call.
	GetAlbums(ctx context.Context, albumIDs []string) ([]models.AlbumMetadata, error)

	// SearchAlbums searches the service's catalog for albums matching the query.
	SearchAlbums(ctx context.Context, query string, limit int) ([]models.AlbumMetadata, error)

	// SavedAlbums retrieves albums saved in the authenticated user's library.
	SavedAlbums(ctx context.Context, limit, offset int) ([]models.AlbumMetadata, error)

	// Name returns the name of the service (e.g., "Spotify", "Apple Music")
	Name() string
}

// OAuthService extends Service with OAuth2 authorization code flow support.
type OAuthService interface {
	Service

	// GetAuthURL returns the authorization URL the user must visit.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the underlying OAuth2 configuration.
	GetOAuthConfig() *oauth2.Config

	// SetToken installs a previously obtained token on the service.
	SetToken(ctx context.Context, token *oauth2.Token)

	// CurrentProfile retrieves the authenticated account's profile.
	CurrentProfile(ctx context.Context) (*Profile, error)
}

// Profile represents the authenticated account on any service.
type Profile struct {
	ID          string
	DisplayName string
	Email       string
	Country     string
	Product     string
	ImageURL    string
}
