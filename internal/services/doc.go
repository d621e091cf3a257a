// Package services defines the [Service] interface for music catalog providers and implements it for Spotify.
//
// # Service Interface
//
// All catalog providers implement a common abstraction, enabling album lookup, search, and library reads to work uniformly across providers.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
//
// The [oauth2.Config] client automatically refreshes expired tokens using the refresh token.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for OAuth providers
//
// [SpotifyService] implements this for the authorization code flow driven by the auth manager and CLI.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrMissingCredentials] : client_id or client_secret absent
//
// # API Mappings
//
// Provider-specific JSON responses convert to service-neutral metadata:
//   - Spotify: Maps [SpotifyAlbum] → [models.AlbumMetadata] with the largest cover image
//   - Spotify: Maps [SpotifyUser] → [Profile]
package services
