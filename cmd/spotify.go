package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/peaceding/recordium/internal/auth"
	"github.com/peaceding/recordium/internal/server"
	"github.com/peaceding/recordium/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyAuth runs the OAuth2 authorization code flow against a local
// callback server and stores the resulting credential.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not configured, add credentials to config.toml", shared.ErrServiceUnavailable)
	}
	if r.auth == nil {
		return fmt.Errorf("%w: authorization manager not initialized", shared.ErrServiceUnavailable)
	}

	config := r.resolveConfig(cmd)
	r.subscribeAuthFlag(cmd)

	authURL, err := r.auth.BeginAuthorization()
	if err != nil {
		return fmt.Errorf("failed to begin authorization: %w", err)
	}

	oauthHandler := server.NewOAuthHandler(r.auth)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Give the server a moment to start before opening the browser
	time.Sleep(100 * time.Millisecond)

	r.writePlain("Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser: %v", err)
		r.writePlain("Visit this URL to authorize:\n%s\n", authURL)
	}

	timer := time.NewTimer(2 * time.Minute)
	defer timer.Stop()

	var flowErr error
	select {
	case result := <-oauthHandler.Result():
		flowErr = result.Error()
	case err := <-serverErrors:
		return fmt.Errorf("callback server failed: %w", err)
	case <-timer.C:
		flowErr = fmt.Errorf("%w: no callback received within 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warnf("failed to shut down callback server: %v", err)
	}

	if flowErr != nil && !errors.Is(flowErr, shared.ErrPersistence) {
		return fmt.Errorf("authorization failed: %w", flowErr)
	}

	if errors.Is(flowErr, shared.ErrPersistence) {
		r.logger.Warnf("credential could not be saved, authorization is session-only: %v", flowErr)
	}

	r.logger.Info("spotify authorization complete")
	return r.writePlain("✓ Authorization successful\n")
}

// subscribeAuthFlag mirrors credential events onto the catalog user's
// spotify flag. Failures are logged but never fail the auth flow itself.
func (r *Runner) subscribeAuthFlag(cmd *cli.Command) {
	r.auth.Subscribe(func(event auth.Event) {
		var authorized bool
		switch event {
		case auth.EventCredentialChanged:
			authorized = true
		case auth.EventDeauthorized:
			authorized = false
		default:
			return
		}

		cat, closer, err := r.openCatalog(cmd)
		if err != nil {
			r.logger.Warnf("failed to open catalog to record authorization: %v", err)
			return
		}
		defer closer()

		userID, err := r.resolveUser(cat, cmd)
		if err != nil {
			r.logger.Warnf("failed to resolve user to record authorization: %v", err)
			return
		}

		if err := cat.SetServiceAuthorized(userID, "spotify", authorized); err != nil {
			r.logger.Warnf("failed to record authorization on user: %v", err)
		}
	})
}

// SpotifyStatus reports the current authorization state.
func (r *Runner) SpotifyStatus(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return r.writePlain("✗ Not authorized (no credentials configured)\n")
	}

	if !r.auth.Authorized() {
		if lastErr := r.auth.LastError(); lastErr != nil {
			return r.writePlain("✗ Not authorized (last attempt failed: %v)\n", lastErr)
		}
		return r.writePlain("✗ Not authorized\n")
	}

	token := r.auth.Token()
	if token != nil && !token.Expiry.IsZero() {
		return r.writePlain("✓ Authorized, token expires %s\n", token.Expiry.Format(time.RFC1123))
	}
	return r.writePlain("✓ Authorized\n")
}

// SpotifyProfile fetches and prints the authorized account's profile.
func (r *Runner) SpotifyProfile(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return fmt.Errorf("%w: run 'recordium spotify auth' first", shared.ErrNotAuthenticated)
	}

	profile, err := r.auth.FetchProfile(ctx)
	if err != nil {
		return handleSpotifyError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Spotify: %s", profile.DisplayName))
	r.writePlain("ID:      %s\n", profile.ID)
	if profile.Email != "" {
		r.writePlain("Email:   %s\n", profile.Email)
	}
	if profile.Country != "" {
		r.writePlain("Country: %s\n", profile.Country)
	}
	if profile.Product != "" {
		r.writePlain("Plan:    %s\n", profile.Product)
	}
	return nil
}

// SpotifyLogout discards the stored credential. Logging out while already
// logged out is a no-op.
func (r *Runner) SpotifyLogout(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return r.writePlain("✓ Already logged out\n")
	}

	wasAuthorized := r.auth.Authorized()
	r.subscribeAuthFlag(cmd)

	if err := r.auth.Deauthorize(); err != nil {
		return fmt.Errorf("failed to discard credential: %w", err)
	}

	if wasAuthorized {
		return r.writePlain("✓ Logged out of Spotify\n")
	}
	return r.writePlain("✓ Already logged out\n")
}

// handleSpotifyError maps API errors to actionable messages.
func handleSpotifyError(err error) error {
	if errors.Is(err, shared.ErrTokenExpired) {
		return fmt.Errorf("%w: run 'recordium spotify auth' to reauthorize", shared.ErrTokenExpired)
	}
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return fmt.Errorf("%w: run 'recordium spotify auth' first", shared.ErrNotAuthenticated)
	}
	return err
}
