package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/peaceding/recordium/internal/shared"
)

// RedirectHandler processes a complete OAuth callback URL. Implemented by
// the auth manager, which owns state validation and the code exchange.
type RedirectHandler interface {
	HandleRedirect(ctx context.Context, callbackURL string) error
}

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	err error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles OAuth2 callback requests for authorization code flow.
// Implements the Handler interface for registration with a Router.
//
// The handler reconstructs the callback URL and hands it to the
// [RedirectHandler]; it owns no OAuth state of its own.
type OAuthHandler struct {
	redirects   RedirectHandler
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a new OAuth handler delegating to the given redirect handler.
func NewOAuthHandler(redirects RedirectHandler) *OAuthHandler {
	return &OAuthHandler{
		redirects:  redirects,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Passes the full callback URL to the redirect handler and reports the outcome through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	callbackURL := "http://" + r.Host + r.URL.String()
	err := h.redirects.HandleRedirect(r.Context(), callbackURL)

	// a persistence warning still means the session is authorized
	if err != nil && !errors.Is(err, shared.ErrPersistence) {
		h.Send(OAuthResult{err: err})

		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrStateMismatch) {
			status = http.StatusBadRequest
		}
		http.Error(w, "Authorization failed", status)
		return
	}

	h.Send(OAuthResult{err: err})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}
