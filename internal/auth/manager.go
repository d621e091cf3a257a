// Package auth drives the OAuth2 credential lifecycle for a streaming service.
//
// The [Manager] is an explicitly constructed component: callers build one
// around an [services.OAuthService] and a [TokenStore] and pass it where
// needed. It owns the anti-forgery state token, the authorization state
// machine, and the persisted credential. Interested parties register an
// observer with [Manager.Subscribe] instead of polling.
package auth

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/services"
	"github.com/peaceding/recordium/internal/shared"
)

// Event describes a credential lifecycle transition delivered to observers.
type Event string

const (
	// EventCredentialChanged fires when a new token is obtained or restored.
	EventCredentialChanged Event = "credential_changed"
	// EventDeauthorized fires when the credential is cleared.
	EventDeauthorized Event = "deauthorized"
)

// Manager owns the OAuth2 authorization state machine for one service.
//
// It starts Unauthorized, moves to Authorized after a successful redirect
// exchange or credential restore, and back on [Manager.Deauthorize]. All
// exported methods are safe for concurrent use.
type Manager struct {
	service services.OAuthService
	store   *TokenStore
	logger  *log.Logger

	mu         sync.Mutex
	state      string
	generation uint64
	authorized bool
	retrieving bool
	lastErr    error
	token      *oauth2.Token
	profile    *services.Profile
	observers  []func(Event)
}

// NewManager creates a manager and opportunistically restores a persisted
// credential. Restore failures of any kind are logged and swallowed; the
// manager simply starts Unauthorized.
func NewManager(service services.OAuthService, store *TokenStore, logger *log.Logger) *Manager {
	m := &Manager{
		service: service,
		store:   store,
		logger:  logger,
	}

	token, err := store.Load()
	if err != nil {
		logger.Debug("no credential restored", "error", err)
		return m
	}

	m.token = token
	m.authorized = true
	m.service.SetToken(context.Background(), token)
	logger.Info("restored persisted credential", "path", store.Path())

	return m
}

// Authorized reports whether the manager holds a credential.
func (m *Manager) Authorized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authorized
}

// Retrieving reports whether a token exchange or profile fetch is in flight.
func (m *Manager) Retrieving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retrieving
}

// LastError returns the most recent authorization failure, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// CurrentProfile returns the cached account profile, nil before any fetch.
func (m *Manager) CurrentProfile() *services.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Token returns the current credential, nil when Unauthorized.
func (m *Manager) Token() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Subscribe registers an observer for credential lifecycle events.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// notify delivers an event to all observers outside the lock.
func (m *Manager) notify(event Event) {
	m.mu.Lock()
	observers := make([]func(Event), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(event)
	}
}

// BeginAuthorization generates a fresh anti-forgery state token and returns
// the authorization URL the user must visit. Calling it again supersedes any
// in-flight exchange: a superseded exchange's completion is discarded.
func (m *Manager) BeginAuthorization() (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	m.mu.Lock()
	m.state = state
	m.generation++
	m.lastErr = nil
	m.mu.Unlock()

	return m.service.GetAuthURL(state), nil
}

// HandleRedirect processes an OAuth callback URL: validates the anti-forgery
// state, exchanges the code for tokens, and persists the credential.
//
// The state token is regenerated after every redirect, matched or not, so a
// captured callback URL cannot be replayed. A credential-store write failure
// after a successful exchange returns [shared.ErrPersistence] but leaves the
// manager Authorized for the rest of the session.
func (m *Manager) HandleRedirect(ctx context.Context, callbackURL string) error {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return fmt.Errorf("%w: malformed callback URL: %v", shared.ErrAuthorization, err)
	}
	query := parsed.Query()

	m.mu.Lock()
	expectedState := m.state
	generation := m.generation
	m.mu.Unlock()

	defer m.regenerateState()

	if expectedState == "" || query.Get("state") != expectedState {
		err := fmt.Errorf("%w: callback state does not match", shared.ErrStateMismatch)
		m.setLastError(err)
		return err
	}

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		errDesc := query.Get("error_description")
		err := fmt.Errorf("%w: %s - %s", shared.ErrAuthorization, errParam, errDesc)
		m.setLastError(err)
		return err
	}

	m.setRetrieving(true)
	token, err := m.service.GetOAuthConfig().Exchange(ctx, code)
	m.setRetrieving(false)

	m.mu.Lock()
	superseded := m.generation != generation
	m.mu.Unlock()

	if superseded {
		m.logger.Debug("discarding superseded token exchange")
		return nil
	}

	if err != nil {
		wrapped := fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthorization, err)
		m.setLastError(wrapped)
		return wrapped
	}

	m.mu.Lock()
	m.token = token
	m.authorized = true
	m.lastErr = nil
	m.mu.Unlock()

	m.service.SetToken(ctx, token)
	m.notify(EventCredentialChanged)
	m.logger.Info("authorization complete")

	if err := m.store.Save(token); err != nil {
		m.logger.Warn("credential not persisted, authorization valid this session", "error", err)
		return err
	}

	return nil
}

// Deauthorize clears the in-memory credential and cached profile, removes
// the persisted credential, and returns the manager to Unauthorized.
func (m *Manager) Deauthorize() error {
	m.mu.Lock()
	m.token = nil
	m.profile = nil
	m.authorized = false
	m.lastErr = nil
	m.mu.Unlock()

	m.notify(EventDeauthorized)

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to remove persisted credential", "error", err)
		return err
	}

	m.logger.Info("deauthorized")
	return nil
}

// FetchProfile retrieves and caches the authenticated account's profile.
func (m *Manager) FetchProfile(ctx context.Context) (*services.Profile, error) {
	if !m.Authorized() {
		return nil, fmt.Errorf("%w: authorize first", shared.ErrNotAuthenticated)
	}

	m.setRetrieving(true)
	profile, err := m.service.CurrentProfile(ctx)
	m.setRetrieving(false)

	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()

	return profile, nil
}

// regenerateState replaces the anti-forgery token after a redirect so the
// old one cannot be replayed. Generation is untouched: only a fresh
// BeginAuthorization supersedes an in-flight exchange.
func (m *Manager) regenerateState() {
	state, err := shared.GenerateState()
	if err != nil {
		m.logger.Warn("failed to regenerate state token", "error", err)
		state = ""
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setRetrieving(v bool) {
	m.mu.Lock()
	m.retrieving = v
	m.mu.Unlock()
}
