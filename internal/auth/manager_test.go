package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/services"
	"github.com/peaceding/recordium/internal/shared"
)

// fakeService implements services.OAuthService against a stub token endpoint
type fakeService struct {
	config   *oauth2.Config
	token    *oauth2.Token
	profile  *services.Profile
	profErr  error
	setCalls int
}

func (f *fakeService) Authenticate(ctx context.Context, creds map[string]string) error { return nil }

func (f *fakeService) GetAlbum(ctx context.Context, id string) (*models.AlbumMetadata, error) {
	return nil, nil
}

func (f *fakeService) GetAlbums(ctx context.Context, ids []string) ([]models.AlbumMetadata, error) {
	return nil, nil
}

func (f *fakeService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.AlbumMetadata, error) {
	return nil, nil
}

func (f *fakeService) SavedAlbums(ctx context.Context, limit, offset int) ([]models.AlbumMetadata, error) {
	return nil, nil
}

func (f *fakeService) Name() string                   { return "Fake" }
func (f *fakeService) GetAuthURL(state string) string { return f.config.AuthCodeURL(state) }
func (f *fakeService) GetOAuthConfig() *oauth2.Config { return f.config }

func (f *fakeService) SetToken(ctx context.Context, token *oauth2.Token) {
	f.token = token
	f.setCalls++
}

func (f *fakeService) CurrentProfile(ctx context.Context) (*services.Profile, error) {
	return f.profile, f.profErr
}

// tokenEndpoint serves a fixed token response, optionally gated on a channel
func tokenEndpoint(t *testing.T, gate <-chan struct{}) *httptest.Server {
	t.Helper()
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate != nil {
			<-gate
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "exchanged_token",
			"token_type":    "Bearer",
			"refresh_token": "refresh",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(stub.Close)
	return stub
}

func setupManager(t *testing.T, gate <-chan struct{}) (*Manager, *fakeService, *TokenStore) {
	t.Helper()

	stub := tokenEndpoint(t, gate)
	svc := &fakeService{
		config: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost:8080/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  stub.URL + "/authorize",
				TokenURL: stub.URL + "/token",
			},
		},
	}

	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	manager := NewManager(svc, store, shared.NewLogger(io.Discard))
	return manager, svc, store
}

// stateFrom extracts the state parameter from an authorization URL
func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatal("auth URL missing state parameter")
	}
	return state
}

func callback(state, code string) string {
	return "http://localhost:8080/callback?state=" + url.QueryEscape(state) + "&code=" + code
}

func TestBeginAuthorization(t *testing.T) {
	manager, _, _ := setupManager(t, nil)

	first, err := manager.BeginAuthorization()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !strings.Contains(first, "state=") {
		t.Error("auth URL should carry the state token")
	}

	second, err := manager.BeginAuthorization()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if stateFrom(t, first) == stateFrom(t, second) {
		t.Error("each authorization attempt should get a fresh state token")
	}

	if manager.Authorized() {
		t.Error("beginning authorization should not change authorization state")
	}
}

func TestHandleRedirect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		manager, svc, store := setupManager(t, nil)

		var events []Event
		manager.Subscribe(func(e Event) { events = append(events, e) })

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		state := stateFrom(t, authURL)

		if err := manager.HandleRedirect(context.Background(), callback(state, "good_code")); err != nil {
			t.Fatalf("redirect failed: %v", err)
		}

		if !manager.Authorized() {
			t.Error("expected Authorized after successful exchange")
		}
		if svc.token == nil || svc.token.AccessToken != "exchanged_token" {
			t.Error("expected token installed on the service")
		}
		if len(events) != 1 || events[0] != EventCredentialChanged {
			t.Errorf("expected credential changed event, got %v", events)
		}

		// credential persisted with owner-only permissions
		info, err := os.Stat(store.Path())
		if err != nil {
			t.Fatalf("expected credential file: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
		}
	})

	t.Run("StateMismatch", func(t *testing.T) {
		manager, _, store := setupManager(t, nil)

		if _, err := manager.BeginAuthorization(); err != nil {
			t.Fatalf("begin failed: %v", err)
		}

		err := manager.HandleRedirect(context.Background(), callback("forged_state", "code"))
		if !errors.Is(err, shared.ErrStateMismatch) {
			t.Fatalf("expected state mismatch, got %v", err)
		}

		if manager.Authorized() {
			t.Error("mismatch must not change authorization state")
		}
		if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
			t.Error("mismatch must not persist a credential")
		}
		if manager.LastError() == nil {
			t.Error("expected last error recorded")
		}
	})

	t.Run("StateRegeneratedAfterRedirect", func(t *testing.T) {
		manager, _, _ := setupManager(t, nil)

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		state := stateFrom(t, authURL)

		// burn the state with a forged callback, then replay the real one
		manager.HandleRedirect(context.Background(), callback("forged_state", "code"))

		err = manager.HandleRedirect(context.Background(), callback(state, "good_code"))
		if !errors.Is(err, shared.ErrStateMismatch) {
			t.Errorf("replayed callback should fail after state regeneration, got %v", err)
		}
	})

	t.Run("ConsentDenied", func(t *testing.T) {
		manager, _, _ := setupManager(t, nil)

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		state := stateFrom(t, authURL)

		denied := "http://localhost:8080/callback?state=" + url.QueryEscape(state) +
			"&error=access_denied&error_description=User%20denied"
		err = manager.HandleRedirect(context.Background(), denied)
		if !errors.Is(err, shared.ErrAuthorization) {
			t.Fatalf("expected authorization error, got %v", err)
		}
		if manager.Authorized() {
			t.Error("denied consent must leave manager Unauthorized")
		}
	})

	t.Run("SupersededExchangeDiscarded", func(t *testing.T) {
		gate := make(chan struct{})
		manager, svc, _ := setupManager(t, gate)

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		state := stateFrom(t, authURL)

		done := make(chan error, 1)
		go func() {
			done <- manager.HandleRedirect(context.Background(), callback(state, "stale_code"))
		}()

		// wait until the exchange is in flight, then supersede it
		for !manager.Retrieving() {
			time.Sleep(time.Millisecond)
		}
		if _, err := manager.BeginAuthorization(); err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		close(gate)

		if err := <-done; err != nil {
			t.Fatalf("superseded exchange should be a silent discard, got %v", err)
		}
		if manager.Authorized() {
			t.Error("superseded exchange result must not be applied")
		}
		if svc.token != nil {
			t.Error("superseded exchange must not install a token")
		}
	})

	t.Run("PersistenceFailureIsNonFatal", func(t *testing.T) {
		stub := tokenEndpoint(t, nil)
		svc := &fakeService{
			config: &oauth2.Config{
				ClientID: "client", ClientSecret: "secret",
				RedirectURL: "http://localhost:8080/callback",
				Endpoint:    oauth2.Endpoint{TokenURL: stub.URL + "/token"},
			},
		}

		// parent path is a regular file, so the credential write must fail
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		store := NewTokenStore(filepath.Join(blocker, "token.json"))
		manager := NewManager(svc, store, shared.NewLogger(io.Discard))

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}

		err = manager.HandleRedirect(context.Background(), callback(stateFrom(t, authURL), "good_code"))
		if !errors.Is(err, shared.ErrPersistence) {
			t.Fatalf("expected persistence warning, got %v", err)
		}
		if !manager.Authorized() {
			t.Error("persistence failure must not undo the session's authorization")
		}
	})
}

func TestDeauthorize(t *testing.T) {
	manager, _, store := setupManager(t, nil)

	var events []Event
	manager.Subscribe(func(e Event) { events = append(events, e) })

	authURL, err := manager.BeginAuthorization()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := manager.HandleRedirect(context.Background(), callback(stateFrom(t, authURL), "code")); err != nil {
		t.Fatalf("redirect failed: %v", err)
	}

	if err := manager.Deauthorize(); err != nil {
		t.Fatalf("deauthorize failed: %v", err)
	}

	if manager.Authorized() {
		t.Error("expected Unauthorized after deauthorize")
	}
	if manager.Token() != nil || manager.CurrentProfile() != nil {
		t.Error("expected credential and profile cleared")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("expected persisted credential removed")
	}
	if len(events) != 2 || events[1] != EventDeauthorized {
		t.Errorf("expected deauthorized event, got %v", events)
	}

	// deauthorizing again is a no-op
	if err := manager.Deauthorize(); err != nil {
		t.Errorf("repeated deauthorize should succeed: %v", err)
	}
}

func TestRestore(t *testing.T) {
	t.Run("RestoresPersistedCredential", func(t *testing.T) {
		stub := tokenEndpoint(t, nil)
		svc := &fakeService{
			config: &oauth2.Config{
				ClientID: "client", ClientSecret: "secret",
				Endpoint: oauth2.Endpoint{TokenURL: stub.URL + "/token"},
			},
		}

		store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
		if err := store.Save(&oauth2.Token{AccessToken: "stored", TokenType: "Bearer"}); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}

		manager := NewManager(svc, store, shared.NewLogger(io.Discard))
		if !manager.Authorized() {
			t.Error("expected Authorized after restore")
		}
		if svc.token == nil || svc.token.AccessToken != "stored" {
			t.Error("expected restored token installed on the service")
		}
	})

	t.Run("CorruptedStoreStartsUnauthorized", func(t *testing.T) {
		svc := &fakeService{config: &oauth2.Config{ClientID: "client"}}

		path := filepath.Join(t.TempDir(), "token.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}

		manager := NewManager(svc, NewTokenStore(path), shared.NewLogger(io.Discard))
		if manager.Authorized() {
			t.Error("corrupted credential must leave manager Unauthorized")
		}
		if manager.LastError() != nil {
			t.Error("opportunistic restore failure must not surface an error")
		}
	})

	t.Run("MissingStoreStartsUnauthorized", func(t *testing.T) {
		svc := &fakeService{config: &oauth2.Config{ClientID: "client"}}
		store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

		manager := NewManager(svc, store, shared.NewLogger(io.Discard))
		if manager.Authorized() {
			t.Error("expected Unauthorized with no stored credential")
		}
	})
}

func TestFetchProfile(t *testing.T) {
	t.Run("RequiresAuthorization", func(t *testing.T) {
		manager, _, _ := setupManager(t, nil)

		_, err := manager.FetchProfile(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("CachesProfile", func(t *testing.T) {
		manager, svc, _ := setupManager(t, nil)
		svc.profile = &services.Profile{ID: "u1", DisplayName: "Listener"}

		authURL, err := manager.BeginAuthorization()
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		if err := manager.HandleRedirect(context.Background(), callback(stateFrom(t, authURL), "code")); err != nil {
			t.Fatalf("redirect failed: %v", err)
		}

		profile, err := manager.FetchProfile(context.Background())
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if profile.ID != "u1" {
			t.Errorf("unexpected profile: %+v", profile)
		}
		if manager.CurrentProfile() == nil || manager.CurrentProfile().DisplayName != "Listener" {
			t.Error("expected profile cached")
		}
	})
}
