// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"golang.org/x/oauth2"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/services"
)

// MockService is a test double for [services.OAuthService]
type MockService struct {
	Albums   map[string]models.AlbumMetadata
	Library  []models.AlbumMetadata
	Token    *oauth2.Token
	AuthErr  error
	FetchErr error
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthErr
}

func (m *MockService) GetAlbum(ctx context.Context, albumID string) (*models.AlbumMetadata, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if meta, ok := m.Albums[albumID]; ok {
		return &meta, nil
	}
	return nil, errors.New("album not found")
}

func (m *MockService) GetAlbums(ctx context.Context, albumIDs []string) ([]models.AlbumMetadata, error) {
	metas := []models.AlbumMetadata{}
	for _, id := range albumIDs {
		if meta, ok := m.Albums[id]; ok {
			metas = append(metas, meta)
		}
	}
	return metas, m.FetchErr
}

func (m *MockService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.AlbumMetadata, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	metas := []models.AlbumMetadata{}
	for _, meta := range m.Albums {
		if len(metas) >= limit && limit > 0 {
			break
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func (m *MockService) SavedAlbums(ctx context.Context, limit, offset int) ([]models.AlbumMetadata, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if offset >= len(m.Library) {
		return []models.AlbumMetadata{}, nil
	}
	end := offset + limit
	if end > len(m.Library) {
		end = len(m.Library)
	}
	return m.Library[offset:end], nil
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) GetAuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockService) GetOAuthConfig() *oauth2.Config {
	return &oauth2.Config{ClientID: "mock"}
}

func (m *MockService) SetToken(ctx context.Context, token *oauth2.Token) {
	m.Token = token
}

func (m *MockService) CurrentProfile(ctx context.Context) (*services.Profile, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return &services.Profile{ID: "mock-user", DisplayName: "Mock User"}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
