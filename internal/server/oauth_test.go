package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/peaceding/recordium/internal/shared"
)

// stubRedirects records callback URLs and returns a configured error
type stubRedirects struct {
	urls []string
	err  error
}

func (s *stubRedirects) HandleRedirect(ctx context.Context, callbackURL string) error {
	s.urls = append(s.urls, callbackURL)
	return s.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("ForwardsCallbackURL", func(t *testing.T) {
		stub := &stubRedirects{}
		handler := NewOAuthHandler(stub)

		req := httptest.NewRequest("GET", "http://localhost:8080/callback?state=abc&code=xyz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if len(stub.urls) != 1 || !strings.Contains(stub.urls[0], "state=abc") {
			t.Errorf("expected callback URL forwarded, got %v", stub.urls)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Errorf("expected success result, got %v", result.Error())
		}
	})

	t.Run("StateMismatchIsBadRequest", func(t *testing.T) {
		stub := &stubRedirects{err: fmt.Errorf("%w: forged", shared.ErrStateMismatch)}
		handler := NewOAuthHandler(stub)

		req := httptest.NewRequest("GET", "http://localhost:8080/callback?state=bad&code=xyz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrStateMismatch) {
			t.Errorf("expected state mismatch result, got %v", result.Error())
		}
	})

	t.Run("PersistenceWarningStillSucceeds", func(t *testing.T) {
		stub := &stubRedirects{err: fmt.Errorf("%w: disk full", shared.ErrPersistence)}
		handler := NewOAuthHandler(stub)

		req := httptest.NewRequest("GET", "http://localhost:8080/callback?state=abc&code=xyz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected success page despite persistence warning, got %d", rec.Code)
		}

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrPersistence) {
			t.Errorf("expected persistence warning in result, got %v", result.Error())
		}
	})

	t.Run("SecondCallbackRejected", func(t *testing.T) {
		stub := &stubRedirects{}
		handler := NewOAuthHandler(stub)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "http://localhost:8080/callback?state=a&code=b", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "http://localhost:8080/callback?state=a&code=b", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected replayed callback rejected, got %d", second.Code)
		}
		if len(stub.urls) != 1 {
			t.Errorf("expected a single forwarded callback, got %d", len(stub.urls))
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("MethodFiltering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for wrong method, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("MiddlewareOrder", func(t *testing.T) {
		var order []string

		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("first"), tag("second"))
		router.Handle("GET", "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected first-added middleware outermost, got %v", order)
		}
	})
}
