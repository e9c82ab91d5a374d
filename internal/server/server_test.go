package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundayezeilo/readlater/internal/api"
	"github.com/sundayezeilo/readlater/internal/bookmark"
	"github.com/sundayezeilo/readlater/internal/config"
	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/storage"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "good" {
		return "u1", nil
	}
	return "", errors.New("bad token")
}

// stubBookmarks answers ListForOwner only.
type stubBookmarks struct {
	bookmark.Store
	gotOwner string
}

func (s *stubBookmarks) ListForOwner(_ context.Context, ownerID string) ([]domain.Bookmark, error) {
	s.gotOwner = ownerID
	return []domain.Bookmark{}, nil
}

type nopDB struct{ storage.DBTX }

func newTestServer(acquire storage.Acquirer, bookmarks *stubBookmarks) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Observability: config.ObservabilityConfig{ServiceName: "readlater", ServiceVersion: "test"},
	}

	handler := api.NewHandler(api.HandlerConfig{
		Stores: func(ctx context.Context) (api.Stores, error) {
			if _, ok := storage.FromContext(ctx); !ok {
				return api.Stores{}, errors.New("no session")
			}
			return api.Stores{Bookmarks: bookmarks}, nil
		},
		Logger: logger,
	})

	return New(cfg, logger, Deps{Handler: handler, Verifier: stubVerifier{}, Acquire: acquire})
}

func TestRoutes(t *testing.T) {
	var session *storage.Session
	acquire := func(context.Context) (*storage.Session, error) {
		session = storage.NewSession(nopDB{}, nil)
		return session, nil
	}
	bookmarks := &stubBookmarks{}
	routes := newTestServer(acquire, bookmarks).Routes()

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","service":"readlater","version":"test"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("api requires a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated request runs on a session released afterwards", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", bookmarks.gotOwner)
		require.NotNil(t, session)
		assert.True(t, session.Released())
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRoutes_SessionUnavailable(t *testing.T) {
	acquire := func(context.Context) (*storage.Session, error) { return nil, errors.New("pool closed") }
	routes := newTestServer(acquire, &stubBookmarks{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
