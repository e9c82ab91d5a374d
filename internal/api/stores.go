package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sundayezeilo/readlater/internal/bookmark"
	"github.com/sundayezeilo/readlater/internal/category"
	"github.com/sundayezeilo/readlater/internal/storage"
)

var errNoSession = errors.New("no storage session in request context")

// Stores are the request-scoped stores a handler works with.
type Stores struct {
	Categories category.Store
	Bookmarks  bookmark.Store
}

// StoresFunc builds the stores for one request.
type StoresFunc func(ctx context.Context) (Stores, error)

// SessionStores builds PostgreSQL-backed stores on the session that
// storage.Middleware put in the request context.
func SessionStores(logger *slog.Logger) StoresFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) (Stores, error) {
		session, ok := storage.FromContext(ctx)
		if !ok {
			return Stores{}, errNoSession
		}

		return Stores{
			Categories: category.NewStore(category.NewRepository(session), logger),
			Bookmarks: bookmark.NewStore(bookmark.NewRepository(session, logger), &bookmark.StoreConfig{
				Logger: logger,
			}),
		}, nil
	}
}
