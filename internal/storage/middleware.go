package storage

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sundayezeilo/readlater/internal/httpx"
)

// Acquirer opens the session a request runs on.
type Acquirer func(ctx context.Context) (*Session, error)

// PoolAcquirer acquires sessions from pool, waiting at most timeout for a connection.
func PoolAcquirer(pool *pgxpool.Pool, timeout time.Duration) Acquirer {
	return func(ctx context.Context) (*Session, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return Acquire(ctx, pool)
	}
}

// Middleware opens a session for each request, stores it in the request context and
// releases it when the handler returns.
func Middleware(acquire Acquirer, logger *slog.Logger) httpx.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := acquire(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to open storage session",
					"request_id", httpx.GetRequestID(ctx),
					"error", err.Error(),
				)
				httpx.WriteError(w, r, http.StatusServiceUnavailable, "unavailable",
					"storage is unavailable, please try again", nil)
				return
			}
			defer session.Release()

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}
