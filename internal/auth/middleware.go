package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sundayezeilo/readlater/internal/httpx"
)

type contextKey string

const ownerIDContextKey contextKey = "owner_id"

// WithOwnerID returns a copy of ctx carrying ownerID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDContextKey, ownerID)
}

// OwnerID returns the authenticated owner id stored in ctx.
func OwnerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDContextKey).(string)
	return id, ok && id != ""
}

// Middleware rejects requests without a valid bearer token and stores the token
// subject in the request context.
func Middleware(v Verifier, logger *slog.Logger) httpx.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err == nil {
				var ownerID string
				ownerID, err = v.Verify(ctx, token)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithOwnerID(ctx, ownerID)))
					return
				}
			}

			logger.WarnContext(ctx, "request not authenticated",
				"request_id", httpx.GetRequestID(ctx),
				"path", r.URL.Path,
				"error", err.Error(),
			)

			message := "invalid token"
			switch {
			case errors.Is(err, ErrMissingToken):
				message = "authorization header required"
			case errors.Is(err, ErrExpiredToken):
				message = "token expired"
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="readlater"`)
			httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", message, nil)
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
