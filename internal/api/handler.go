// Package api exposes the category and bookmark stores over HTTP/JSON.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sundayezeilo/readlater/internal/auth"
	"github.com/sundayezeilo/readlater/internal/errx"
	"github.com/sundayezeilo/readlater/internal/httpx"
)

const genericFailure = "unable to complete the request at this time, please try again"

// Handler serves the /api routes. Every route expects an authenticated owner in the
// request context.
type Handler struct {
	stores StoresFunc
	logger *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Stores StoresFunc
	Logger *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		stores: cfg.Stores,
		logger: logger,
	}
}

// Routes registers the category and bookmark routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", h.ListBookmarks)
		r.Post("/", h.CreateBookmark)
		r.Get("/{id}", h.GetBookmark)
		r.Put("/{id}", h.UpdateBookmark)
		r.Delete("/{id}", h.DeleteBookmark)
	})
}

// request holds what every handler resolves before calling a store.
type request struct {
	ownerID string
	stores  Stores
	logger  *slog.Logger
}

// begin resolves the owner and stores for r, writing the error response itself when
// either is missing.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (request, bool) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		logger.WarnContext(ctx, "request reached handler without an owner")
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthenticated", "authentication required", nil)
		return request{}, false
	}

	stores, err := h.stores(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build stores", "error", err.Error())
		httpx.WriteError(w, r, http.StatusServiceUnavailable, "unavailable", genericFailure, nil)
		return request{}, false
	}

	return request{
		ownerID: ownerID,
		stores:  stores,
		logger:  logger.With("owner_id", ownerID),
	}, true
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// handleError logs err at a level matching its kind and writes the response.
// notFound is the message for NotFound and Unauthorized.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	ctx := r.Context()
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind.String(),
		"operation", errx.OpOf(err),
	}

	message := notFound
	switch kind {
	case errx.NotFound, errx.Unauthorized:
		logger.InfoContext(ctx, "target not found for owner", logAttrs...)
	case errx.Invalid:
		logger.WarnContext(ctx, "request rejected", logAttrs...)
	case errx.Misuse:
		logger.ErrorContext(ctx, "storage session misused", logAttrs...)
		message = genericFailure
	default:
		logger.ErrorContext(ctx, "request failed", logAttrs...)
		message = genericFailure
	}

	httpx.WriteKindError(w, r, err, message)
}

var (
	errIDMismatch    = errors.New("id in body does not match the path")
	errOwnerMismatch = errors.New("ownerId cannot be changed")
)

// checkEcho rejects a body whose echoed id or ownerId disagree with the path id or
// the caller. A nil bodyID is not checked; create passes nil.
func checkEcho(bodyID *int64, bodyOwner *string, pathID int64, ownerID string) error {
	if bodyID != nil && *bodyID != pathID {
		return errIDMismatch
	}
	if bodyOwner != nil && *bodyOwner != ownerID {
		return errOwnerMismatch
	}
	return nil
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error(), nil)
}
