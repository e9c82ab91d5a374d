package api

import (
	"encoding/json"
	"net/http"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/httpx"
)

const bookmarkNotFound = "bookmark not found"

// BookmarkRequest is the JSON body for creating or replacing a bookmark.
// A null or absent categoryId leaves the bookmark uncategorized. The read-only fields
// let a client send back a bookmark it fetched; they are checked, never stored.
type BookmarkRequest struct {
	URL              string `json:"url"`
	ShortDescription string `json:"shortDescription"`
	CategoryID       *int64 `json:"categoryId"`

	ID        *int64          `json:"id,omitempty"`
	OwnerID   *string         `json:"ownerId,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	Category  json.RawMessage `json:"category,omitempty"`
}

func (b BookmarkRequest) toDomain(id int64) domain.Bookmark {
	return domain.Bookmark{
		ID:               id,
		URL:              b.URL,
		ShortDescription: b.ShortDescription,
		CategoryID:       b.CategoryID,
	}
}

// ListBookmarks handles GET /api/bookmarks and returns the caller's bookmarks.
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	bookmarks, err := req.stores.Bookmarks.ListForOwner(ctx, req.ownerID)
	if err != nil {
		handleError(w, r, req.logger, err, bookmarkNotFound)
		return
	}
	httpx.WriteJSON(w, r, http.StatusOK, bookmarks)
}

// CreateBookmark handles POST /api/bookmarks.
func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	body, err := httpx.DecodeJSON[BookmarkRequest](w, r)
	if err != nil {
		req.logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		writeBadRequest(w, r, err)
		return
	}
	if err := checkEcho(nil, body.OwnerID, 0, req.ownerID); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	created, err := req.stores.Bookmarks.Create(ctx, body.toDomain(0), req.ownerID)
	if err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}

	httpx.WriteJSON(w, r, http.StatusCreated, created)
}

// GetBookmark handles GET /api/bookmarks/{id}. Another owner's bookmark reads as
// not found.
func (h *Handler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}

	b, err := req.stores.Bookmarks.GetByID(ctx, id)
	if err != nil {
		handleError(w, r, req.logger, err, bookmarkNotFound)
		return
	}
	if b.OwnerID != req.ownerID {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", bookmarkNotFound, nil)
		return
	}

	httpx.WriteJSON(w, r, http.StatusOK, b)
}

// UpdateBookmark handles PUT /api/bookmarks/{id}.
func (h *Handler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}

	body, err := httpx.DecodeJSON[BookmarkRequest](w, r)
	if err != nil {
		req.logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		writeBadRequest(w, r, err)
		return
	}
	if err := checkEcho(body.ID, body.OwnerID, id, req.ownerID); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := req.stores.Bookmarks.Update(ctx, body.toDomain(id), req.ownerID); err != nil {
		handleError(w, r, req.logger, err, bookmarkNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := req.stores.Bookmarks.Delete(ctx, id, req.ownerID); err != nil {
		handleError(w, r, req.logger, err, bookmarkNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
