package api

import (
	"encoding/json"
	"net/http"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/errx"
	"github.com/sundayezeilo/readlater/internal/httpx"
)

const categoryNotFound = "category not found"

// CategoryRequest is the JSON body for creating or replacing a category. As with
// bookmarks, a fetched category can be sent back as is.
type CategoryRequest struct {
	Name string `json:"name"`

	ID        *int64          `json:"id,omitempty"`
	OwnerID   *string         `json:"ownerId,omitempty"`
	Bookmarks json.RawMessage `json:"bookmarks,omitempty"`
}

// ListCategories handles GET /api/categories. With ?name= it returns at most the
// first category with that exact name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if r.URL.Query().Has("name") {
		c, err := req.stores.Categories.GetByName(ctx, r.URL.Query().Get("name"))
		switch {
		case err == nil:
			httpx.WriteJSON(w, r, http.StatusOK, []domain.Category{c})
		case errx.Is(err, errx.NotFound):
			httpx.WriteJSON(w, r, http.StatusOK, []domain.Category{})
		default:
			handleError(w, r, req.logger, err, categoryNotFound)
		}
		return
	}

	cats, err := req.stores.Categories.ListAll(ctx)
	if err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}
	httpx.WriteJSON(w, r, http.StatusOK, cats)
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	body, err := httpx.DecodeJSON[CategoryRequest](w, r)
	if err != nil {
		req.logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		writeBadRequest(w, r, err)
		return
	}
	if err := checkEcho(nil, body.OwnerID, 0, req.ownerID); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	created, err := req.stores.Categories.Create(ctx, domain.Category{Name: body.Name}, req.ownerID)
	if err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}

	httpx.WriteJSON(w, r, http.StatusCreated, created)
}

// GetCategory handles GET /api/categories/{id}. The response includes the caller's
// bookmarks filed under the category. Another owner's category reads as not found.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
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

	c, err := req.stores.Categories.GetByID(ctx, id)
	if err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}
	if c.OwnerID != req.ownerID {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", categoryNotFound, nil)
		return
	}

	bookmarks, err := req.stores.Bookmarks.ListForCategory(ctx, id, req.ownerID)
	if err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}
	c.Bookmarks = bookmarks

	httpx.WriteJSON(w, r, http.StatusOK, c)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	body, err := httpx.DecodeJSON[CategoryRequest](w, r)
	if err != nil {
		req.logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		writeBadRequest(w, r, err)
		return
	}
	if err := checkEcho(body.ID, body.OwnerID, id, req.ownerID); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	if err := req.stores.Categories.Update(ctx, domain.Category{ID: id, Name: body.Name}, req.ownerID); err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/categories/{id}. Bookmarks filed under the
// category are kept and become uncategorized.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := req.stores.Categories.Delete(ctx, id, req.ownerID); err != nil {
		handleError(w, r, req.logger, err, categoryNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
