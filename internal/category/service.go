package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/errx"
)

var errOwnerRequired = errors.New("owner id is required")

// Store defines the category operations available to a request.
//
// Mutations are owner-scoped and fail loudly. Reads are global, and a storage fault
// on a read degrades to an empty list or NotFound. A released session is reported
// as errx.Misuse by every method.
type Store interface {
	Create(ctx context.Context, c domain.Category, ownerID string) (domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	Update(ctx context.Context, c domain.Category, ownerID string) error
	Delete(ctx context.Context, id int64, ownerID string) error
}

type store struct {
	repo   Repository
	logger *slog.Logger
}

// NewStore creates a category store over repo.
func NewStore(repo Repository, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &store{
		repo:   repo,
		logger: logger.With("component", "category_store"),
	}
}

// Create stamps ownerID on c and inserts it. Any ID or owner in c is ignored.
func (s *store) Create(ctx context.Context, c domain.Category, ownerID string) (domain.Category, error) {
	const op = "category.store.Create"

	if ownerID == "" {
		return domain.Category{}, errx.E(op, errx.Invalid, errOwnerRequired)
	}
	if err := c.Validate(); err != nil {
		return domain.Category{}, errx.E(op, errx.Invalid, err)
	}

	c.ID = 0
	c.OwnerID = ownerID
	c.Bookmarks = nil

	created, err := s.repo.Insert(ctx, c)
	if err != nil {
		return domain.Category{}, s.writeFailed(ctx, op, err, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "category created",
		"category_id", created.ID,
		"owner_id", ownerID,
	)
	return created, nil
}

// ListAll returns every category regardless of owner.
func (s *store) ListAll(ctx context.Context) ([]domain.Category, error) {
	const op = "category.store.ListAll"

	cats, err := s.repo.List(ctx)
	if err != nil {
		if errx.Is(err, errx.Misuse) {
			return nil, s.misuse(ctx, op, err)
		}
		s.logger.ErrorContext(ctx, "failed to list categories", "error", err.Error())
		return []domain.Category{}, nil
	}
	return cats, nil
}

// GetByID returns the category regardless of owner; callers check ownership.
func (s *store) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	const op = "category.store.GetByID"

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Category{}, s.readFailed(ctx, op, err, "category_id", id)
	}
	return c, nil
}

// GetByName returns the first category named name.
func (s *store) GetByName(ctx context.Context, name string) (domain.Category, error) {
	const op = "category.store.GetByName"

	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domain.Category{}, s.readFailed(ctx, op, err, "name", name)
	}
	return c, nil
}

// Update replaces the name of the category c.ID if ownerID owns it.
func (s *store) Update(ctx context.Context, c domain.Category, ownerID string) error {
	const op = "category.store.Update"

	if ownerID == "" {
		return errx.E(op, errx.Invalid, errOwnerRequired)
	}
	if err := c.Validate(); err != nil {
		return errx.E(op, errx.Invalid, err)
	}

	if err := s.repo.ReplaceOwned(ctx, c, ownerID); err != nil {
		return s.writeFailed(ctx, op, err, "category_id", c.ID, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "category updated", "category_id", c.ID, "owner_id", ownerID)
	return nil
}

// Delete removes the category if ownerID owns it. Bookmarks filed under it are
// detached, not deleted.
func (s *store) Delete(ctx context.Context, id int64, ownerID string) error {
	const op = "category.store.Delete"

	if ownerID == "" {
		return errx.E(op, errx.Invalid, errOwnerRequired)
	}

	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return s.writeFailed(ctx, op, err, "category_id", id, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "category deleted", "category_id", id, "owner_id", ownerID)
	return nil
}

// writeFailed classifies a repository error on a mutating path. A missing row becomes
// Unauthorized; storage faults are logged and returned.
func (s *store) writeFailed(ctx context.Context, op string, err error, attrs ...any) error {
	switch errx.KindOf(err) {
	case errx.Misuse:
		return s.misuse(ctx, op, err)
	case errx.NotFound:
		return errx.E(op, errx.Unauthorized, err)
	case errx.Invalid:
		return errx.Wrap(op, err)
	default:
		s.logger.ErrorContext(ctx, "category write failed",
			append([]any{"error", err.Error(), "operation", op}, attrs...)...,
		)
		return errx.E(op, errx.Unavailable, err)
	}
}

// readFailed collapses every read failure except Misuse into NotFound.
func (s *store) readFailed(ctx context.Context, op string, err error, attrs ...any) error {
	switch errx.KindOf(err) {
	case errx.Misuse:
		return s.misuse(ctx, op, err)
	case errx.NotFound:
		return errx.Wrap(op, err)
	default:
		s.logger.ErrorContext(ctx, "category read failed",
			append([]any{"error", err.Error(), "operation", op}, attrs...)...,
		)
		return errx.E(op, errx.NotFound, err)
	}
}

func (s *store) misuse(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "persistence handle used after release",
		"operation", op,
		"error", err.Error(),
	)
	return errx.E(op, errx.Misuse, err)
}
