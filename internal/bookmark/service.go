package bookmark

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/errx"
	"github.com/sundayezeilo/readlater/internal/storage"
)

var (
	errOwnerRequired   = errors.New("owner id is required")
	errCategoryForeign = errors.New("category does not exist for this owner")
)

// Store defines the bookmark operations available to a request.
//
// Mutations are owner-scoped and fail loudly. A bookmark can only be filed under a
// category with the same owner, on create and on update. Reads degrade to an empty
// list or NotFound on storage faults. A released session is reported as errx.Misuse.
type Store interface {
	Create(ctx context.Context, b domain.Bookmark, ownerID string) (domain.Bookmark, error)
	GetByID(ctx context.Context, id int64) (domain.Bookmark, error)
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error)
	ListForCategory(ctx context.Context, categoryID int64, ownerID string) ([]domain.Bookmark, error)
	Update(ctx context.Context, b domain.Bookmark, ownerID string) error
	Delete(ctx context.Context, id int64, ownerID string) error
}

// StoreConfig holds optional dependencies for the store.
type StoreConfig struct {
	Logger *slog.Logger
	Now    func() time.Time // creation timestamps (default: time.Now)
}

type store struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a bookmark store over repo.
func NewStore(repo Repository, config *StoreConfig) Store {
	if config == nil {
		config = &StoreConfig{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &store{
		repo:   repo,
		logger: logger.With("component", "bookmark_store"),
		now:    now,
	}
}

// Create stamps ownerID and the creation time on b and inserts it. When b names a
// category, the ownership check and the insert share one transaction.
func (s *store) Create(ctx context.Context, b domain.Bookmark, ownerID string) (domain.Bookmark, error) {
	const op = "bookmark.store.Create"

	if ownerID == "" {
		return domain.Bookmark{}, errx.E(op, errx.Invalid, errOwnerRequired)
	}
	if err := b.Validate(); err != nil {
		return domain.Bookmark{}, errx.E(op, errx.Invalid, err)
	}

	b.ID = 0
	b.OwnerID = ownerID
	b.Category = nil
	b.CreatedAt = s.now().UTC()

	var created domain.Bookmark
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := checkCategory(ctx, tx, b, ownerID); err != nil {
			return err
		}

		inserted, err := tx.Insert(ctx, b)
		if err != nil {
			return err
		}

		created, err = tx.Get(ctx, inserted.ID)
		return err
	})
	if err != nil {
		return domain.Bookmark{}, s.writeFailed(ctx, op, err, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "bookmark created",
		"bookmark_id", created.ID,
		"owner_id", ownerID,
	)
	return created, nil
}

// GetByID returns the bookmark with its category, regardless of owner.
func (s *store) GetByID(ctx context.Context, id int64) (domain.Bookmark, error) {
	const op = "bookmark.store.GetByID"

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		switch errx.KindOf(err) {
		case errx.Misuse:
			return domain.Bookmark{}, s.misuse(ctx, op, err)
		case errx.NotFound:
			return domain.Bookmark{}, errx.Wrap(op, err)
		default:
			s.logger.ErrorContext(ctx, "bookmark read failed",
				"error", err.Error(),
				"operation", op,
				"bookmark_id", id,
			)
			return domain.Bookmark{}, errx.E(op, errx.NotFound, err)
		}
	}
	return b, nil
}

// ListForOwner returns the bookmarks owned by ownerID, oldest first.
func (s *store) ListForOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	const op = "bookmark.store.ListForOwner"

	bookmarks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return s.listFailed(ctx, op, err, "owner_id", ownerID)
	}
	return bookmarks, nil
}

// ListForCategory returns the bookmarks ownerID filed under categoryID.
func (s *store) ListForCategory(ctx context.Context, categoryID int64, ownerID string) ([]domain.Bookmark, error) {
	const op = "bookmark.store.ListForCategory"

	bookmarks, err := s.repo.ListByCategory(ctx, categoryID, ownerID)
	if err != nil {
		return s.listFailed(ctx, op, err, "category_id", categoryID, "owner_id", ownerID)
	}
	return bookmarks, nil
}

// Update replaces url, short description and category of bookmark b.ID if ownerID
// owns it. A new category must also belong to ownerID.
func (s *store) Update(ctx context.Context, b domain.Bookmark, ownerID string) error {
	const op = "bookmark.store.Update"

	if ownerID == "" {
		return errx.E(op, errx.Invalid, errOwnerRequired)
	}
	if err := b.Validate(); err != nil {
		return errx.E(op, errx.Invalid, err)
	}

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := checkCategory(ctx, tx, b, ownerID); err != nil {
			return err
		}
		return tx.ReplaceOwned(ctx, b, ownerID)
	})
	if err != nil {
		return s.writeFailed(ctx, op, err, "bookmark_id", b.ID, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "bookmark updated", "bookmark_id", b.ID, "owner_id", ownerID)
	return nil
}

// Delete removes the bookmark if ownerID owns it.
func (s *store) Delete(ctx context.Context, id int64, ownerID string) error {
	const op = "bookmark.store.Delete"

	if ownerID == "" {
		return errx.E(op, errx.Invalid, errOwnerRequired)
	}

	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return s.writeFailed(ctx, op, err, "bookmark_id", id, "owner_id", ownerID)
	}

	s.logger.InfoContext(ctx, "bookmark deleted", "bookmark_id", id, "owner_id", ownerID)
	return nil
}

// checkCategory fails with Unauthorized unless b has no category or its category
// belongs to ownerID.
func checkCategory(ctx context.Context, tx Repository, b domain.Bookmark, ownerID string) error {
	const op = "bookmark.store.checkCategory"

	if !b.HasCategory() {
		return nil
	}

	owned, err := tx.CategoryOwnedBy(ctx, *b.CategoryID, ownerID)
	if err != nil {
		return err
	}
	if !owned {
		return errx.E(op, errx.Unauthorized, errCategoryForeign)
	}
	return nil
}

// writeFailed classifies an error on a mutating path. A missing row or a category that
// vanished mid-write becomes Unauthorized; storage faults are logged and returned.
func (s *store) writeFailed(ctx context.Context, op string, err error, attrs ...any) error {
	switch {
	case errx.Is(err, errx.Misuse):
		return s.misuse(ctx, op, err)
	case errx.Is(err, errx.Unauthorized), errx.Is(err, errx.NotFound):
		return errx.E(op, errx.Unauthorized, err)
	case storage.IsForeignKeyViolation(err, CategoryConstraint):
		return errx.E(op, errx.Unauthorized, err)
	case errx.Is(err, errx.Invalid):
		return errx.Wrap(op, err)
	default:
		s.logger.ErrorContext(ctx, "bookmark write failed",
			append([]any{"error", err.Error(), "operation", op}, attrs...)...,
		)
		return errx.E(op, errx.Unavailable, err)
	}
}

func (s *store) listFailed(ctx context.Context, op string, err error, attrs ...any) ([]domain.Bookmark, error) {
	if errx.Is(err, errx.Misuse) {
		return nil, s.misuse(ctx, op, err)
	}
	s.logger.ErrorContext(ctx, "failed to list bookmarks",
		append([]any{"error", err.Error(), "operation", op}, attrs...)...,
	)
	return []domain.Bookmark{}, nil
}

func (s *store) misuse(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "persistence handle used after release",
		"operation", op,
		"error", err.Error(),
	)
	return errx.E(op, errx.Misuse, err)
}
