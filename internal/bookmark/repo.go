package bookmark

import (
	"context"

	"github.com/sundayezeilo/readlater/internal/domain"
)

// Repository is the persistence collection behind the bookmark store.
// Errors are tagged with errx kinds: NotFound when no row matches, Misuse when the
// underlying session was released, Invalid for constraint violations, Unavailable for
// storage faults.
type Repository interface {
	// Insert stores b and returns it with its assigned ID.
	Insert(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error)
	// Get returns the bookmark with its category resolved.
	Get(ctx context.Context, id int64) (domain.Bookmark, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error)
	ListByCategory(ctx context.Context, categoryID int64, ownerID string) ([]domain.Bookmark, error)
	// ReplaceOwned overwrites url, short description and category of the bookmark b.ID
	// owned by ownerID.
	ReplaceOwned(ctx context.Context, b domain.Bookmark, ownerID string) error
	DeleteOwned(ctx context.Context, id int64, ownerID string) error
	// CategoryOwnedBy reports whether categoryID exists and belongs to ownerID. Inside
	// WithinTx the category row stays locked against deletion until commit.
	CategoryOwnedBy(ctx context.Context, categoryID int64, ownerID string) (bool, error)
	// WithinTx runs fn against a repository bound to a single transaction.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}
