package category

import (
	"context"

	"github.com/sundayezeilo/readlater/internal/domain"
)

// Repository is the persistence collection behind the category store.
// Errors are tagged with errx kinds: NotFound when no row matches, Misuse when the
// underlying session was released, Unavailable for storage faults.
type Repository interface {
	Insert(ctx context.Context, c domain.Category) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	// ReplaceOwned overwrites the mutable fields of the category with c.ID owned by ownerID.
	ReplaceOwned(ctx context.Context, c domain.Category, ownerID string) error
	// DeleteOwned removes the category with id owned by ownerID.
	DeleteOwned(ctx context.Context, id int64, ownerID string) error
}
