package bookmark

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/errx"
	"github.com/sundayezeilo/readlater/internal/storage"
)

// CategoryConstraint is the foreign key from bookmarks to categories.
const CategoryConstraint = "bookmarks_category_id_fkey"

const (
	selectBookmarkColumns = `
		SELECT b.id, b.url, b.short_description, b.category_id, b.owner_id, b.created_at,
		       c.id, c.name, c.owner_id
		FROM bookmarks b
		LEFT JOIN categories c ON c.id = b.category_id`

	insertBookmarkSQL = `
		INSERT INTO bookmarks (url, short_description, category_id, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	getBookmarkSQL = selectBookmarkColumns + `
		WHERE b.id = $1`

	listBookmarksByOwnerSQL = selectBookmarkColumns + `
		WHERE b.owner_id = $1
		ORDER BY b.id`

	listBookmarksByCategorySQL = selectBookmarkColumns + `
		WHERE b.category_id = $1 AND b.owner_id = $2
		ORDER BY b.id`

	replaceOwnedBookmarkSQL = `
		UPDATE bookmarks
		SET url = $3, short_description = $4, category_id = $5
		WHERE id = $1 AND owner_id = $2`

	deleteOwnedBookmarkSQL = `
		DELETE FROM bookmarks
		WHERE id = $1 AND owner_id = $2`

	categoryOwnedBySQL = `
		SELECT 1
		FROM categories
		WHERE id = $1 AND owner_id = $2
		FOR KEY SHARE`
)

var errNoMatch = errors.New("no bookmark matched id and owner")

type repo struct {
	session *storage.Session
	logger  *slog.Logger
}

// NewRepository returns a PostgreSQL Repository bound to session.
func NewRepository(session *storage.Session, logger *slog.Logger) Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &repo{session: session, logger: logger}
}

func scanBookmark(row pgx.Row) (domain.Bookmark, error) {
	var (
		b        domain.Bookmark
		catID    *int64
		catName  *string
		catOwner *string
	)
	if err := row.Scan(
		&b.ID, &b.URL, &b.ShortDescription, &b.CategoryID, &b.OwnerID, &b.CreatedAt,
		&catID, &catName, &catOwner,
	); err != nil {
		return domain.Bookmark{}, err
	}

	if catID != nil {
		b.Category = &domain.Category{ID: *catID}
		if catName != nil {
			b.Category.Name = *catName
		}
		if catOwner != nil {
			b.Category.OwnerID = *catOwner
		}
	}
	return b, nil
}

func (r *repo) Insert(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	const op = "bookmark.repo.Insert"

	db, err := r.session.DB()
	if err != nil {
		return domain.Bookmark{}, storage.MapError(op, err)
	}

	err = db.QueryRow(ctx, insertBookmarkSQL,
		b.URL, b.ShortDescription, b.CategoryID, b.OwnerID, b.CreatedAt,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return domain.Bookmark{}, storage.MapError(op, err)
	}
	return b, nil
}

func (r *repo) Get(ctx context.Context, id int64) (domain.Bookmark, error) {
	const op = "bookmark.repo.Get"

	db, err := r.session.DB()
	if err != nil {
		return domain.Bookmark{}, storage.MapError(op, err)
	}

	b, err := scanBookmark(db.QueryRow(ctx, getBookmarkSQL, id))
	if err != nil {
		return domain.Bookmark{}, storage.MapError(op, err)
	}
	return b, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	return r.list(ctx, "bookmark.repo.ListByOwner", listBookmarksByOwnerSQL, ownerID)
}

func (r *repo) ListByCategory(ctx context.Context, categoryID int64, ownerID string) ([]domain.Bookmark, error) {
	return r.list(ctx, "bookmark.repo.ListByCategory", listBookmarksByCategorySQL, categoryID, ownerID)
}

func (r *repo) list(ctx context.Context, op, sql string, args ...any) ([]domain.Bookmark, error) {
	db, err := r.session.DB()
	if err != nil {
		return nil, storage.MapError(op, err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storage.MapError(op, err)
	}

	bookmarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bookmark, error) {
		return scanBookmark(row)
	})
	if err != nil {
		return nil, storage.MapError(op, err)
	}
	return bookmarks, nil
}

func (r *repo) ReplaceOwned(ctx context.Context, b domain.Bookmark, ownerID string) error {
	const op = "bookmark.repo.ReplaceOwned"

	db, err := r.session.DB()
	if err != nil {
		return storage.MapError(op, err)
	}

	tag, err := db.Exec(ctx, replaceOwnedBookmarkSQL,
		b.ID, ownerID, b.URL, b.ShortDescription, b.CategoryID,
	)
	if err != nil {
		return storage.MapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, errNoMatch)
	}
	return nil
}

func (r *repo) DeleteOwned(ctx context.Context, id int64, ownerID string) error {
	const op = "bookmark.repo.DeleteOwned"

	db, err := r.session.DB()
	if err != nil {
		return storage.MapError(op, err)
	}

	tag, err := db.Exec(ctx, deleteOwnedBookmarkSQL, id, ownerID)
	if err != nil {
		return storage.MapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, errNoMatch)
	}
	return nil
}

func (r *repo) CategoryOwnedBy(ctx context.Context, categoryID int64, ownerID string) (bool, error) {
	const op = "bookmark.repo.CategoryOwnedBy"

	db, err := r.session.DB()
	if err != nil {
		return false, storage.MapError(op, err)
	}

	var one int
	err = db.QueryRow(ctx, categoryOwnedBySQL, categoryID, ownerID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storage.MapError(op, err)
	}
	return true, nil
}

func (r *repo) WithinTx(ctx context.Context, fn func(tx Repository) error) error {
	const op = "bookmark.repo.WithinTx"

	err := r.session.InTx(ctx, r.logger, func(tx *storage.Session) error {
		return fn(&repo{session: tx, logger: r.logger})
	})
	if err == nil {
		return nil
	}
	// Errors from fn are already tagged; begin and commit failures are not.
	if errx.KindOf(err) != errx.Unknown {
		return err
	}
	return storage.MapError(op, err)
}
