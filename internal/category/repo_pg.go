package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sundayezeilo/readlater/internal/domain"
	"github.com/sundayezeilo/readlater/internal/errx"
	"github.com/sundayezeilo/readlater/internal/storage"
)

const (
	insertCategorySQL = `
		INSERT INTO categories (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id`

	listCategoriesSQL = `
		SELECT id, name, owner_id
		FROM categories
		ORDER BY id`

	getCategorySQL = `
		SELECT id, name, owner_id
		FROM categories
		WHERE id = $1`

	getCategoryByNameSQL = `
		SELECT id, name, owner_id
		FROM categories
		WHERE name = $1
		ORDER BY id
		LIMIT 1`

	replaceOwnedCategorySQL = `
		UPDATE categories
		SET name = $3
		WHERE id = $1 AND owner_id = $2`

	deleteOwnedCategorySQL = `
		DELETE FROM categories
		WHERE id = $1 AND owner_id = $2`
)

var errNoMatch = errors.New("no category matched id and owner")

type repo struct {
	session *storage.Session
}

// NewRepository returns a PostgreSQL Repository bound to session.
func NewRepository(session *storage.Session) Repository {
	return &repo{session: session}
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.OwnerID)
	return c, err
}

func (r *repo) Insert(ctx context.Context, c domain.Category) (domain.Category, error) {
	const op = "category.repo.Insert"

	db, err := r.session.DB()
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}

	created, err := scanCategory(db.QueryRow(ctx, insertCategorySQL, c.Name, c.OwnerID))
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}
	return created, nil
}

func (r *repo) List(ctx context.Context) ([]domain.Category, error) {
	const op = "category.repo.List"

	db, err := r.session.DB()
	if err != nil {
		return nil, storage.MapError(op, err)
	}

	rows, err := db.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, storage.MapError(op, err)
	}

	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, storage.MapError(op, err)
	}
	return cats, nil
}

func (r *repo) Get(ctx context.Context, id int64) (domain.Category, error) {
	const op = "category.repo.Get"

	db, err := r.session.DB()
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}

	c, err := scanCategory(db.QueryRow(ctx, getCategorySQL, id))
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}
	return c, nil
}

func (r *repo) GetByName(ctx context.Context, name string) (domain.Category, error) {
	const op = "category.repo.GetByName"

	db, err := r.session.DB()
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}

	c, err := scanCategory(db.QueryRow(ctx, getCategoryByNameSQL, name))
	if err != nil {
		return domain.Category{}, storage.MapError(op, err)
	}
	return c, nil
}

func (r *repo) ReplaceOwned(ctx context.Context, c domain.Category, ownerID string) error {
	const op = "category.repo.ReplaceOwned"

	db, err := r.session.DB()
	if err != nil {
		return storage.MapError(op, err)
	}

	tag, err := db.Exec(ctx, replaceOwnedCategorySQL, c.ID, ownerID, c.Name)
	if err != nil {
		return storage.MapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, errNoMatch)
	}
	return nil
}

func (r *repo) DeleteOwned(ctx context.Context, id int64, ownerID string) error {
	const op = "category.repo.DeleteOwned"

	db, err := r.session.DB()
	if err != nil {
		return storage.MapError(op, err)
	}

	tag, err := db.Exec(ctx, deleteOwnedCategorySQL, id, ownerID)
	if err != nil {
		return storage.MapError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, errNoMatch)
	}
	return nil
}
