package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/internal/models"
)

type TagRepo interface {
	Create(ctx context.Context, t *models.Tag) error
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	IsNameTaken(ctx context.Context, name string) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type tagRepo struct{ db *pgxpool.Pool }

func NewTagRepo(db *pgxpool.Pool) TagRepo { return &tagRepo{db: db} }

func (r *tagRepo) Create(ctx context.Context, t *models.Tag) error {
	t.ID = uuid.NewString()
	const q = `
		INSERT INTO tags (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, q, t.ID, t.Name, t.Slug, t.Description).Scan(&t.CreatedAt)
}

func (r *tagRepo) GetAll(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, description, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	const q = `SELECT id, name, slug, description, created_at FROM tags WHERE slug = $1`
	var t models.Tag
	if err := r.db.QueryRow(ctx, q, slug).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) IsNameTaken(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tags WHERE name = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, name).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *tagRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tags WHERE slug = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, slug).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
