package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/internal/models"
)

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error)
	ListAll(ctx context.Context, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error)
	Approve(ctx context.Context, id string) error
}

type commentRepo struct{ db *pgxpool.Pool }

func NewCommentRepo(db *pgxpool.Pool) CommentRepo { return &commentRepo{db: db} }

const commentColumns = `id, content, is_approved, author_name, author_email, created_at, post_id, user_id`

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.ID = uuid.NewString()
	const q = `
		INSERT INTO comments (id, content, author_name, author_email, post_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_approved, created_at
	`
	return r.db.QueryRow(ctx, q,
		c.ID,
		c.Content,
		c.AuthorName,
		c.AuthorEmail,
		c.PostID,
		c.UserID,
	).Scan(&c.IsApproved, &c.CreatedAt)
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id).Scan(
		&c.ID, &c.Content, &c.IsApproved, &c.AuthorName, &c.AuthorEmail, &c.CreatedAt, &c.PostID, &c.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) list(ctx context.Context, where []string, args []interface{}, limit, offset int) ([]*models.Comment, int, error) {
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	i := len(args) + 1
	sql := `SELECT ` + commentColumns + ` FROM comments` + cond +
		fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.Content, &c.IsApproved, &c.AuthorName, &c.AuthorEmail, &c.CreatedAt, &c.PostID, &c.UserID,
		); err != nil {
			return nil, 0, err
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error) {
	where := []string{"post_id = $1"}
	args := []interface{}{postID}
	if approvedOnly {
		where = append(where, "is_approved = $2")
		args = append(args, true)
	}
	return r.list(ctx, where, args, limit, offset)
}

func (r *commentRepo) ListAll(ctx context.Context, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error) {
	var where []string
	var args []interface{}
	if approvedOnly {
		where = append(where, "is_approved = $1")
		args = append(args, true)
	}
	return r.list(ctx, where, args, limit, offset)
}

// Approve идемпотентен: повторное одобрение оставляет is_approved = true.
func (r *commentRepo) Approve(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE comments SET is_approved = true WHERE id = $1`, id)
	return err
}
