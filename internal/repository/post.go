package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/internal/models"
)

// PostListOptions — параметры выборки постов.
type PostListOptions struct {
	Limit            int
	Offset           int
	TagSlug          string
	PublishedOnly    bool
	OrderByPublished bool // витрина сортирует по дате публикации, API — по дате создания
}

type PostRepo interface {
	Create(ctx context.Context, p *models.Post, tagSlugs []string) (*models.Post, error)
	GetAll(ctx context.Context, opt PostListOptions) ([]*models.Post, int, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, p *models.Post, tagSlugs *[]string) error
	Delete(ctx context.Context, id string) error
}

type postRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) PostRepo { return &postRepo{db: db} }

const postSelect = `
	SELECT p.id, p.title, p.content, p.excerpt, p.slug, p.is_published, p.published_at,
	       p.created_at, p.updated_at, p.user_id,
	       u.username, u.email, u.first_name, u.last_name, u.is_active, u.is_admin,
	       u.created_at, u.updated_at, u.last_login,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var author models.User
	if err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Slug, &p.IsPublished, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.UserID,
		&author.Username, &author.Email, &author.FirstName, &author.LastName,
		&author.IsActive, &author.IsAdmin, &author.CreatedAt, &author.UpdatedAt, &author.LastLogin,
		&p.CommentCount,
	); err != nil {
		return nil, err
	}
	author.ID = p.UserID
	p.Author = &author
	p.Tags = []*models.Tag{}
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *models.Post, tagSlugs []string) (*models.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p.ID = uuid.NewString()
	const q = `
		INSERT INTO posts (id, title, content, excerpt, slug, is_published, published_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6 THEN NOW() ELSE NULL END, $7)
		RETURNING is_published, published_at, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, q,
		p.ID,
		p.Title,
		p.Content,
		p.Excerpt,
		p.Slug,
		p.IsPublished,
		p.UserID,
	).Scan(&p.IsPublished, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := replaceTagLinks(ctx, tx, p.ID, tagSlugs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

// replaceTagLinks заменяет связи поста с тегами; неизвестные slug'и молча пропускаются.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, postID string, tagSlugs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return err
	}
	for _, slug := range tagSlugs {
		_, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id)
			SELECT $1, id FROM tags WHERE slug = $2
			ON CONFLICT DO NOTHING
		`, postID, slug)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postRepo) GetAll(ctx context.Context, opt PostListOptions) ([]*models.Post, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if opt.PublishedOnly {
		where = append(where, fmt.Sprintf("p.is_published = $%d", i))
		args = append(args, true)
		i++
	}
	if opt.TagSlug != "" {
		where = append(where, fmt.Sprintf(`
			EXISTS (
				SELECT 1 FROM post_tags pt
				JOIN tags t ON t.id = pt.tag_id
				WHERE pt.post_id = p.id AND t.slug = $%d
			)
		`, i))
		args = append(args, opt.TagSlug)
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM posts p` + cond
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// при равных временах новее тот, кто вставлен позже
	order := " ORDER BY p.created_at DESC, p.seq DESC"
	if opt.OrderByPublished {
		order = " ORDER BY p.published_at DESC, p.seq DESC"
	}

	sql := postSelect + cond + order + fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, opt.Limit, opt.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadTags(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *postRepo) loadTags(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	rows, err := r.db.Query(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug, t.description, t.created_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}
	return rows.Err()
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, slug).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *postRepo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *postRepo) Update(ctx context.Context, p *models.Post, tagSlugs *[]string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// published_at выставляется один раз при первой публикации
	// и не сбрасывается при снятии с публикации.
	const q = `
		UPDATE posts
		SET title = $1,
		    content = $2,
		    excerpt = $3,
		    is_published = $4,
		    published_at = CASE WHEN $4 AND published_at IS NULL THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $5
	`
	if _, err := tx.Exec(ctx, q, p.Title, p.Content, p.Excerpt, p.IsPublished, p.ID); err != nil {
		return err
	}

	if tagSlugs != nil {
		if err := replaceTagLinks(ctx, tx, p.ID, *tagSlugs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete удаляет пост вместе с комментариями и связями с тегами одной транзакцией.
func (r *postRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM comments WHERE post_id = $1`,
		`DELETE FROM post_tags WHERE post_id = $1`,
		`DELETE FROM posts WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
