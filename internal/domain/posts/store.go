package posts

import (
	"context"
	"fmt"

	"chapter/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Post, int, error)
	Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error)
	SetStatus(ctx context.Context, id int64, status Status) (*Post, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, status *Status) (int, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const postColumns = `id, title, slug, summary, body, cover_image_url, tags, status, published_at, author_id, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Body, &p.CoverImageURL,
		&p.Tags, &p.Status, &p.PublishedAt, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func mapWriteErr(op string, err error) error {
	if database.IsUniqueViolation(err, "posts_slug_key") {
		return ErrDuplicateSlug
	}
	if database.IsNoRows(err) {
		return ErrNotFound
	}
	return fmt.Errorf("%s post: %w", op, err)
}

func (r *Repository) Create(ctx context.Context, p *Post) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Tags = NormalizeTags(p.Tags)

	query := `
		INSERT INTO posts (title, slug, summary, body, cover_image_url, tags, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		p.Title, p.Slug, p.Summary, p.Body, p.CoverImageURL, p.Tags, p.AuthorID,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteErr("create", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *Repository) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND status = 'published'`
	return scanPost(r.db.QueryRow(ctx, query, slug))
}

// List returns posts newest first. Published posts are ordered by
// published_at, everything else by creation time.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Post, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	where := "WHERE ($1::text IS NULL OR status = $1) AND ($2 = '' OR $2 = ANY(tags))"
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts `+where, status, filter.Tag).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts ` + where + `
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, status, filter.Tag, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error) {
	var patch database.Patch
	patch.SetIf(req.Title != nil, "title", deref(req.Title))
	patch.SetIf(req.Slug != nil, "slug", Slugify(deref(req.Slug)))
	patch.SetIf(req.Summary != nil, "summary", deref(req.Summary))
	patch.SetIf(req.Body != nil, "body", deref(req.Body))
	patch.SetIf(req.CoverImageURL != nil, "cover_image_url", req.CoverImageURL)
	if req.Tags != nil {
		patch.Set("tags", NormalizeTags(*req.Tags))
	}
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query, args := patch.Update("posts", id, postColumns)
	p, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapWriteErr("update", err)
	}
	return p, nil
}

// SetStatus publishes or unpublishes a post. published_at is stamped on the
// first publish and kept on later ones.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE posts
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return scanPost(r.db.QueryRow(ctx, query, id, string(status)))
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, status *Status) (int, error) {
	var s *string
	if status != nil {
		v := string(*status)
		s = &v
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE $1::text IS NULL OR status = $1`, s).Scan(&n)
	return n, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
