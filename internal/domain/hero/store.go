package hero

import (
	"context"
	"fmt"
	"time"

	"chapter/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	GetLive(ctx context.Context, now time.Time) (*Announcement, error)
	List(ctx context.Context, limit, offset int) ([]Announcement, int, error)
	GetByID(ctx context.Context, id int64) (*Announcement, error)
	Create(ctx context.Context, req CreateRequest) (*Announcement, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Announcement, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (*Announcement, error)
	Reorder(ctx context.Context, updates []DisplayOrderUpdate) error
	CountActive(ctx context.Context, now time.Time) (int, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const heroColumns = `id, title, subtitle, cta_label, cta_url, image_url, active, display_order,
	starts_at, ends_at, created_at, updated_at`

// liveCondition selects announcements whose window contains $1.
const liveCondition = `active AND (starts_at IS NULL OR starts_at <= $1) AND (ends_at IS NULL OR ends_at > $1)`

func scanAnnouncement(row pgx.Row) (*Announcement, error) {
	a := &Announcement{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Subtitle, &a.CTALabel, &a.CTAURL, &a.ImageURL, &a.Active,
		&a.DisplayOrder, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan hero row: %w", err)
	}
	return a, nil
}

// GetLive returns the first live announcement by display order, or
// ErrNotFound when nothing is scheduled.
func (r *Repository) GetLive(ctx context.Context, now time.Time) (*Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + heroColumns + ` FROM hero_announcements WHERE ` + liveCondition + `
		ORDER BY display_order ASC, created_at DESC LIMIT 1`
	return scanAnnouncement(r.db.QueryRow(ctx, query, now))
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Announcement, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hero_announcements`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count hero announcements: %w", err)
	}

	query := `SELECT ` + heroColumns + ` FROM hero_announcements
		ORDER BY display_order ASC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query hero announcements: %w", err)
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanAnnouncement(r.db.QueryRow(ctx, `SELECT `+heroColumns+` FROM hero_announcements WHERE id = $1`, id))
}

func (r *Repository) Create(ctx context.Context, req CreateRequest) (*Announcement, error) {
	if err := validWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO hero_announcements (title, subtitle, cta_label, cta_url, image_url, active, display_order, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + heroColumns
	return scanAnnouncement(r.db.QueryRow(ctx, query,
		req.Title, req.Subtitle, req.CTALabel, req.CTAURL, req.ImageURL, req.Active, req.DisplayOrder, req.StartsAt, req.EndsAt,
	))
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdateRequest) (*Announcement, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end := current.StartsAt, current.EndsAt
	if req.StartsAt != nil {
		start = req.StartsAt
	}
	if req.EndsAt != nil {
		end = req.EndsAt
	}
	if err := validWindow(start, end); err != nil {
		return nil, err
	}

	var patch database.Patch
	patch.SetIf(req.Title != nil, "title", req.Title)
	patch.SetIf(req.Subtitle != nil, "subtitle", req.Subtitle)
	patch.SetIf(req.CTALabel != nil, "cta_label", req.CTALabel)
	patch.SetIf(req.CTAURL != nil, "cta_url", req.CTAURL)
	patch.SetIf(req.ImageURL != nil, "image_url", req.ImageURL)
	patch.SetIf(req.Active != nil, "active", req.Active)
	patch.SetIf(req.DisplayOrder != nil, "display_order", req.DisplayOrder)
	patch.SetIf(req.StartsAt != nil, "starts_at", req.StartsAt)
	patch.SetIf(req.EndsAt != nil, "ends_at", req.EndsAt)
	if patch.Empty() {
		return current, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query, args := patch.Update("hero_announcements", id, heroColumns)
	return scanAnnouncement(r.db.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM hero_announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hero announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the active flag.
func (r *Repository) Toggle(ctx context.Context, id int64) (*Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE hero_announcements SET active = NOT active, updated_at = NOW() WHERE id = $1 RETURNING ` + heroColumns
	return scanAnnouncement(r.db.QueryRow(ctx, query, id))
}

// Reorder applies display orders in one batch. Callers wanting all-or-nothing
// semantics run it on a transaction.
func (r *Repository) Reorder(ctx context.Context, updates []DisplayOrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE hero_announcements SET display_order = $1, updated_at = NOW() WHERE id = $2`, u.DisplayOrder, u.ID)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, u := range updates {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("failed to update display order for hero %d: %w", u.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("hero %d: %w", u.ID, ErrNotFound)
		}
	}
	return nil
}

func (r *Repository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hero_announcements WHERE `+liveCondition, now).Scan(&n)
	return n, err
}
