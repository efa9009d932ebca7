package events

import (
	"context"
	"fmt"
	"time"

	"chapter/internal/database"
	"chapter/internal/domain/posts"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetPublishedByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, limit, offset int) ([]Event, int, error)
	ListUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]Event, int, error)
	Update(ctx context.Context, id int64, req UpdateEventRequest) (*Event, error)
	SetPublished(ctx context.Context, id int64, published bool) (*Event, error)
	Delete(ctx context.Context, id int64) error
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const eventColumns = `id, title, slug, description, location, starts_at, ends_at, org_unit_id,
	cover_image_url, registration_url, published, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.OrgUnitID,
		&e.CoverImageURL, &e.RegistrationURL, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func mapWriteErr(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err, "events_slug_key"):
		return ErrDuplicateSlug
	case database.IsNoRows(err):
		return ErrNotFound
	case database.IsForeignKeyViolation(err):
		return ErrUnknownOrgUnit
	}
	return fmt.Errorf("%s event: %w", op, err)
}

func (r *Repository) Create(ctx context.Context, e *Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Slug == "" {
		e.Slug = posts.Slugify(e.Title)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO events (title, slug, description, location, starts_at, ends_at, org_unit_id, cover_image_url, registration_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, published, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		e.Title, e.Slug, e.Description, e.Location, e.StartsAt, e.EndsAt, e.OrgUnitID, e.CoverImageURL, e.RegistrationURL,
	).Scan(&e.ID, &e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteErr("create", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (r *Repository) GetPublishedByID(ctx context.Context, id int64) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 AND published`, id))
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return collect(rows, total)
}

// ListUpcoming returns published events that have not ended yet, soonest first.
func (r *Repository) ListUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE published AND ends_at > $1`, now).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE published AND ends_at > $1 ORDER BY starts_at, id LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, now, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list upcoming events: %w", err)
	}
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]Event, int, error) {
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

// Update merges req into the stored event and validates the resulting window
// before writing it back.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateEventRequest) (*Event, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := req.Apply(*current)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	var patch database.Patch
	patch.SetIf(req.Title != nil, "title", next.Title)
	patch.SetIf(req.Slug != nil, "slug", posts.Slugify(next.Slug))
	patch.SetIf(req.Description != nil, "description", next.Description)
	patch.SetIf(req.Location != nil, "location", next.Location)
	patch.SetIf(req.StartsAt != nil, "starts_at", next.StartsAt)
	patch.SetIf(req.EndsAt != nil, "ends_at", next.EndsAt)
	patch.SetIf(req.OrgUnitID != nil, "org_unit_id", next.OrgUnitID)
	patch.SetIf(req.CoverImageURL != nil, "cover_image_url", next.CoverImageURL)
	patch.SetIf(req.RegistrationURL != nil, "registration_url", next.RegistrationURL)
	if patch.Empty() {
		return current, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query, args := patch.Update("events", id, eventColumns)
	e, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapWriteErr("update", err)
	}
	return e, nil
}

func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE events SET published = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + eventColumns
	return scanEvent(r.db.QueryRow(ctx, query, id, published))
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE published AND ends_at > $1`, now).Scan(&n)
	return n, err
}
