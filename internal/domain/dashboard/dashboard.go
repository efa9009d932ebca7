package dashboard

import (
	"context"
	"fmt"
	"time"

	"chapter/internal/database"
)

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

// GetOverview gathers every counter in a single round trip. now decides
// which events are upcoming and which hero banners are live.
func (r *Repository) GetOverview(ctx context.Context, now time.Time) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active = true),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM users WHERE role = 'content'),

			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM posts WHERE status = 'draft'),

			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM events WHERE published AND ends_at > $1),

			(SELECT COUNT(*) FROM org_units),
			(SELECT COUNT(*) FROM invitations WHERE accepted_at IS NULL AND expires_at > $1),
			(SELECT COUNT(*) FROM hero_announcements
				WHERE active AND (starts_at IS NULL OR starts_at <= $1) AND (ends_at IS NULL OR ends_at > $1)),
			(SELECT COUNT(*) FROM uploads)
	`

	var o Overview
	err := r.db.QueryRow(ctx, q, now).Scan(
		&o.TotalUsers,
		&o.ActiveUsers,
		&o.AdminUsers,
		&o.ContentUsers,

		&o.TotalPosts,
		&o.PublishedPosts,
		&o.DraftPosts,

		&o.TotalEvents,
		&o.UpcomingEvents,

		&o.OrgUnits,
		&o.PendingInvitations,
		&o.LiveHeroes,
		&o.Uploads,
	)
	if err != nil {
		return nil, fmt.Errorf("get dashboard overview: %w", err)
	}

	return &o, nil
}
