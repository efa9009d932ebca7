package dashboard

import (
	"context"
	"time"
)

type Overview struct {
	// Users
	TotalUsers   int64 `json:"total_users"`
	ActiveUsers  int64 `json:"active_users"`
	AdminUsers   int64 `json:"admin_users"`
	ContentUsers int64 `json:"content_users"`

	// Content
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	DraftPosts     int64 `json:"draft_posts"`

	// Events
	TotalEvents    int64 `json:"total_events"`
	UpcomingEvents int64 `json:"upcoming_events"`

	OrgUnits           int64 `json:"org_units"`
	PendingInvitations int64 `json:"pending_invitations"`
	LiveHeroes         int64 `json:"live_heroes"`
	Uploads            int64 `json:"uploads"`
}

type Store interface {
	GetOverview(ctx context.Context, now time.Time) (*Overview, error)
}
