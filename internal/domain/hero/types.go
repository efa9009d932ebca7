package hero

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("hero announcement not found")
	ErrInvalidWindow     = errors.New("announcement must end after it starts")
	QueryTimeoutDuration = time.Second * 5
)

// Announcement is the banner shown at the top of the public site.
type Announcement struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Subtitle     *string    `json:"subtitle"`
	CTALabel     *string    `json:"cta_label"`
	CTAURL       *string    `json:"cta_url"`
	ImageURL     *string    `json:"image_url"`
	Active       bool       `json:"active"`
	DisplayOrder int        `json:"display_order"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LiveAt reports whether the announcement should be shown at t.
func (a *Announcement) LiveAt(t time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartsAt != nil && t.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && !t.Before(*a.EndsAt) {
		return false
	}
	return true
}

func validWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrInvalidWindow
	}
	return nil
}

type CreateRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Subtitle     *string    `json:"subtitle"`
	CTALabel     *string    `json:"cta_label" validate:"omitempty,max=60"`
	CTAURL       *string    `json:"cta_url" validate:"omitempty,url"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
	Active       bool       `json:"active"`
	DisplayOrder int        `json:"display_order"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

type UpdateRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Subtitle     *string    `json:"subtitle"`
	CTALabel     *string    `json:"cta_label" validate:"omitempty,max=60"`
	CTAURL       *string    `json:"cta_url" validate:"omitempty,url"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
	Active       *bool      `json:"active"`
	DisplayOrder *int       `json:"display_order"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

type DisplayOrderUpdate struct {
	ID           int64 `json:"id" validate:"required,gt=0"`
	DisplayOrder int   `json:"display_order"`
}
