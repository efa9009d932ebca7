package events

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrDuplicateSlug     = errors.New("an event with that slug already exists")
	ErrInvalidWindow     = errors.New("event must end after it starts")
	ErrUnknownOrgUnit    = errors.New("org unit does not exist")
	QueryTimeoutDuration = time.Second * 5
)

type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	OrgUnitID       *int64    `json:"org_unit_id,omitempty"`
	CoverImageURL   *string   `json:"cover_image_url"`
	RegistrationURL *string   `json:"registration_url"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks the invariants the database would otherwise reject.
func (e *Event) Validate() error {
	if !e.EndsAt.After(e.StartsAt) {
		return ErrInvalidWindow
	}
	return nil
}

type CreateEventRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Slug            string    `json:"slug" validate:"omitempty,max=220"`
	Description     string    `json:"description"`
	Location        string    `json:"location" validate:"max=255"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	EndsAt          time.Time `json:"ends_at" validate:"required"`
	OrgUnitID       *int64    `json:"org_unit_id" validate:"omitempty,gt=0"`
	CoverImageURL   *string   `json:"cover_image_url" validate:"omitempty,url"`
	RegistrationURL *string   `json:"registration_url" validate:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=200"`
	Slug            *string    `json:"slug" validate:"omitempty,max=220"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location" validate:"omitempty,max=255"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	OrgUnitID       *int64     `json:"org_unit_id" validate:"omitempty,gt=0"`
	CoverImageURL   *string    `json:"cover_image_url" validate:"omitempty,url"`
	RegistrationURL *string    `json:"registration_url" validate:"omitempty,url"`
}

// Apply merges the set fields of req into a copy of e.
func (req UpdateEventRequest) Apply(e Event) Event {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Slug != nil {
		e.Slug = *req.Slug
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		e.EndsAt = *req.EndsAt
	}
	if req.OrgUnitID != nil {
		e.OrgUnitID = req.OrgUnitID
	}
	if req.CoverImageURL != nil {
		e.CoverImageURL = req.CoverImageURL
	}
	if req.RegistrationURL != nil {
		e.RegistrationURL = req.RegistrationURL
	}
	return e
}
