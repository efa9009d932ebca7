package orgunits

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("org unit not found")
	ErrDuplicateSlug     = errors.New("an org unit with that slug already exists")
	ErrInvalidParent     = errors.New("parent org unit is invalid")
	ErrInvalidKind       = errors.New("org unit kind must be committee, chapter or team")
	QueryTimeoutDuration = time.Second * 5
)

type Kind string

const (
	KindCommittee Kind = "committee"
	KindChapter   Kind = "chapter"
	KindTeam      Kind = "team"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCommittee, KindChapter, KindTeam:
		return true
	}
	return false
}

type OrgUnit struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Kind         Kind      `json:"kind"`
	Description  string    `json:"description"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	LeadName     string    `json:"lead_name"`
	ContactEmail string    `json:"contact_email"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateOrgUnitRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Slug         string `json:"slug" validate:"omitempty,max=140"`
	Kind         Kind   `json:"kind" validate:"required,oneof=committee chapter team"`
	Description  string `json:"description"`
	ParentID     *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	LeadName     string `json:"lead_name" validate:"max=120"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateOrgUnitRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=120"`
	Slug         *string `json:"slug" validate:"omitempty,max=140"`
	Kind         *Kind   `json:"kind" validate:"omitempty,oneof=committee chapter team"`
	Description  *string `json:"description"`
	ParentID     *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	ClearParent  bool    `json:"clear_parent"`
	LeadName     *string `json:"lead_name" validate:"omitempty,max=120"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	DisplayOrder *int    `json:"display_order"`
}
