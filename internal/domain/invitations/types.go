package invitations

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"chapter/internal/access"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("invitation not found")
	ErrExpired           = errors.New("invitation has expired")
	ErrAlreadyAccepted   = errors.New("invitation was already accepted")
	ErrPendingExists     = errors.New("a pending invitation for that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

type Invitation struct {
	ID         int64       `json:"id"`
	Email      string      `json:"email"`
	Role       access.Role `json:"role"`
	InvitedBy  *int64      `json:"invited_by,omitempty"`
	ExpiresAt  time.Time   `json:"expires_at"`
	AcceptedAt *time.Time  `json:"accepted_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// StatusAt derives the lifecycle state at t.
func (i *Invitation) StatusAt(t time.Time) Status {
	switch {
	case i.AcceptedAt != nil:
		return StatusAccepted
	case !t.Before(i.ExpiresAt):
		return StatusExpired
	default:
		return StatusPending
	}
}

// NewToken returns a random plain token and the hash that is persisted.
func NewToken() (plain, hash string) {
	plain = uuid.New().String()
	return plain, HashToken(plain)
}

func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
