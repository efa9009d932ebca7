package auth

import (
	"time"

	"chapter/internal/access"
)

type Authenticator interface {
	GenerateToken(userID int64, role access.Role) (string, time.Time, error)
	ValidateToken(token string) (*Claims, error)
}
