package access

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is a caller's privilege level. The zero value is not a role; anything
// carrying it is treated as unauthenticated.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleContent
	RoleUser
)

// AllRoles lists every role in privilege order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleContent, RoleUser}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "content":
		return RoleContent, nil
	case "user":
		return RoleUser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleContent:
		return "content"
	case RoleUser:
		return "user"
	}
	return "invalid"
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleContent, RoleUser:
		return true
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan reads a role stored as text.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrUnknownRole)
	}
	return fmt.Errorf("cannot scan %T into Role", src)
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return r.String(), nil
}

// RoleSet is an ordered, duplicate-free set of roles.
type RoleSet struct {
	ordered []Role
	mask    uint8
}

func NewRoleSet(roles ...Role) (RoleSet, error) {
	var s RoleSet
	for _, r := range roles {
		if !r.Valid() {
			return RoleSet{}, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
		}
		bit := uint8(1) << r
		if s.mask&bit != 0 {
			continue
		}
		s.mask |= bit
		s.ordered = append(s.ordered, r)
	}
	return s, nil
}

func (s RoleSet) Contains(r Role) bool {
	if !r.Valid() {
		return false
	}
	return s.mask&(uint8(1)<<r) != 0
}

func (s RoleSet) Len() int { return len(s.ordered) }

// Roles returns a copy of the roles in declaration order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s RoleSet) String() string {
	names := make([]string, len(s.ordered))
	for i, r := range s.ordered {
		names[i] = r.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}
