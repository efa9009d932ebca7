package access

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPattern    = errors.New("policy pattern is empty")
	ErrInvalidWildcard = errors.New("wildcard is only allowed as the last character")
	ErrEmptyRoleSet    = errors.New("policy entry has no roles")
)

// PolicyEntry pairs a path pattern with the roles allowed to reach it.
//
// Patterns:
//
//	/admin/events/*   matches /admin/events and anything below /admin/events/
//	/admin/events*    matches any path starting with /admin/events
//	/admin/events     matches only /admin/events
type PolicyEntry struct {
	Pattern string
	Roles   []Role
}

type matchKind uint8

const (
	matchExact matchKind = iota
	matchPrefix
	matchSubtree
)

type matcher struct {
	kind matchKind
	base string
}

func compilePattern(pattern string) (matcher, error) {
	if pattern == "" {
		return matcher{}, ErrEmptyPattern
	}
	star := strings.IndexByte(pattern, '*')
	switch {
	case star == -1:
		return matcher{kind: matchExact, base: normalizePath(pattern)}, nil
	case star != len(pattern)-1:
		return matcher{}, ErrInvalidWildcard
	case strings.HasSuffix(pattern, "/*"):
		return matcher{kind: matchSubtree, base: strings.TrimSuffix(pattern, "/*")}, nil
	default:
		return matcher{kind: matchPrefix, base: strings.TrimSuffix(pattern, "*")}, nil
	}
}

func (m matcher) match(path string) bool {
	switch m.kind {
	case matchExact:
		return path == m.base
	case matchPrefix:
		return strings.HasPrefix(path, m.base)
	case matchSubtree:
		if m.base == "" {
			return true
		}
		return path == m.base || strings.HasPrefix(path, m.base+"/")
	}
	return false
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

type compiledEntry struct {
	matcher matcher
	roles   RoleSet
}

// PolicyTable maps request paths to allowed roles. It is immutable once built
// and safe for concurrent use.
type PolicyTable struct {
	entries []compiledEntry
}

func NewPolicyTable(entries ...PolicyEntry) (*PolicyTable, error) {
	t := &PolicyTable{entries: make([]compiledEntry, 0, len(entries))}
	for _, e := range entries {
		m, err := compilePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", e.Pattern, err)
		}
		if len(e.Roles) == 0 {
			return nil, fmt.Errorf("policy %q: %w", e.Pattern, ErrEmptyRoleSet)
		}
		roles, err := NewRoleSet(e.Roles...)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", e.Pattern, err)
		}
		t.entries = append(t.entries, compiledEntry{matcher: m, roles: roles})
	}
	return t, nil
}

func MustPolicyTable(entries ...PolicyEntry) *PolicyTable {
	t, err := NewPolicyTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the roles of the first entry matching path. ok is false when
// no entry matches.
func (t *PolicyTable) Lookup(path string) (roles RoleSet, ok bool) {
	if t == nil {
		return RoleSet{}, false
	}
	path = normalizePath(path)
	for _, e := range t.entries {
		if e.matcher.match(path) {
			return e.roles, true
		}
	}
	return RoleSet{}, false
}

// DefaultPolicies is the admin route table.
func DefaultPolicies() []PolicyEntry {
	return []PolicyEntry{
		{Pattern: "/admin/events/*", Roles: []Role{RoleAdmin}},
		{Pattern: "/admin/organization-units/*", Roles: []Role{RoleAdmin}},
		{Pattern: "/admin/users/*", Roles: []Role{RoleAdmin}},
		{Pattern: "/admin/invitations/*", Roles: []Role{RoleAdmin}},
		{Pattern: "/admin/dashboard/*", Roles: []Role{RoleAdmin, RoleContent}},
		{Pattern: "/admin/blog/*", Roles: []Role{RoleAdmin, RoleContent}},
		{Pattern: "/admin/uploads/*", Roles: []Role{RoleAdmin, RoleContent}},
	}
}
