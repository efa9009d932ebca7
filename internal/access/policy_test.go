package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyTable_Lookup(t *testing.T) {
	table := MustPolicyTable(DefaultPolicies()...)

	tests := []struct {
		name      string
		path      string
		wantOK    bool
		wantRoles []Role
	}{
		{"events root", "/admin/events", true, []Role{RoleAdmin}},
		{"events child", "/admin/events/42/edit", true, []Role{RoleAdmin}},
		{"events trailing slash", "/admin/events/", true, []Role{RoleAdmin}},
		{"org unit create", "/admin/organization-units/create", true, []Role{RoleAdmin}},
		{"dashboard hero", "/admin/dashboard/hero", true, []Role{RoleAdmin, RoleContent}},
		{"dashboard root", "/admin/dashboard", true, []Role{RoleAdmin, RoleContent}},
		{"blog", "/admin/blog/7", true, []Role{RoleAdmin, RoleContent}},
		{"lookalike prefix not matched", "/admin/eventsx", false, nil},
		{"admin root has no policy", "/admin", false, nil},
		{"public path", "/events", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, ok := table.Lookup(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRoles, roles.Roles())
			}
		})
	}
}

func TestPolicyTable_FirstMatchWins(t *testing.T) {
	table := MustPolicyTable(
		PolicyEntry{Pattern: "/admin/dashboard/hero*", Roles: []Role{RoleAdmin}},
		PolicyEntry{Pattern: "/admin/dashboard/*", Roles: []Role{RoleAdmin, RoleContent}},
	)

	roles, ok := table.Lookup("/admin/dashboard/hero/3")
	require.True(t, ok)
	assert.Equal(t, []Role{RoleAdmin}, roles.Roles())

	reversed := MustPolicyTable(
		PolicyEntry{Pattern: "/admin/dashboard/*", Roles: []Role{RoleAdmin, RoleContent}},
		PolicyEntry{Pattern: "/admin/dashboard/hero*", Roles: []Role{RoleAdmin}},
	)
	roles, ok = reversed.Lookup("/admin/dashboard/hero/3")
	require.True(t, ok)
	assert.Equal(t, []Role{RoleAdmin, RoleContent}, roles.Roles())
}

func TestPolicyTable_PatternKinds(t *testing.T) {
	table := MustPolicyTable(
		PolicyEntry{Pattern: "/exact", Roles: []Role{RoleUser}},
		PolicyEntry{Pattern: "/pre*", Roles: []Role{RoleContent}},
	)

	_, ok := table.Lookup("/exact")
	assert.True(t, ok)
	_, ok = table.Lookup("/exact/child")
	assert.False(t, ok)

	roles, ok := table.Lookup("/prefixed/anything")
	assert.True(t, ok)
	assert.True(t, roles.Contains(RoleContent))
}

func TestNewPolicyTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		entry PolicyEntry
		want  error
	}{
		{"empty pattern", PolicyEntry{Pattern: "", Roles: []Role{RoleAdmin}}, ErrEmptyPattern},
		{"inner wildcard", PolicyEntry{Pattern: "/admin/*/edit", Roles: []Role{RoleAdmin}}, ErrInvalidWildcard},
		{"no roles", PolicyEntry{Pattern: "/admin/*"}, ErrEmptyRoleSet},
		{"invalid role", PolicyEntry{Pattern: "/admin/*", Roles: []Role{Role(0)}}, ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolicyTable(tt.entry)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNilPolicyTable(t *testing.T) {
	var table *PolicyTable
	_, ok := table.Lookup("/admin/events")
	assert.False(t, ok)
}
