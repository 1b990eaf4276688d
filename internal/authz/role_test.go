package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTableMatrix(t *testing.T) {
	table := DefaultTable()

	// 每个角色都有全量权限位
	for _, role := range []ClubRole{RoleAdmin, RoleModerator, RoleEditor, RoleContributor} {
		assert.Len(t, table.CapabilitiesFor(role), 9, "role %s", role)
	}

	assert.True(t, table.Allows(RoleAdmin, CapDeleteClub))
	assert.True(t, table.Allows(RoleAdmin, CapManageRoles))

	assert.True(t, table.Allows(RoleModerator, CapDeleteAllEvents))
	assert.False(t, table.Allows(RoleModerator, CapManageClubSettings))
	assert.False(t, table.Allows(RoleModerator, CapDeleteClub))

	assert.True(t, table.Allows(RoleEditor, CapEditAllEvents))
	assert.False(t, table.Allows(RoleEditor, CapDeleteAllEvents))
	assert.False(t, table.Allows(RoleEditor, CapInviteMembers))

	assert.True(t, table.Allows(RoleContributor, CapCreateEvents))
	assert.False(t, table.Allows(RoleContributor, CapEditAllEvents))
	assert.False(t, table.Allows(RoleContributor, CapDeleteAllEvents))
}

func TestDefaultTableDeterministic(t *testing.T) {
	a := DefaultTable()
	b := DefaultTable()
	for role, caps := range a {
		for cap, v := range caps {
			assert.Equal(t, v, b.Allows(role, cap))
		}
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	table := DefaultTable()

	assert.Empty(t, table.CapabilitiesFor("president"))
	assert.Empty(t, table.CapabilitiesFor(""))
	assert.False(t, table.Allows("super-admin", CapDeleteClub))
}

func TestCapabilitiesForReturnsCopy(t *testing.T) {
	table := DefaultTable()

	caps := table.CapabilitiesFor(RoleContributor)
	caps[CapDeleteClub] = true

	assert.False(t, table.Allows(RoleContributor, CapDeleteClub))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("contributor"))
	assert.False(t, ValidRole("president"))
	assert.False(t, ValidRole(""))
}
