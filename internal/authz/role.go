package authz

// ClubRole 社团内角色
type ClubRole string

const (
	RoleAdmin       ClubRole = "admin"
	RoleModerator   ClubRole = "moderator"
	RoleEditor      ClubRole = "editor"
	RoleContributor ClubRole = "contributor"
)

// Capability 具名权限位，按社团内角色解释
type Capability string

const (
	CapDeleteClub         Capability = "deleteClub"
	CapManageRoles        Capability = "manageRoles"
	CapInviteMembers      Capability = "inviteMembers"
	CapRemoveMembers      Capability = "removeMembers"
	CapCreateEvents       Capability = "createEvents"
	CapEditAllEvents      Capability = "editAllEvents"
	CapDeleteAllEvents    Capability = "deleteAllEvents"
	CapManageClubSettings Capability = "manageClubSettings"
	CapViewAnalytics      Capability = "viewAnalytics"
)

// Table 角色到权限位的映射，初始化后只读，由 Engine 注入使用
type Table map[ClubRole]map[Capability]bool

// DefaultTable 固定的角色权限矩阵
func DefaultTable() Table {
	return Table{
		RoleAdmin: {
			CapDeleteClub:         true,
			CapManageRoles:        true,
			CapInviteMembers:      true,
			CapRemoveMembers:      true,
			CapCreateEvents:       true,
			CapEditAllEvents:      true,
			CapDeleteAllEvents:    true,
			CapManageClubSettings: true,
			CapViewAnalytics:      true,
		},
		RoleModerator: {
			CapDeleteClub:         false,
			CapManageRoles:        false,
			CapInviteMembers:      true,
			CapRemoveMembers:      true,
			CapCreateEvents:       true,
			CapEditAllEvents:      true,
			CapDeleteAllEvents:    true,
			CapManageClubSettings: false,
			CapViewAnalytics:      true,
		},
		RoleEditor: {
			CapDeleteClub:         false,
			CapManageRoles:        false,
			CapInviteMembers:      false,
			CapRemoveMembers:      false,
			CapCreateEvents:       true,
			CapEditAllEvents:      true,
			CapDeleteAllEvents:    false,
			CapManageClubSettings: false,
			CapViewAnalytics:      false,
		},
		RoleContributor: {
			CapDeleteClub:         false,
			CapManageRoles:        false,
			CapInviteMembers:      false,
			CapRemoveMembers:      false,
			CapCreateEvents:       true,
			CapEditAllEvents:      false,
			CapDeleteAllEvents:    false,
			CapManageClubSettings: false,
			CapViewAnalytics:      false,
		},
	}
}

// Allows 查询角色是否拥有某个权限位，未知角色一律为 false
func (t Table) Allows(role ClubRole, cap Capability) bool {
	caps, ok := t[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// CapabilitiesFor 返回角色的权限位集合副本，未知角色返回空集
func (t Table) CapabilitiesFor(role ClubRole) map[Capability]bool {
	caps, ok := t[role]
	if !ok {
		return map[Capability]bool{}
	}
	out := make(map[Capability]bool, len(caps))
	for c, v := range caps {
		out[c] = v
	}
	return out
}

// ValidRole 邀请/改角色时校验目标角色是否存在
func ValidRole(role string) bool {
	switch ClubRole(role) {
	case RoleAdmin, RoleModerator, RoleEditor, RoleContributor:
		return true
	}
	return false
}
