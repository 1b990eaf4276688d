package authz

import "github.com/tritonir/nondan-backend/internal/model"

// Action 一次请求想要执行的操作
type Action string

const (
	ActionCreateEvent Action = "createEvent"
	ActionEditEvent   Action = "editEvent"
	ActionDeleteEvent Action = "deleteEvent"

	ActionUpdateClub    Action = "updateClub"
	ActionDeleteClub    Action = "deleteClub"
	ActionInviteMembers Action = "inviteMembers"
	ActionRemoveMembers Action = "removeMembers"
	ActionManageRoles   Action = "manageRoles"
	ActionViewAnalytics Action = "viewAnalytics"
)

// Reason 拒绝原因码，拒绝是一等返回值而不是 error
type Reason string

const (
	ReasonNotMember        Reason = "not_a_member"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotPresident     Reason = "not_president"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision        { return Decision{Allowed: true} }
func Deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// 操作对应的权限位
var actionCapability = map[Action]Capability{
	ActionCreateEvent:   CapCreateEvents,
	ActionEditEvent:     CapEditAllEvents,
	ActionDeleteEvent:   CapDeleteAllEvents,
	ActionUpdateClub:    CapManageClubSettings,
	ActionDeleteClub:    CapDeleteClub,
	ActionInviteMembers: CapInviteMembers,
	ActionRemoveMembers: CapRemoveMembers,
	ActionManageRoles:   CapManageRoles,
	ActionViewAnalytics: CapViewAnalytics,
}

// 支持“创建者兜底”的操作：改/删自己创建的活动不看角色权限
var creatorOverride = map[Action]bool{
	ActionEditEvent:   true,
	ActionDeleteEvent: true,
}

// Engine 授权决策引擎，权限表在构造时注入，测试可替换
type Engine struct {
	table Table
}

func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

// AuthorizeEvent 活动级决策。核心规则是显式的两段式并集：
// isCreator OR hasCapability。创建者身份本身授予对自己活动的改/删权，
// editAllEvents / deleteAllEvents 只在操作他人活动时才被查询。
func (e *Engine) AuthorizeEvent(user *model.User, event *model.Event, action Action) Decision {
	if creatorOverride[action] && event.CreatorID == user.ID {
		return Allow()
	}

	m, ok := ResolveMembership(user.Memberships, event.ClubID)
	if !ok {
		return Deny(ReasonNotMember)
	}
	if e.hasCapability(user, ClubRole(m.Role), actionCapability[action]) {
		return Allow()
	}
	return Deny(ReasonInsufficientRole)
}

// AuthorizeClub 社团级决策。删社团只认社长身份，权限位永远不够格；
// 其余社团操作接受社长身份或对应权限位。
func (e *Engine) AuthorizeClub(user *model.User, club *model.Club, action Action) Decision {
	if action == ActionDeleteClub {
		if club.PresidentID == user.ID {
			return Allow()
		}
		return Deny(ReasonNotPresident)
	}

	if club.PresidentID == user.ID {
		return Allow()
	}

	m, ok := ResolveMembership(user.Memberships, club.ID)
	if !ok {
		return Deny(ReasonNotMember)
	}
	if e.hasCapability(user, ClubRole(m.Role), actionCapability[action]) {
		return Allow()
	}
	return Deny(ReasonInsufficientRole)
}

// hasCapability 查表前先挡掉 student：没加入过社团的用户即使表被配坏
// 也不可能拿到任何社团权限
func (e *Engine) hasCapability(user *model.User, role ClubRole, cap Capability) bool {
	if user.Role == model.PlatformRoleStudent {
		return false
	}
	if cap == "" {
		return false
	}
	return e.table.Allows(role, cap)
}
