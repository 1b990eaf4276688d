package authz

import "github.com/tritonir/nondan-backend/internal/model"

// ResolveMembership 在用户的成员身份列表里查找目标社团的记录。
// 找不到是正常结果（ok=false），调用方将其映射为 not_a_member 拒绝，
// 与“社团不存在”是两回事。ID 统一用 uint64 比较，路由参数在 handler
// 层已经 ParseUint 归一化，不存在字符串/数值混比的问题。
func ResolveMembership(memberships []model.ClubMembership, clubID uint64) (*model.ClubMembership, bool) {
	for i := range memberships {
		if memberships[i].ClubID == clubID {
			return &memberships[i], true
		}
	}
	return nil, false
}
