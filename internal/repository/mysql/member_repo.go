package mysql

import (
	"github.com/tritonir/nondan-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	DB *gorm.DB
}

// Join 入团四件事一个事务落库：成员身份（幂等插入）、社团计数、
// 平台角色升级、member_joined 事件。任何一步失败整体回滚，不会出现
// 已入团但平台角色还是 student 的半截状态
func (r *MembershipRepository) Join(m *model.ClubMembership) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&model.Club{}).
			Where("id = ?", m.ClubID).
			UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).
			Where("id = ?", m.UserID).
			Update("role", model.PlatformRoleClubMember).Error; err != nil {
			return err
		}
		return appendOutbox(tx, "member_joined", m.ClubID, m.UserID, map[string]any{
			"role": m.Role,
		})
	})
}

// Remove 退团/移除，actorID 是操作发起者（主动退团时等于 userID）
func (r *MembershipRepository) Remove(clubID, userID, actorID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("club_id = ? AND user_id = ?", clubID, userID).
			Delete(&model.ClubMembership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		// 计数防负数，漂移交给对账兜底
		if err := tx.Model(&model.Club{}).
			Where("id = ?", clubID).
			UpdateColumn("members_count",
				gorm.Expr("CASE WHEN members_count > 0 THEN members_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		return appendOutbox(tx, "member_left", clubID, actorID, map[string]any{
			"user_id": userID,
		})
	})
}

func (r *MembershipRepository) Find(clubID, userID uint64) (*model.ClubMembership, error) {
	var m model.ClubMembership
	err := r.DB.Where("club_id = ? AND user_id = ?", clubID, userID).First(&m).Error
	return &m, err
}

func (r *MembershipRepository) UpdateRole(clubID, userID uint64, role string) error {
	return r.DB.Model(&model.ClubMembership{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Update("role", role).Error
}

func (r *MembershipRepository) ListByClub(clubID uint64) ([]model.ClubMembership, error) {
	var list []model.ClubMembership
	err := r.DB.Where("club_id = ?", clubID).Order("id asc").Find(&list).Error
	return list, err
}
