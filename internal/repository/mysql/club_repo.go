package mysql

import (
	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository struct {
	DB *gorm.DB
}

// CreateWithFounder 建社团三件事在一个事务里：社团本体、创建者的 admin
// 成员身份、创建者平台角色升级。任何一步失败整体回滚
func (r *ClubRepository) CreateWithFounder(club *model.Club, founder *model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}

		mRepo := &MembershipRepository{DB: tx}
		if err := mRepo.Join(&model.ClubMembership{
			ClubID: club.ID,
			UserID: founder.ID,
			Role:   string(authz.RoleAdmin),
		}); err != nil {
			return err
		}

		return appendOutbox(tx, "club_created", club.ID, founder.ID, map[string]any{
			"name": club.Name,
		})
	})
}

func (r *ClubRepository) FindByID(id uint64) (*model.Club, error) {
	var club model.Club
	err := r.DB.First(&club, id).Error
	return &club, err
}

func (r *ClubRepository) List(offset, limit int) ([]model.Club, error) {
	var list []model.Club
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *ClubRepository) Update(club *model.Club, patch map[string]any) error {
	return r.DB.Model(club).Updates(patch).Error
}

// DeleteCascade 级联删除：活动、报名、成员、关注者随社团一起删，
// 避免出现 club_id 悬空的活动
func (r *ClubRepository) DeleteCascade(clubID, actorID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM event_attendees WHERE event_id IN (SELECT id FROM events WHERE club_id = ?)",
			clubID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&model.ClubMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", clubID).Delete(&model.ClubFollower{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Club{}, clubID).Error; err != nil {
			return err
		}
		return appendOutbox(tx, "club_deleted", clubID, actorID, nil)
	})
}

// Follow 幂等关注
func (r *ClubRepository) Follow(clubID, userID uint64) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.ClubFollower{ClubID: clubID, UserID: userID}).Error
}

func (r *ClubRepository) Unfollow(clubID, userID uint64) error {
	return r.DB.Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&model.ClubFollower{}).Error
}

func (r *ClubRepository) CountFollowers(clubID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.ClubFollower{}).Where("club_id = ?", clubID).Count(&n).Error
	return n, err
}

// CountAttendees 社团全部活动的报名总数
func (r *ClubRepository) CountAttendees(clubID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.EventAttendee{}).
		Where("event_id IN (?)", r.DB.Session(&gorm.Session{NewDB: true}).
			Model(&model.Event{}).Select("id").Where("club_id = ?", clubID)).
		Count(&n).Error
	return n, err
}

func (r *ClubRepository) ListFollowers(clubID uint64) ([]model.ClubFollower, error) {
	var list []model.ClubFollower
	err := r.DB.Where("club_id = ?", clubID).Order("id asc").Find(&list).Error
	return list, err
}
