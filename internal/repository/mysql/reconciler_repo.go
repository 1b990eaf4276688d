package mysql

import (
	"context"

	"github.com/tritonir/nondan-backend/internal/model"

	"gorm.io/gorm"
)

type ClubStatsRepo struct {
	DB *gorm.DB
}

// ClubCounts 对账用的冗余计数快照
type ClubCounts struct {
	ID           uint64
	MembersCount int64
	EventsCount  int64
}

// ListCounts 按 id 游标批量拉取社团计数
func (r *ClubStatsRepo) ListCounts(ctx context.Context, batchSize int, lastID uint64) ([]ClubCounts, uint64, error) {
	var list []ClubCounts
	if err := r.DB.WithContext(ctx).Model(&model.Club{}).
		Select("id", "members_count", "events_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

func (r *ClubStatsRepo) RealMembers(ctx context.Context, clubID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ClubMembership{}).
		Where("club_id = ?", clubID).Count(&n).Error
	return n, err
}

func (r *ClubStatsRepo) RealEvents(ctx context.Context, clubID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Event{}).
		Where("club_id = ?", clubID).Count(&n).Error
	return n, err
}

func (r *ClubStatsRepo) FixMembers(ctx context.Context, clubID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.Club{}).Where("id = ?", clubID).
		UpdateColumn("members_count", real).Error
}

func (r *ClubStatsRepo) FixEvents(ctx context.Context, clubID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.Club{}).Where("id = ?", clubID).
		UpdateColumn("events_count", real).Error
}

// ListOrphanEvents 所属社团已不存在的活动，属于双写残留
func (r *ClubStatsRepo) ListOrphanEvents(ctx context.Context, batchSize int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.WithContext(ctx).
		Where("club_id NOT IN (?)", r.DB.Session(&gorm.Session{NewDB: true}).Model(&model.Club{}).Select("id")).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

// DropOrphanEvent 清理悬空活动及其报名记录
func (r *ClubStatsRepo) DropOrphanEvent(ctx context.Context, eventID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, eventID).Error
	})
}
