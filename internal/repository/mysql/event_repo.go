package mysql

import (
	"errors"
	"time"

	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

// CreateLinked 活动本体和所属社团的 events_count 同事务写入
func (r *EventRepository) CreateLinked(event *model.Event) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Club{}).
			Where("id = ?", event.ClubID).
			UpdateColumn("events_count", gorm.Expr("events_count + 1")).Error; err != nil {
			return err
		}
		return appendOutbox(tx, "event_created", event.ClubID, event.CreatorID, map[string]any{
			"event_id": event.ID,
			"title":    event.Title,
		})
	})
}

func (r *EventRepository) FindByID(id uint64) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *EventRepository) List(offset, limit int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.Order("starts_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *EventRepository) ListByClub(clubID uint64, offset, limit int) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.Where("club_id = ?", clubID).
		Order("starts_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *EventRepository) Update(event *model.Event, patch map[string]any) error {
	return r.DB.Model(event).Updates(patch).Error
}

// DeleteLinked 删活动连同报名记录和社团计数一起回退，删完活动 id
// 在两边都不再出现
func (r *EventRepository) DeleteLinked(event *model.Event, actorID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Event{}, event.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Club{}).
			Where("id = ?", event.ClubID).
			UpdateColumn("events_count",
				gorm.Expr("CASE WHEN events_count > 0 THEN events_count - 1 ELSE 0 END")).Error; err != nil {
			return err
		}
		return appendOutbox(tx, "event_deleted", event.ClubID, actorID, map[string]any{
			"event_id": event.ID,
		})
	})
}

// Register 报名。唯一索引兜底并发：重复报名（包括两个首次报名同时
// 到达的竞态）统一返回 ErrAlreadyRegistered 而不是静默幂等
func (r *EventRepository) Register(eventID, userID uint64) error {
	err := r.DB.Create(&model.EventAttendee{
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: time.Now(),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ErrAlreadyRegistered
	}
	return err
}

func (r *EventRepository) ListAttendees(eventID uint64) ([]model.EventAttendee, error) {
	var list []model.EventAttendee
	err := r.DB.Where("event_id = ?", eventID).Order("registered_at asc").Find(&list).Error
	return list, err
}

// ListRegistered 用户报名过的活动
func (r *EventRepository) ListRegistered(userID uint64) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.
		Joins("JOIN event_attendees a ON a.event_id = events.id").
		Where("a.user_id = ?", userID).
		Order("events.starts_at desc").
		Find(&list).Error
	return list, err
}
