package model

import "time"

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
)

type Event struct {
	ID              uint64    `gorm:"primaryKey"`
	ClubID          uint64    `gorm:"not null;index"` // 创建后不可变更
	CreatorID       uint64    `gorm:"not null;index"`
	Title           string    `gorm:"size:200;not null"`
	Description     string    `gorm:"type:text;not null"`
	StartsAt        time.Time `gorm:"not null;index"`
	EndsAt          time.Time `gorm:"not null"`
	Location        string    `gorm:"size:255;not null"`
	Category        string    `gorm:"size:32;not null"`
	ImageURL        string    `gorm:"size:255"`
	Status          string    `gorm:"size:16;not null;default:upcoming"`
	PaymentRequired bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EventAttendee 报名记录，(event_id, user_id) 唯一，重复报名直接拒绝
type EventAttendee struct {
	ID           uint64    `gorm:"primaryKey"`
	EventID      uint64    `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID       uint64    `gorm:"not null;index;uniqueIndex:uk_event_user"`
	RegisteredAt time.Time `gorm:"not null"`
}

func (EventAttendee) TableName() string {
	return "event_attendees"
}
