package model

import "time"

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ActivityOutbox 社团/活动生命周期事件监控表
type ActivityOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // club_created / club_deleted / event_created / event_deleted / member_joined / member_left
	ClubID    uint64 `gorm:"not null;index"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }
