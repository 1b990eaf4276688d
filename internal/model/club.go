package model

import "time"

type Club struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;size:100;not null"`
	Description  string `gorm:"type:text;not null"`
	Category     string `gorm:"size:32;not null"` // technology / sports / arts / academic / social
	Logo         string `gorm:"size:255"`
	Banner       string `gorm:"size:255"`
	Website      string `gorm:"size:255"`
	ContactEmail string `gorm:"size:64"`

	// 社长是独立于社团内角色的最高权限，必须始终在成员表中
	PresidentID uint64 `gorm:"not null;index"`

	// 冗余计数，事务内维护，由对账任务兜底
	MembersCount int64 `gorm:"not null;default:0"`
	EventsCount  int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClubFollower 关注关系，没有任何社团内角色
type ClubFollower struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_follow_club_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_follow_club_user"`
	CreatedAt time.Time
}

func (ClubFollower) TableName() string {
	return "club_followers"
}
