package model

import "time"

// 平台级角色：student 表示还没有加入任何社团
const (
	PlatformRoleStudent    = "student"
	PlatformRoleClubMember = "club_member"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Fullname  string `gorm:"size:64;not null"`
	Email     string `gorm:"uniqueIndex;size:64;not null"`
	Password  string `gorm:"size:255;not null"`
	Avatar    string `gorm:"size:255"`
	Role      string `gorm:"size:16;not null;default:student"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// 鉴权时需要 Preload，保证每次请求读到最新的成员身份
	Memberships []ClubMembership `gorm:"foreignKey:UserID"`
}

// ClubMembership 用户在某个社团内的角色，同一社团最多一条
type ClubMembership struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	Role      string `gorm:"size:16;not null"` // admin / moderator / editor / contributor
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClubMembership) TableName() string {
	return "club_memberships"
}
