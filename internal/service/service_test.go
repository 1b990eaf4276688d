package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/model"
	rds "github.com/tritonir/nondan-backend/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Club{},
		&model.ClubMembership{},
		&model.ClubFollower{},
		&model.Event{},
		&model.EventAttendee{},
		&model.ActivityOutbox{},
	))
	return db
}

func newTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}

func seedUser(t *testing.T, db *gorm.DB, fullname string) *model.User {
	t.Helper()
	u := &model.User{
		Fullname: fullname,
		Email:    fullname + "@campus.test",
		Password: "x",
		Role:     model.PlatformRoleStudent,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// seedMember 直接落一条成员身份并同步平台角色
func seedMember(t *testing.T, db *gorm.DB, clubID, userID uint64, role authz.ClubRole) {
	t.Helper()
	require.NoError(t, db.Create(&model.ClubMembership{
		ClubID: clubID,
		UserID: userID,
		Role:   string(role),
	}).Error)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", model.PlatformRoleClubMember).Error)
}

type stubMailer struct {
	sent []string
	fail bool
}

func (m *stubMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return fmt.Errorf("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}
