package service

import (
	"testing"
	"time"

	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleEvent(clubID uint64) CreateEventInput {
	start := time.Date(2026, 10, 1, 14, 30, 0, 0, time.UTC)
	return CreateEventInput{
		ClubID:      clubID,
		Title:       "Open Workshop",
		Description: "hands-on session",
		StartsAt:    start,
		EndsAt:      start.Add(2 * time.Hour),
		Location:    "Main Hall",
		Category:    "technology",
	}
}

// newEventFixture 一个社团 + 社长，服务共用同一张权限表
func newEventFixture(t *testing.T) (*gorm.DB, *EventService, *model.User, *model.Club) {
	t.Helper()
	db := newTestDB(t)
	engine := authz.NewEngine(authz.DefaultTable())
	clubSvc := NewClubService(db, engine, &stubMailer{})
	eventSvc := NewEventService(db, engine)

	president := seedUser(t, db, "president")
	club, err := clubSvc.CreateClub(president.ID, CreateClubInput{
		Name: "Makers", Description: "d", Category: "technology",
	})
	require.NoError(t, err)
	return db, eventSvc, president, club
}

func TestCreateEventValidation(t *testing.T) {
	_, svc, president, club := newEventFixture(t)

	cases := []struct {
		field  string
		mutate func(*CreateEventInput)
	}{
		{"title", func(in *CreateEventInput) { in.Title = "" }},
		{"description", func(in *CreateEventInput) { in.Description = "" }},
		{"starts_at", func(in *CreateEventInput) { in.StartsAt = time.Time{} }},
		{"ends_at", func(in *CreateEventInput) { in.EndsAt = time.Time{} }},
		{"location", func(in *CreateEventInput) { in.Location = "" }},
		{"category", func(in *CreateEventInput) { in.Category = "" }},
	}
	for _, tc := range cases {
		in := sampleEvent(club.ID)
		tc.mutate(&in)
		_, err := svc.CreateEvent(president.ID, in)
		var ve *pkg.ValidationError
		require.ErrorAs(t, err, &ve, tc.field)
		assert.Equal(t, tc.field, ve.Field)
	}
}

func TestCreateEventAuthorization(t *testing.T) {
	db, svc, _, club := newEventFixture(t)

	// 非成员拒绝
	outsider := seedUser(t, db, "outsider")
	_, err := svc.CreateEvent(outsider.ID, sampleEvent(club.ID))
	var de *pkg.DeniedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, string(authz.ReasonNotMember), de.Reason)

	// contributor 拥有 createEvents
	contributor := seedUser(t, db, "contributor")
	seedMember(t, db, club.ID, contributor.ID, authz.RoleContributor)
	event, err := svc.CreateEvent(contributor.ID, sampleEvent(club.ID))
	require.NoError(t, err)
	assert.Equal(t, contributor.ID, event.CreatorID)
	assert.Equal(t, club.ID, event.ClubID)

	// 社团不存在
	_, err = svc.CreateEvent(contributor.ID, sampleEvent(99999))
	var nf *pkg.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestEventCreateDeleteRoundTrip(t *testing.T) {
	db, svc, president, club := newEventFixture(t)

	event, err := svc.CreateEvent(president.ID, sampleEvent(club.ID))
	require.NoError(t, err)

	var got model.Club
	require.NoError(t, db.First(&got, club.ID).Error)
	assert.Equal(t, int64(1), got.EventsCount)

	require.NoError(t, svc.Register(president.ID, event.ID))
	require.NoError(t, svc.DeleteEvent(president.ID, event.ID))

	// 活动本体、报名记录、社团侧引用一个不剩
	assert.ErrorIs(t, db.First(&model.Event{}, event.ID).Error, gorm.ErrRecordNotFound)
	var n int64
	db.Model(&model.EventAttendee{}).Where("event_id = ?", event.ID).Count(&n)
	assert.Zero(t, n)
	require.NoError(t, db.First(&got, club.ID).Error)
	assert.Zero(t, got.EventsCount)

	var obs []model.ActivityOutbox
	require.NoError(t, db.Where("event_type IN ?", []string{"event_created", "event_deleted"}).
		Order("id asc").Find(&obs).Error)
	require.Len(t, obs, 2)
	assert.Equal(t, "event_created", obs[0].EventType)
	assert.Equal(t, "event_deleted", obs[1].EventType)
}

func TestUpdateEventOwnershipOverride(t *testing.T) {
	db, svc, _, club := newEventFixture(t)

	creator := seedUser(t, db, "creator")
	seedMember(t, db, club.ID, creator.ID, authz.RoleContributor)
	peer := seedUser(t, db, "peer")
	seedMember(t, db, club.ID, peer.ID, authz.RoleContributor)

	event, err := svc.CreateEvent(creator.ID, sampleEvent(club.ID))
	require.NoError(t, err)

	// 创建者改自己的活动，角色权限不够也放行
	title := "Renamed Workshop"
	_, err = svc.UpdateEvent(creator.ID, event.ID, UpdateEventInput{Title: &title})
	require.NoError(t, err)

	// 同社团同角色的别人不行
	_, err = svc.UpdateEvent(peer.ID, event.ID, UpdateEventInput{Title: &title})
	var de *pkg.DeniedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, string(authz.ReasonInsufficientRole), de.Reason)

	// moderator 凭 editAllEvents 改任何人的
	mod := seedUser(t, db, "mod")
	seedMember(t, db, club.ID, mod.ID, authz.RoleModerator)
	_, err = svc.UpdateEvent(mod.ID, event.ID, UpdateEventInput{Title: &title})
	require.NoError(t, err)

	var got model.Event
	require.NoError(t, db.First(&got, event.ID).Error)
	assert.Equal(t, title, got.Title)
}

func TestDeleteEventOwnershipAndRole(t *testing.T) {
	db, svc, _, club := newEventFixture(t)

	creator := seedUser(t, db, "creator")
	seedMember(t, db, club.ID, creator.ID, authz.RoleContributor)
	event, err := svc.CreateEvent(creator.ID, sampleEvent(club.ID))
	require.NoError(t, err)

	// editor 有 editAllEvents 但没有 deleteAllEvents
	editor := seedUser(t, db, "editor")
	seedMember(t, db, club.ID, editor.ID, authz.RoleEditor)
	err = svc.DeleteEvent(editor.ID, event.ID)
	var de *pkg.DeniedError
	require.ErrorAs(t, err, &de)

	// admin 可以删任何人的活动
	admin := seedUser(t, db, "admin")
	seedMember(t, db, club.ID, admin.ID, authz.RoleAdmin)
	require.NoError(t, svc.DeleteEvent(admin.ID, event.ID))

	// 创建者删自己的
	event2, err := svc.CreateEvent(creator.ID, sampleEvent(club.ID))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEvent(creator.ID, event2.ID))
}

func TestDuplicateRegistration(t *testing.T) {
	db, svc, president, club := newEventFixture(t)

	event, err := svc.CreateEvent(president.ID, sampleEvent(club.ID))
	require.NoError(t, err)

	attendee := seedUser(t, db, "attendee")
	require.NoError(t, svc.Register(attendee.ID, event.ID))

	// 第二次报名是错误，不是幂等成功
	assert.ErrorIs(t, svc.Register(attendee.ID, event.ID), pkg.ErrAlreadyRegistered)

	var n int64
	db.Model(&model.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", event.ID, attendee.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	mine, err := svc.MyEvents(attendee.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.ID, mine[0].ID)
}

func TestRegisterUnknownEvent(t *testing.T) {
	db, svc, _, _ := newEventFixture(t)
	u := seedUser(t, db, "u")

	var nf *pkg.NotFoundError
	assert.ErrorAs(t, svc.Register(u.ID, 424242), &nf)
}
