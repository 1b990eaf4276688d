package service

import (
	"errors"
	"time"

	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"
	"github.com/tritonir/nondan-backend/internal/repository/mysql"

	"gorm.io/gorm"
)

type EventService struct {
	repo   *mysql.EventRepository
	clubs  *mysql.ClubRepository
	users  *mysql.UserRepository
	engine *authz.Engine
}

func NewEventService(db *gorm.DB, engine *authz.Engine) *EventService {
	return &EventService{
		repo:   &mysql.EventRepository{DB: db},
		clubs:  &mysql.ClubRepository{DB: db},
		users:  &mysql.UserRepository{DB: db},
		engine: engine,
	}
}

type CreateEventInput struct {
	ClubID          uint64
	Title           string
	Description     string
	StartsAt        time.Time
	EndsAt          time.Time
	Location        string
	Category        string
	ImageURL        string
	PaymentRequired bool
}

func (s *EventService) CreateEvent(userID uint64, in CreateEventInput) (*model.Event, error) {
	if in.Title == "" {
		return nil, pkg.Invalid("title")
	}
	if in.Description == "" {
		return nil, pkg.Invalid("description")
	}
	if in.StartsAt.IsZero() {
		return nil, pkg.Invalid("starts_at")
	}
	if in.EndsAt.IsZero() {
		return nil, pkg.Invalid("ends_at")
	}
	if in.Location == "" {
		return nil, pkg.Invalid("location")
	}
	if in.Category == "" {
		return nil, pkg.Invalid("category")
	}

	club, err := s.clubs.FindByID(in.ClubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("club", in.ClubID)
		}
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("user", userID)
		}
		return nil, err
	}

	if d := s.engine.AuthorizeClub(user, club, authz.ActionCreateEvent); !d.Allowed {
		return nil, pkg.Denied(string(d.Reason))
	}

	event := &model.Event{
		ClubID:          club.ID,
		CreatorID:       user.ID,
		Title:           in.Title,
		Description:     in.Description,
		StartsAt:        in.StartsAt,
		EndsAt:          in.EndsAt,
		Location:        in.Location,
		Category:        in.Category,
		ImageURL:        in.ImageURL,
		Status:          model.EventStatusUpcoming,
		PaymentRequired: in.PaymentRequired,
	}

	if err := s.repo.CreateLinked(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEvent(id uint64) (*model.Event, []model.EventAttendee, error) {
	event, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkg.NotFound("event", id)
		}
		return nil, nil, err
	}
	attendees, err := s.repo.ListAttendees(id)
	if err != nil {
		return nil, nil, err
	}
	return event, attendees, nil
}

func (s *EventService) ListEvents(page, size int) ([]model.Event, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.List((page-1)*size, size)
}

func (s *EventService) ListByClub(clubID uint64, page, size int) ([]model.Event, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListByClub(clubID, (page-1)*size, size)
}

type UpdateEventInput struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Location    *string
	Category    *string
	ImageURL    *string
	Status      *string
}

// UpdateEvent 创建者可以改自己的活动，其他人要有 editAllEvents。
// club_id 不在可改字段里，活动创建后归属不可变更
func (s *EventService) UpdateEvent(userID, eventID uint64, in UpdateEventInput) (*model.Event, error) {
	event, user, err := s.loadEventAndActor(eventID, userID)
	if err != nil {
		return nil, err
	}

	if d := s.engine.AuthorizeEvent(user, event, authz.ActionEditEvent); !d.Allowed {
		return nil, pkg.Denied(string(d.Reason))
	}

	patch := map[string]any{}
	if in.Title != nil {
		patch["title"] = *in.Title
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.StartsAt != nil {
		patch["starts_at"] = *in.StartsAt
	}
	if in.EndsAt != nil {
		patch["ends_at"] = *in.EndsAt
	}
	if in.Location != nil {
		patch["location"] = *in.Location
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	if in.ImageURL != nil {
		patch["image_url"] = *in.ImageURL
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if len(patch) == 0 {
		return event, nil
	}

	if err := s.repo.Update(event, patch); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(userID, eventID uint64) error {
	event, user, err := s.loadEventAndActor(eventID, userID)
	if err != nil {
		return err
	}

	if d := s.engine.AuthorizeEvent(user, event, authz.ActionDeleteEvent); !d.Allowed {
		return pkg.Denied(string(d.Reason))
	}

	return s.repo.DeleteLinked(event, userID)
}

// Register 重复报名是错误而不是幂等成功
func (s *EventService) Register(userID, eventID uint64) error {
	if _, err := s.repo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("event", eventID)
		}
		return err
	}
	return s.repo.Register(eventID, userID)
}

func (s *EventService) MyEvents(userID uint64) ([]model.Event, error) {
	return s.repo.ListRegistered(userID)
}

func (s *EventService) loadEventAndActor(eventID, userID uint64) (*model.Event, *model.User, error) {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkg.NotFound("event", eventID)
		}
		return nil, nil, err
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkg.NotFound("user", userID)
		}
		return nil, nil, err
	}
	return event, user, nil
}
