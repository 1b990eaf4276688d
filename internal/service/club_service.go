package service

import (
	"errors"

	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"
	"github.com/tritonir/nondan-backend/internal/repository/mysql"
	"github.com/tritonir/nondan-backend/internal/repository/redis"

	"gorm.io/gorm"
)

var (
	ErrPresidentProtected = errors.New("club president cannot be removed")
	ErrUnknownRole        = errors.New("unknown club role")
)

// Mailer 发送邀请邮件，生产环境用 pkg.SMTPMailer
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type ClubService struct {
	repo    *mysql.ClubRepository
	members *mysql.MembershipRepository
	users   *mysql.UserRepository
	invites *redis.InviteRepository
	engine  *authz.Engine
	mailer  Mailer
}

func NewClubService(db *gorm.DB, engine *authz.Engine, mailer Mailer) *ClubService {
	return &ClubService{
		repo:    &mysql.ClubRepository{DB: db},
		members: &mysql.MembershipRepository{DB: db},
		users:   &mysql.UserRepository{DB: db},
		invites: &redis.InviteRepository{},
		engine:  engine,
		mailer:  mailer,
	}
}

type CreateClubInput struct {
	Name         string
	Description  string
	Category     string
	Logo         string
	Banner       string
	Website      string
	ContactEmail string
}

func (s *ClubService) CreateClub(founderID uint64, in CreateClubInput) (*model.Club, error) {
	if in.Name == "" {
		return nil, pkg.Invalid("name")
	}
	if in.Description == "" {
		return nil, pkg.Invalid("description")
	}
	if in.Category == "" {
		return nil, pkg.Invalid("category")
	}

	founder, err := s.users.FindByID(founderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("user", founderID)
		}
		return nil, err
	}

	club := &model.Club{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Logo:         in.Logo,
		Banner:       in.Banner,
		Website:      in.Website,
		ContactEmail: in.ContactEmail,
		PresidentID:  founder.ID,
	}

	if err := s.repo.CreateWithFounder(club, founder); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *ClubService) GetClub(id uint64) (*model.Club, []model.ClubMembership, []model.ClubFollower, error) {
	club, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, pkg.NotFound("club", id)
		}
		return nil, nil, nil, err
	}
	members, err := s.members.ListByClub(id)
	if err != nil {
		return nil, nil, nil, err
	}
	followers, err := s.repo.ListFollowers(id)
	if err != nil {
		return nil, nil, nil, err
	}
	return club, members, followers, nil
}

func (s *ClubService) ListClubs(page, size int) ([]model.Club, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.List((page-1)*size, size)
}

type UpdateClubInput struct {
	Description  *string
	Category     *string
	Logo         *string
	Banner       *string
	Website      *string
	ContactEmail *string
}

func (s *ClubService) UpdateClub(actorID, clubID uint64, in UpdateClubInput) (*model.Club, error) {
	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return nil, err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionUpdateClub); !d.Allowed {
		return nil, pkg.Denied(string(d.Reason))
	}

	patch := map[string]any{}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	if in.Logo != nil {
		patch["logo"] = *in.Logo
	}
	if in.Banner != nil {
		patch["banner"] = *in.Banner
	}
	if in.Website != nil {
		patch["website"] = *in.Website
	}
	if in.ContactEmail != nil {
		patch["contact_email"] = *in.ContactEmail
	}
	if len(patch) == 0 {
		return club, nil
	}

	if err := s.repo.Update(club, patch); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *ClubService) DeleteClub(actorID, clubID uint64) error {
	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionDeleteClub); !d.Allowed {
		return pkg.Denied(string(d.Reason))
	}

	return s.repo.DeleteCascade(clubID, actorID)
}

func (s *ClubService) FollowClub(userID, clubID uint64) error {
	if _, err := s.repo.FindByID(clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("club", clubID)
		}
		return err
	}
	return s.repo.Follow(clubID, userID)
}

func (s *ClubService) UnfollowClub(userID, clubID uint64) error {
	return s.repo.Unfollow(clubID, userID)
}

// LeaveClub 社长必须始终在成员表里，不能退出自己的社团
func (s *ClubService) LeaveClub(userID, clubID uint64) error {
	club, err := s.repo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("club", clubID)
		}
		return err
	}
	if club.PresidentID == userID {
		return ErrPresidentProtected
	}
	return s.members.Remove(clubID, userID, userID)
}

// InviteMember 生成一次性邀请码写入 redis，并通过邮件送达
func (s *ClubService) InviteMember(actorID, clubID uint64, email, role string) (string, error) {
	if email == "" {
		return "", pkg.Invalid("email")
	}
	if !authz.ValidRole(role) {
		return "", ErrUnknownRole
	}

	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return "", err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionInviteMembers); !d.Allowed {
		return "", pkg.Denied(string(d.Reason))
	}

	code, err := pkg.InviteCode()
	if err != nil {
		return "", err
	}
	if err := s.invites.Put(code, &redis.Invite{ClubID: clubID, Role: role, Email: email}); err != nil {
		return "", err
	}

	html := pkg.InviteHTML(club.Name, role, code, redis.InviteTTL)
	if err := s.mailer.Send(email, "社团邀请", html); err != nil {
		// 邮件没发出去，邀请码作废
		_ = s.invites.Delete(code)
		return "", err
	}
	return code, nil
}

// AcceptInvite 消费邀请码并入团。成员身份和平台角色升级在 Join 的
// 事务里一起提交，码已销毁的情况下不允许留下半截状态
func (s *ClubService) AcceptInvite(userID uint64, code string) error {
	inv, err := s.invites.Consume(code)
	if err != nil {
		return err
	}

	if _, err := s.repo.FindByID(inv.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("club", inv.ClubID)
		}
		return err
	}

	return s.members.Join(&model.ClubMembership{
		ClubID: inv.ClubID,
		UserID: userID,
		Role:   inv.Role,
	})
}

func (s *ClubService) RemoveMember(actorID, clubID, targetID uint64) error {
	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionRemoveMembers); !d.Allowed {
		return pkg.Denied(string(d.Reason))
	}
	if club.PresidentID == targetID {
		return ErrPresidentProtected
	}

	return s.members.Remove(clubID, targetID, actorID)
}

func (s *ClubService) ChangeRole(actorID, clubID, targetID uint64, role string) error {
	if !authz.ValidRole(role) {
		return ErrUnknownRole
	}

	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionManageRoles); !d.Allowed {
		return pkg.Denied(string(d.Reason))
	}
	// 社长的 admin 身份不可被降级
	if club.PresidentID == targetID {
		return ErrPresidentProtected
	}

	if _, err := s.members.Find(clubID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("membership", targetID)
		}
		return err
	}
	return s.members.UpdateRole(clubID, targetID, role)
}

// ClubAnalytics 社团运营数据快照
type ClubAnalytics struct {
	MembersCount   int64 `json:"members_count"`
	EventsCount    int64 `json:"events_count"`
	FollowersCount int64 `json:"followers_count"`
	AttendeesTotal int64 `json:"attendees_total"`
}

func (s *ClubService) Analytics(actorID, clubID uint64) (*ClubAnalytics, error) {
	club, actor, err := s.loadClubAndActor(clubID, actorID)
	if err != nil {
		return nil, err
	}

	if d := s.engine.AuthorizeClub(actor, club, authz.ActionViewAnalytics); !d.Allowed {
		return nil, pkg.Denied(string(d.Reason))
	}

	followers, err := s.repo.CountFollowers(clubID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.repo.CountAttendees(clubID)
	if err != nil {
		return nil, err
	}

	return &ClubAnalytics{
		MembersCount:   club.MembersCount,
		EventsCount:    club.EventsCount,
		FollowersCount: followers,
		AttendeesTotal: attendees,
	}, nil
}

// loadClubAndActor 目标社团 + 调用者（带最新成员身份）一起取出来
func (s *ClubService) loadClubAndActor(clubID, actorID uint64) (*model.Club, *model.User, error) {
	club, err := s.repo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkg.NotFound("club", clubID)
		}
		return nil, nil, err
	}
	actor, err := s.users.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkg.NotFound("user", actorID)
		}
		return nil, nil, err
	}
	return club, actor, nil
}
