package handler

import (
	"net/http"
	"strconv"

	"github.com/tritonir/nondan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	svc *service.ClubService
}

func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

type ClubCreateReq struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Logo         string `json:"logo"`
	Banner       string `json:"banner"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
}

type ClubUpdateReq struct {
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Logo         *string `json:"logo"`
	Banner       *string `json:"banner"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
}

type InviteReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *ClubHandler) Create(c *gin.Context) {
	var req ClubCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	club, err := h.svc.CreateClub(currentUserID(c), service.CreateClubInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Logo:         req.Logo,
		Banner:       req.Banner,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "club created", "club": club})
}

func (h *ClubHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListClubs(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ClubHandler) Get(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	club, members, followers, err := h.svc.GetClub(clubID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"club":      club,
		"members":   members,
		"followers": followers,
	})
}

func (h *ClubHandler) Update(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ClubUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	club, err := h.svc.UpdateClub(currentUserID(c), clubID, service.UpdateClubInput{
		Description:  req.Description,
		Category:     req.Category,
		Logo:         req.Logo,
		Banner:       req.Banner,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "club updated", "club": club})
}

func (h *ClubHandler) Delete(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteClub(currentUserID(c), clubID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "club deleted"})
}

func (h *ClubHandler) Follow(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.FollowClub(currentUserID(c), clubID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ClubHandler) Unfollow(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.UnfollowClub(currentUserID(c), clubID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ClubHandler) Leave(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.LeaveClub(currentUserID(c), clubID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ClubHandler) Invite(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	code, err := h.svc.InviteMember(currentUserID(c), clubID, req.Email, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "invite sent", "code": code})
}

func (h *ClubHandler) AcceptInvite(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.AcceptInvite(currentUserID(c), req.Code); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "joined"})
}

// Analytics 社团运营数据，需要 viewAnalytics 权限
func (h *ClubHandler) Analytics(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.svc.Analytics(currentUserID(c), clubID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": stats})
}

func (h *ClubHandler) RemoveMember(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseID(c, "uid")
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(currentUserID(c), clubID, targetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "member removed"})
}

func (h *ClubHandler) ChangeRole(c *gin.Context) {
	clubID, ok := parseID(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseID(c, "uid")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangeRole(currentUserID(c), clubID, targetID, req.Role); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "role updated"})
}

// parseID 路由参数统一走 ParseUint 归一化成 uint64
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return id, true
}
