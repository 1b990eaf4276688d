package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tritonir/nondan-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type EventCreateReq struct {
	ClubID          uint64    `json:"club_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	ImageURL        string    `json:"image_url"`
	PaymentRequired bool      `json:"payment_required"`
}

type EventUpdateReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category"`
	ImageURL    *string    `json:"image_url"`
	Status      *string    `json:"status"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	event, err := h.svc.CreateEvent(currentUserID(c), service.CreateEventInput{
		ClubID:          req.ClubID,
		Title:           req.Title,
		Description:     req.Description,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Location:        req.Location,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		PaymentRequired: req.PaymentRequired,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "event created", "event": event})
}

func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	// club_id 可选过滤
	if clubStr := c.Query("club_id"); clubStr != "" {
		clubID, err := strconv.ParseUint(clubStr, 10, 64)
		if err != nil || clubID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid club_id"})
			return
		}
		list, err := h.svc.ListByClub(clubID, page, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"list": list})
		return
	}

	list, err := h.svc.ListEvents(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	event, attendees, err := h.svc.GetEvent(eventID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "attendees": attendees})
}

func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req EventUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	event, err := h.svc.UpdateEvent(currentUserID(c), eventID, service.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "event updated", "event": event})
}

func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(currentUserID(c), eventID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "event deleted"})
}

// Register 报名，重复报名返回 409
func (h *EventHandler) Register(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Register(currentUserID(c), eventID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "registered"})
}

// MyEvents 当前用户报名过的活动
func (h *EventHandler) MyEvents(c *gin.Context) {
	list, err := h.svc.MyEvents(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}
