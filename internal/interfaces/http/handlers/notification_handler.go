package handlers

import (
	"context"
	"net/http"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationService is the inbox API the notification handler depends on
type NotificationService interface {
	List(ctx context.Context, p entities.Principal, unreadOnly bool, limit int) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, p entities.Principal, id uuid.UUID) error
	MarkAllRead(ctx context.Context, p entities.Principal) (int64, error)
}

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the caller's notifications
// GET /api/v1/notifications?unread=true&limit=20
func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	limit, _ := page(c)

	notes, err := h.notificationService.List(c.Request.Context(), p, c.Query("unread") == "true", limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, notes, len(notes))
}

// MarkRead marks one notification read
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), p, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every unread notification read
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkAllRead(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}
