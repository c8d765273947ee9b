package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Object-Tracker/geofence-service/module/core/domain"
	"github.com/Object-Tracker/geofence-service/module/core/internal/repository/database"
)

type notificationService interface {
	ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	ListUnreadForUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	GetObject(ctx context.Context, id int64) (*domain.TrackedObject, error)
}

type notificationResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	ObjectID   int64  `json:"object_id"`
	ObjectName string `json:"object_name"`
	ObjectType string `json:"object_type"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Read       bool   `json:"read"`
	CreatedAt  int64  `json:"created_at"`
}

type NotificationHandler struct {
	svc notificationService
}

func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Register(r *gin.RouterGroup) {
	r.GET("/users/:user_id/notifications", h.ListNotifications)
	r.GET("/users/:user_id/notifications/unread", h.ListUnreadNotifications)
	r.POST("/notifications/:id/read", h.MarkRead)
	r.GET("/objects/:object_id", h.GetObject)
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	h.list(c, h.svc.ListForUser)
}

func (h *NotificationHandler) ListUnreadNotifications(c *gin.Context) {
	h.list(c, h.svc.ListUnreadForUser)
}

func (h *NotificationHandler) list(c *gin.Context, fetch func(ctx context.Context, userID int64) ([]domain.Notification, error)) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	notifications, err := fetch(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	results := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		results[i] = toNotificationResponse(&n)
	}
	c.JSON(http.StatusOK, results)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) GetObject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("object_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object_id"})
		return
	}

	obj, err := h.svc.GetObject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch object"})
		return
	}

	c.JSON(http.StatusOK, obj)
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		ObjectID:   n.ObjectID,
		ObjectName: n.ObjectName,
		ObjectType: n.ObjectType,
		Message:    n.Message,
		Type:       string(n.Type),
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.Unix(),
	}
}
