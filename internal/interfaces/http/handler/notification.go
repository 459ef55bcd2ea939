package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	notificationapp "github.com/pulsetronic/backend/internal/application/notification"
	"github.com/pulsetronic/backend/internal/interfaces/http/dto"
)

// NotificationHandler handles the staff notification ledger endpoints
type NotificationHandler struct {
	BaseHandler
	notifications *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns a page of notifications visible to the authenticated
// user: rows they own plus broadcasts. The response always carries the
// unread count, whatever the onlyUnread filter says.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req notificationapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.notifications.List(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UnreadCount returns the number of unread notifications visible to the user
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unreadCount": count})
}

// MarkRead marks an owned notification as read. Broadcasts and other
// users' notifications come back as not found.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks every unread owned notification as read and
// reports how many rows were touched
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an owned notification
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Broadcast creates an ownerless notification visible to all staff
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req notificationapp.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.notifications.Broadcast(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

func (h *NotificationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return uuid.Nil, false
	}
	return id, true
}
