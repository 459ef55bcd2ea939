package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/notification"
)

// RecordRequest creates a notification addressed to one user
type RecordRequest struct {
	OwnerID   uuid.UUID  `json:"ownerId" binding:"required"`
	Kind      string     `json:"kind" binding:"required,oneof=NEW_QUOTE NEW_CONTACT NEW_APPOINTMENT QUOTE_UPDATED SYSTEM"`
	Title     string     `json:"title" binding:"required,max=200"`
	Message   string     `json:"message" binding:"required"`
	RelatedID *uuid.UUID `json:"relatedId"`
}

// BroadcastRequest creates an ownerless notification visible to all staff
type BroadcastRequest struct {
	Kind      string     `json:"kind" binding:"required,oneof=NEW_QUOTE NEW_CONTACT NEW_APPOINTMENT QUOTE_UPDATED SYSTEM"`
	Title     string     `json:"title" binding:"required,max=200"`
	Message   string     `json:"message" binding:"required"`
	RelatedID *uuid.UUID `json:"relatedId"`
}

// ListRequest narrows a notification listing
type ListRequest struct {
	Offset     int  `form:"offset" binding:"min=0"`
	Limit      int  `form:"limit" binding:"min=0,max=100"`
	OnlyUnread bool `form:"onlyUnread"`
}

// Response represents a notification in API responses
type Response struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   *uuid.UUID `json:"ownerId"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	RelatedID *uuid.UUID `json:"relatedId"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ListResponse is a page of notifications. UnreadCount always counts
// every unread visible row, whatever the listing filter says.
type ListResponse struct {
	Items       []Response `json:"items"`
	Total       int64      `json:"total"`
	UnreadCount int64      `json:"unreadCount"`
	Offset      int        `json:"offset"`
	Limit       int        `json:"limit"`
}

// MarkAllReadResponse reports how many rows a MarkAllRead touched
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func toResponse(n *notification.Notification) Response {
	return Response{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
