// Package notification holds the in-app notification ledger for staff
// users. A notification either belongs to a single user or, when it has
// no owner, is a broadcast visible to every staff member.
package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// Kind classifies what happened
type Kind string

const (
	KindNewQuote       Kind = "NEW_QUOTE"
	KindNewContact     Kind = "NEW_CONTACT"
	KindNewAppointment Kind = "NEW_APPOINTMENT"
	KindQuoteUpdated   Kind = "QUOTE_UPDATED"
	KindSystem         Kind = "SYSTEM"
)

// Notification is a single ledger entry. OwnerID nil means broadcast:
// every staff member sees it, nobody can mark it read or delete it.
type Notification struct {
	shared.BaseEntity
	OwnerID   *uuid.UUID `gorm:"type:uuid;index"`
	Kind      Kind       `gorm:"type:varchar(30);not null"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Message   string     `gorm:"type:text;not null"`
	RelatedID *uuid.UUID `gorm:"type:uuid"`
	Read      bool       `gorm:"not null;default:false;index"`
	ReadAt    *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a notification addressed to one user
func NewNotification(ownerID uuid.UUID, kind Kind, title, message string, relatedID *uuid.UUID) (*Notification, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner is required")
	}
	n, err := newNotification(kind, title, message, relatedID)
	if err != nil {
		return nil, err
	}
	owner := ownerID
	n.OwnerID = &owner
	return n, nil
}

// NewBroadcast creates an ownerless notification visible to all staff
func NewBroadcast(kind Kind, title, message string, relatedID *uuid.UUID) (*Notification, error) {
	return newNotification(kind, title, message, relatedID)
}

func newNotification(kind Kind, title, message string, relatedID *uuid.UUID) (*Notification, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		Title:      title,
		Message:    message,
		RelatedID:  relatedID,
	}, nil
}

// IsBroadcast returns true if the notification has no owner
func (n *Notification) IsBroadcast() bool {
	return n.OwnerID == nil
}

// VisibleTo returns true if the given user may see this notification
func (n *Notification) VisibleTo(userID uuid.UUID) bool {
	return n.OwnerID == nil || *n.OwnerID == userID
}

// MarkRead marks the notification as read. Calling it again is a no-op;
// ReadAt keeps the time of the first call.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
	n.Touch()
}

func validateKind(kind Kind) error {
	switch kind {
	case KindNewQuote, KindNewContact, KindNewAppointment, KindQuoteUpdated, KindSystem:
		return nil
	default:
		return shared.NewDomainError("INVALID_KIND", "Invalid notification kind")
	}
}
