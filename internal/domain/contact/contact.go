// Package contact holds the contact message aggregate for the public
// site's contact form.
package contact

import (
	"regexp"
	"strings"
	"time"

	"github.com/pulsetronic/backend/internal/domain/shared"
)

// Status represents the handling state of a contact message
type Status string

const (
	StatusNew     Status = "NEW"
	StatusRead    Status = "READ"
	StatusReplied Status = "REPLIED"
	StatusClosed  Status = "CLOSED"
)

// Contact represents a message sent through the public contact form
type Contact struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(200);not null"`
	Email       string `gorm:"type:varchar(200);not null"`
	Phone       string `gorm:"type:varchar(50)"`
	Subject     string `gorm:"type:varchar(200)"`
	Message     string `gorm:"type:text;not null"`
	Status      Status `gorm:"type:varchar(20);not null;default:'NEW';index"`
	ReplyText   string `gorm:"type:text"`
	RespondedAt *time.Time
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a new contact message in the NEW status
func NewContact(name, email, phone, subject, message string) (*Contact, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateContactEmail(email); err != nil {
		return nil, err
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}

	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Subject:    subject,
		Message:    message,
		Status:     StatusNew,
	}, nil
}

// MarkRead moves a NEW message to READ. Messages already past NEW are
// left untouched.
func (c *Contact) MarkRead() {
	if c.Status != StatusNew {
		return
	}
	c.Status = StatusRead
	c.Touch()
}

// Reply records the staff reply and moves the message to REPLIED
func (c *Contact) Reply(reply string) error {
	if reply == "" {
		return shared.NewDomainError("INVALID_REPLY", "Reply cannot be empty")
	}
	if c.Status == StatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Cannot reply to a closed message")
	}

	c.ReplyText = reply
	c.Status = StatusReplied
	now := time.Now()
	c.RespondedAt = &now
	c.Touch()
	return nil
}

// Close archives the message
func (c *Contact) Close() error {
	if c.Status == StatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Message is already closed")
	}
	c.Status = StatusClosed
	c.Touch()
	return nil
}

var contactEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateContactEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !contactEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
