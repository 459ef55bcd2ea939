package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulsetronic/backend/internal/domain/contact"
)

// SubmitContactRequest is the public contact form payload
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ReplyRequest carries a staff reply to a contact message
type ReplyRequest struct {
	Reply string `json:"reply" binding:"required,max=5000"`
}

// ListContactsRequest narrows the admin contact listing
type ListContactsRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Status   string `form:"status" binding:"omitempty,oneof=NEW READ REPLIED CLOSED"`
	Search   string `form:"search"`
}

// ContactResponse is the wire representation of a contact message
type ContactResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Reply       string     `json:"reply,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListContactsResponse is a paginated contact listing
type ListContactsResponse struct {
	Items    []ContactResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

func toContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Subject:     c.Subject,
		Message:     c.Message,
		Status:      string(c.Status),
		Reply:       c.ReplyText,
		RespondedAt: c.RespondedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
