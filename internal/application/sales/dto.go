package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulsetronic/backend/internal/domain/partner"
	"github.com/pulsetronic/backend/internal/domain/sales"
)

// SubmitQuoteRequest is the public quote form payload
type SubmitQuoteRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	Email     string     `json:"email" binding:"required,email"`
	Phone     string     `json:"phone" binding:"required,max=20"`
	Vehicle   string     `json:"vehicle" binding:"max=200"`
	ServiceID *uuid.UUID `json:"serviceId"`
	Equipment string     `json:"equipment" binding:"max=500"`
	Message   string     `json:"message" binding:"max=5000"`
}

// UpdateQuoteRequest is the admin payload for working a quote.
// Only the fields present in the request are applied.
type UpdateQuoteRequest struct {
	Status         *string          `json:"status" binding:"omitempty,oneof=NEW ANALYZING QUOTE_SENT APPROVED REJECTED COMPLETED"`
	EstimatedValue *decimal.Decimal `json:"estimatedValue"`
	Notes          *string          `json:"notes"`
	AssignedToID   *uuid.UUID       `json:"assignedToId"`
}

// ListQuotesRequest narrows the admin quote listing
type ListQuotesRequest struct {
	Page       int       `form:"page"`
	PageSize   int       `form:"pageSize"`
	Status     string    `form:"status" binding:"omitempty,oneof=NEW ANALYZING QUOTE_SENT APPROVED REJECTED COMPLETED"`
	CustomerID uuid.UUID `form:"customerId"`
	Search     string    `form:"search"`
}

// CustomerSummary is the customer data embedded in quote responses
type CustomerSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Vehicle string    `json:"vehicle,omitempty"`
}

// QuoteResponse is the wire representation of a quote
type QuoteResponse struct {
	ID             uuid.UUID        `json:"id"`
	CustomerID     uuid.UUID        `json:"customerId"`
	Customer       *CustomerSummary `json:"customer,omitempty"`
	ServiceID      *uuid.UUID       `json:"serviceId,omitempty"`
	Equipment      string           `json:"equipment,omitempty"`
	Vehicle        string           `json:"vehicle,omitempty"`
	Message        string           `json:"message,omitempty"`
	Status         string           `json:"status"`
	EstimatedValue *decimal.Decimal `json:"estimatedValue,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	AssignedToID   *uuid.UUID       `json:"assignedToId,omitempty"`
	RespondedAt    *time.Time       `json:"respondedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ListQuotesResponse is a paginated quote listing
type ListQuotesResponse struct {
	Items    []QuoteResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

func toQuoteResponse(q *sales.Quote) QuoteResponse {
	return QuoteResponse{
		ID:             q.ID,
		CustomerID:     q.CustomerID,
		ServiceID:      q.ServiceID,
		Equipment:      q.Equipment,
		Vehicle:        q.Vehicle,
		Message:        q.Message,
		Status:         string(q.Status),
		EstimatedValue: q.EstimatedValue,
		Notes:          q.Notes,
		AssignedToID:   q.AssignedToID,
		RespondedAt:    q.RespondedAt,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func toCustomerSummary(c *partner.Customer) *CustomerSummary {
	return &CustomerSummary{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Vehicle: c.Vehicle,
	}
}
