// Package sales holds the quote aggregate. Quotes come in through the
// public website and are worked by staff through a fixed status flow.
package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote request
type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "NEW"
	QuoteStatusAnalyzing QuoteStatus = "ANALYZING"
	QuoteStatusQuoteSent QuoteStatus = "QUOTE_SENT"
	QuoteStatusApproved  QuoteStatus = "APPROVED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusCompleted QuoteStatus = "COMPLETED"
)

// quoteTransitions maps each status to the statuses it may move to
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusNew:       {QuoteStatusAnalyzing, QuoteStatusRejected},
	QuoteStatusAnalyzing: {QuoteStatusQuoteSent, QuoteStatusRejected},
	QuoteStatusQuoteSent: {QuoteStatusApproved, QuoteStatusRejected},
	QuoteStatusApproved:  {QuoteStatusCompleted},
	QuoteStatusRejected:  {},
	QuoteStatusCompleted: {},
}

// Quote represents a service quote request
type Quote struct {
	shared.BaseEntity
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ServiceID      *uuid.UUID       `gorm:"type:uuid;index"`
	Equipment      string           `gorm:"type:varchar(500)"`
	Vehicle        string           `gorm:"type:varchar(200)"`
	Message        string           `gorm:"type:text"`
	Status         QuoteStatus      `gorm:"type:varchar(20);not null;default:'NEW';index"`
	EstimatedValue *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Notes          string           `gorm:"type:text"`
	AssignedToID   *uuid.UUID       `gorm:"type:uuid"`
	RespondedAt    *time.Time
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new quote request in the NEW status
func NewQuote(customerID uuid.UUID, serviceID *uuid.UUID, equipment, vehicle, message string) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(equipment) > 500 {
		return nil, shared.NewDomainError("INVALID_EQUIPMENT", "Equipment cannot exceed 500 characters")
	}

	return &Quote{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		ServiceID:  serviceID,
		Equipment:  equipment,
		Vehicle:    vehicle,
		Message:    message,
		Status:     QuoteStatusNew,
	}, nil
}

// ChangeStatus moves the quote to a new status, enforcing the flow
// NEW -> ANALYZING -> QUOTE_SENT -> APPROVED | REJECTED -> COMPLETED.
// The first status change stamps RespondedAt; later changes refresh it.
func (q *Quote) ChangeStatus(status QuoteStatus) error {
	if err := validateQuoteStatus(status); err != nil {
		return err
	}
	if status == q.Status {
		return nil
	}
	allowed := quoteTransitions[q.Status]
	ok := false
	for _, s := range allowed {
		if s == status {
			ok = true
			break
		}
	}
	if !ok {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Cannot move quote from "+string(q.Status)+" to "+string(status))
	}

	q.Status = status
	now := time.Now()
	q.RespondedAt = &now
	q.Touch()
	return nil
}

// SetEstimatedValue records the quoted price
func (q *Quote) SetEstimatedValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Estimated value cannot be negative")
	}
	q.EstimatedValue = &value
	q.Touch()
	return nil
}

// SetNotes sets internal notes about the quote
func (q *Quote) SetNotes(notes string) {
	q.Notes = notes
	q.Touch()
}

// AssignTo assigns the quote to a staff member
func (q *Quote) AssignTo(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	q.AssignedToID = &userID
	q.Touch()
	return nil
}

// IsOpen returns true while the quote is still being worked
func (q *Quote) IsOpen() bool {
	return q.Status == QuoteStatusNew || q.Status == QuoteStatusAnalyzing || q.Status == QuoteStatusQuoteSent
}

// IsPending returns true if the quote has not been quoted yet
func (q *Quote) IsPending() bool {
	return q.Status == QuoteStatusNew || q.Status == QuoteStatusAnalyzing
}

func validateQuoteStatus(status QuoteStatus) error {
	switch status {
	case QuoteStatusNew, QuoteStatusAnalyzing, QuoteStatusQuoteSent,
		QuoteStatusApproved, QuoteStatusRejected, QuoteStatusCompleted:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid quote status")
	}
}
