package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// QuoteFilter narrows quote listings
type QuoteFilter struct {
	shared.Filter
	Status     QuoteStatus
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
}

// StatusCount is a quote count for one status value
type StatusCount struct {
	Status QuoteStatus `json:"status"`
	Count  int64       `json:"count"`
}

// DayCount is a quote count for one calendar day
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD in server-local time
	Count int64  `json:"count"`
}

// QuoteRepository defines the persistence interface for quotes
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindAll(ctx context.Context, filter QuoteFilter) ([]Quote, int64, error)
	Save(ctx context.Context, quote *Quote) error
	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, statuses ...QuoteStatus) (int64, error)
	// GroupByStatus returns one row per status value present; statuses
	// with zero quotes are not returned.
	GroupByStatus(ctx context.Context) ([]StatusCount, error)
	// GroupByDay returns one row per server-local calendar day with at
	// least one quote created at or after since, ordered by date ascending.
	GroupByDay(ctx context.Context, since time.Time) ([]DayCount, error)
}
