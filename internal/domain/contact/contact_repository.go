package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// Filter narrows contact message listings
type Filter struct {
	shared.Filter
	Status Status
}

// Repository defines the persistence interface for contact messages
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, filter Filter) ([]Contact, int64, error)
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
