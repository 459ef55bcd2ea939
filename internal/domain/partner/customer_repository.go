package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
