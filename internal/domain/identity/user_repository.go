package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// UserRepository defines the persistence interface for staff users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
