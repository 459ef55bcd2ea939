package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// ServiceFilter narrows service listings
type ServiceFilter struct {
	shared.Filter
	Category   ServiceCategory
	OnlyActive bool
}

// ServiceRepository defines the persistence interface for services
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
	FindBySlug(ctx context.Context, slug string) (*Service, error)
	FindAll(ctx context.Context, filter ServiceFilter) ([]Service, int64, error)
	Save(ctx context.Context, service *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// FAQRepository defines the persistence interface for FAQs
type FAQRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FAQ, error)
	FindAll(ctx context.Context, onlyActive bool) ([]FAQ, error)
	Save(ctx context.Context, faq *FAQ) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TestimonialFilter narrows testimonial listings
type TestimonialFilter struct {
	shared.Filter
	OnlyApproved bool
	OnlyFeatured bool
}

// TestimonialRepository defines the persistence interface for testimonials
type TestimonialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	FindAll(ctx context.Context, filter TestimonialFilter) ([]Testimonial, int64, error)
	Save(ctx context.Context, testimonial *Testimonial) error
	Delete(ctx context.Context, id uuid.UUID) error
}
