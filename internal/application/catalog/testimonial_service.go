package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// TestimonialService manages customer testimonials
type TestimonialService struct {
	repo   catalog.TestimonialRepository
	logger *zap.Logger
}

// NewTestimonialService creates a new testimonial service
func NewTestimonialService(repo catalog.TestimonialRepository, logger *zap.Logger) *TestimonialService {
	return &TestimonialService{repo: repo, logger: logger}
}

// Submit accepts a testimonial from the public site. It stays hidden
// until a staff member approves it.
func (s *TestimonialService) Submit(ctx context.Context, req SubmitTestimonialRequest) (*TestimonialResponse, error) {
	testimonial, err := catalog.NewTestimonial(req.Name, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, testimonial); err != nil {
		s.logger.Error("Failed to save testimonial", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save testimonial")
	}

	s.logger.Info("Testimonial submitted", zap.String("testimonial_id", testimonial.ID.String()))

	resp := toTestimonialResponse(testimonial)
	return &resp, nil
}

// List returns testimonials for the admin panel
func (s *TestimonialService) List(ctx context.Context, req ListTestimonialsRequest) (*ListTestimonialsResponse, error) {
	filter := catalog.TestimonialFilter{
		Filter:       shared.DefaultFilter(),
		OnlyApproved: req.OnlyApproved,
		OnlyFeatured: req.OnlyFeatured,
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	testimonials, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list testimonials", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list testimonials")
	}

	items := make([]TestimonialResponse, 0, len(testimonials))
	for i := range testimonials {
		items = append(items, toTestimonialResponse(&testimonials[i]))
	}

	return &ListTestimonialsResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListPublic returns approved testimonials for the public site
func (s *TestimonialService) ListPublic(ctx context.Context, req ListTestimonialsRequest) (*ListTestimonialsResponse, error) {
	req.OnlyApproved = true
	return s.List(ctx, req)
}

// Moderate applies approval and featured changes to a testimonial
func (s *TestimonialService) Moderate(ctx context.Context, id uuid.UUID, req ModerateTestimonialRequest) (*TestimonialResponse, error) {
	testimonial, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if req.Approved != nil {
		if *req.Approved {
			testimonial.Approve()
		} else {
			testimonial.Reject()
		}
	}
	if req.Featured != nil {
		if err := testimonial.SetFeatured(*req.Featured); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, testimonial); err != nil {
		s.logger.Error("Failed to moderate testimonial", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update testimonial")
	}

	s.logger.Info("Testimonial moderated",
		zap.String("testimonial_id", testimonial.ID.String()),
		zap.Bool("approved", testimonial.Approved),
		zap.Bool("featured", testimonial.Featured))

	resp := toTestimonialResponse(testimonial)
	return &resp, nil
}

// Delete removes a testimonial
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete testimonial", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete testimonial")
	}
	return nil
}
