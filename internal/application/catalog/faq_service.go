package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// FAQService manages the public FAQ list
type FAQService struct {
	repo   catalog.FAQRepository
	logger *zap.Logger
}

// NewFAQService creates a new FAQ service
func NewFAQService(repo catalog.FAQRepository, logger *zap.Logger) *FAQService {
	return &FAQService{repo: repo, logger: logger}
}

// Create adds a new FAQ entry
func (s *FAQService) Create(ctx context.Context, req CreateFAQRequest) (*FAQResponse, error) {
	faq, err := catalog.NewFAQ(req.Question, req.Answer, req.DisplayOrder)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, faq); err != nil {
		s.logger.Error("Failed to save FAQ", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create FAQ")
	}

	s.logger.Info("FAQ created", zap.String("faq_id", faq.ID.String()))

	resp := toFAQResponse(faq)
	return &resp, nil
}

// List returns all FAQ entries for the admin panel
func (s *FAQService) List(ctx context.Context) ([]FAQResponse, error) {
	return s.list(ctx, false)
}

// ListPublic returns only active FAQ entries ordered for display
func (s *FAQService) ListPublic(ctx context.Context) ([]FAQResponse, error) {
	return s.list(ctx, true)
}

func (s *FAQService) list(ctx context.Context, onlyActive bool) ([]FAQResponse, error) {
	faqs, err := s.repo.FindAll(ctx, onlyActive)
	if err != nil {
		s.logger.Error("Failed to list FAQs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list FAQs")
	}

	items := make([]FAQResponse, 0, len(faqs))
	for i := range faqs {
		items = append(items, toFAQResponse(&faqs[i]))
	}
	return items, nil
}

// Update modifies an FAQ entry
func (s *FAQService) Update(ctx context.Context, id uuid.UUID, req UpdateFAQRequest) (*FAQResponse, error) {
	faq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := faq.Update(req.Question, req.Answer, req.DisplayOrder); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			faq.Activate()
		} else {
			faq.Deactivate()
		}
	}

	if err := s.repo.Save(ctx, faq); err != nil {
		s.logger.Error("Failed to update FAQ", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update FAQ")
	}

	resp := toFAQResponse(faq)
	return &resp, nil
}

// Delete removes an FAQ entry
func (s *FAQService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete FAQ", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete FAQ")
	}
	return nil
}
