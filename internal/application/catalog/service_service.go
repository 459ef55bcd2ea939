package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// ServiceService manages the installation service catalog
type ServiceService struct {
	repo   catalog.ServiceRepository
	logger *zap.Logger
}

// NewServiceService creates a new service catalog service
func NewServiceService(repo catalog.ServiceRepository, logger *zap.Logger) *ServiceService {
	return &ServiceService{repo: repo, logger: logger}
}

// Create adds a new installation service
func (s *ServiceService) Create(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	if existing, err := s.repo.FindBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A service with this slug already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check slug uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create service")
	}

	service, err := catalog.NewService(req.Title, req.Slug, req.Description, catalog.ServiceCategory(req.Category), req.EstimatedTime)
	if err != nil {
		return nil, err
	}
	if err := service.ReplaceItems(req.Items); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, service); err != nil {
		s.logger.Error("Failed to save service", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create service")
	}

	s.logger.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("slug", service.Slug))

	resp := toServiceResponse(service)
	return &resp, nil
}

// List returns services for the admin panel
func (s *ServiceService) List(ctx context.Context, req ListServicesRequest) (*ListServicesResponse, error) {
	return s.list(ctx, req, false)
}

// ListPublic returns only active services for the public site
func (s *ServiceService) ListPublic(ctx context.Context, req ListServicesRequest) (*ListServicesResponse, error) {
	return s.list(ctx, req, true)
}

func (s *ServiceService) list(ctx context.Context, req ListServicesRequest, onlyActive bool) (*ListServicesResponse, error) {
	filter := catalog.ServiceFilter{
		Filter:     shared.DefaultFilter(),
		Category:   catalog.ServiceCategory(req.Category),
		OnlyActive: onlyActive,
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	services, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list services", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list services")
	}

	items := make([]ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, toServiceResponse(&services[i]))
	}

	return &ListServicesResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns a single service by ID
func (s *ServiceService) Get(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	resp := toServiceResponse(service)
	return &resp, nil
}

// GetBySlug returns a single active service for the public site
func (s *ServiceService) GetBySlug(ctx context.Context, slug string) (*ServiceResponse, error) {
	service, err := s.repo.FindBySlug(ctx, slug)
	if err != nil || !service.Active {
		return nil, shared.ErrNotFound
	}
	resp := toServiceResponse(service)
	return &resp, nil
}

// Update modifies an existing service
func (s *ServiceService) Update(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := service.Update(req.Title, req.Description, catalog.ServiceCategory(req.Category), req.EstimatedTime); err != nil {
		return nil, err
	}
	if req.Items != nil {
		if err := service.ReplaceItems(*req.Items); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			service.Activate()
		} else {
			service.Deactivate()
		}
	}

	if err := s.repo.Save(ctx, service); err != nil {
		s.logger.Error("Failed to update service", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update service")
	}

	s.logger.Info("Service updated", zap.String("service_id", service.ID.String()))

	resp := toServiceResponse(service)
	return &resp, nil
}

// Delete removes a service
func (s *ServiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete service", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete service")
	}
	s.logger.Info("Service deleted", zap.String("service_id", id.String()))
	return nil
}
