package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormServiceRepository implements catalog.ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by its ID with its items
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var service catalog.Service
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindBySlug finds a service by its slug with its items
func (r *GormServiceRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Service, error) {
	var service catalog.Service
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindAll finds services matching the filter
func (r *GormServiceRepository) FindAll(ctx context.Context, filter catalog.ServiceFilter) ([]catalog.Service, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Service{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ServiceSortFields, "sort_order")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	var services []catalog.Service
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Find(&services).Error
	if err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// Save creates or updates a service and replaces its items
func (r *GormServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(service).Error; err != nil {
			return err
		}

		// Delete items not in the current list, then save the rest
		currentItemIDs := make([]uuid.UUID, len(service.Items))
		for i, item := range service.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("service_id = ? AND id NOT IN ?", service.ID, currentItemIDs).
				Delete(&catalog.ServiceItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("service_id = ?", service.ID).
				Delete(&catalog.ServiceItem{}).Error; err != nil {
				return err
			}
		}

		for i := range service.Items {
			service.Items[i].ServiceID = service.ID
			if err := tx.Save(&service.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes a service and its items
func (r *GormServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&catalog.ServiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Service{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts all services
func (r *GormServiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Service{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormFAQRepository implements catalog.FAQRepository using GORM
type GormFAQRepository struct {
	db *gorm.DB
}

// NewGormFAQRepository creates a new GormFAQRepository
func NewGormFAQRepository(db *gorm.DB) *GormFAQRepository {
	return &GormFAQRepository{db: db}
}

// FindByID finds a FAQ by its ID
func (r *GormFAQRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FAQ, error) {
	var faq catalog.FAQ
	if err := r.db.WithContext(ctx).First(&faq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &faq, nil
}

// FindAll finds all FAQs in display order
func (r *GormFAQRepository) FindAll(ctx context.Context, onlyActive bool) ([]catalog.FAQ, error) {
	query := r.db.WithContext(ctx).Model(&catalog.FAQ{})
	if onlyActive {
		query = query.Where("active = ?", true)
	}

	var faqs []catalog.FAQ
	if err := query.Order("display_order ASC, created_at ASC").Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

// Save creates or updates a FAQ
func (r *GormFAQRepository) Save(ctx context.Context, faq *catalog.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

// Delete deletes a FAQ
func (r *GormFAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.FAQ{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTestimonialRepository implements catalog.TestimonialRepository using GORM
type GormTestimonialRepository struct {
	db *gorm.DB
}

// NewGormTestimonialRepository creates a new GormTestimonialRepository
func NewGormTestimonialRepository(db *gorm.DB) *GormTestimonialRepository {
	return &GormTestimonialRepository{db: db}
}

// FindByID finds a testimonial by its ID
func (r *GormTestimonialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Testimonial, error) {
	var testimonial catalog.Testimonial
	if err := r.db.WithContext(ctx).First(&testimonial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &testimonial, nil
}

// FindAll finds testimonials matching the filter
func (r *GormTestimonialRepository) FindAll(ctx context.Context, filter catalog.TestimonialFilter) ([]catalog.Testimonial, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Testimonial{})
	if filter.OnlyApproved {
		query = query.Where("approved = ?", true)
	}
	if filter.OnlyFeatured {
		query = query.Where("featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, TestimonialSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	var testimonials []catalog.Testimonial
	if err := query.Find(&testimonials).Error; err != nil {
		return nil, 0, err
	}
	return testimonials, total, nil
}

// Save creates or updates a testimonial
func (r *GormTestimonialRepository) Save(ctx context.Context, testimonial *catalog.Testimonial) error {
	return r.db.WithContext(ctx).Save(testimonial).Error
}

// Delete deletes a testimonial
func (r *GormTestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Testimonial{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure the catalog repositories implement their interfaces
var (
	_ catalog.ServiceRepository     = (*GormServiceRepository)(nil)
	_ catalog.FAQRepository         = (*GormFAQRepository)(nil)
	_ catalog.TestimonialRepository = (*GormTestimonialRepository)(nil)
)
