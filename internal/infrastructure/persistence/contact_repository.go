package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/contact"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact message by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	var msg contact.Contact
	if err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// FindAll finds contact messages matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter contact.Filter) ([]contact.Contact, int64, error) {
	query := r.db.WithContext(ctx).Model(&contact.Contact{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ContactSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	var msgs []contact.Contact
	if err := query.Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// Save creates or updates a contact message
func (r *GormContactRepository) Save(ctx context.Context, msg *contact.Contact) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// Delete deletes a contact message
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&contact.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountCreatedSince counts contact messages created at or after the given instant
func (r *GormContactRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&contact.Contact{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
