package persistence

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/sales"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormQuoteRepository implements sales.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Quote, error) {
	var quote sales.Quote
	if err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAll finds quotes matching the filter, returning the page and the
// total row count before paging
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter sales.QuoteFilter) ([]sales.Quote, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Quote{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, QuoteSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	var quotes []sales.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

// Save creates or updates a quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// Delete deletes a quote
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&sales.Quote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all quotes
func (r *GormQuoteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.Quote{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCreatedSince counts quotes created at or after the given instant
func (r *GormQuoteRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts quotes in any of the given statuses
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, statuses ...sales.QuoteStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GroupByStatus returns one row per status value present; statuses with
// zero quotes are not returned
func (r *GormQuoteRepository) GroupByStatus(ctx context.Context) ([]sales.StatusCount, error) {
	var counts []sales.StatusCount
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// GroupByDay returns one row per server-local calendar day with at least
// one quote created at or after since, ordered by date ascending.
//
// Bucketing happens in Go rather than SQL so that timestamps stored in
// UTC land in the server's local day regardless of dialect.
func (r *GormQuoteRepository) GroupByDay(ctx context.Context, since time.Time) ([]sales.DayCount, error) {
	var createdAts []time.Time
	err := r.db.WithContext(ctx).
		Model(&sales.Quote{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &createdAts).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]int64{}
	for _, ts := range createdAts {
		buckets[ts.Local().Format("2006-01-02")]++
	}

	counts := make([]sales.DayCount, 0, len(buckets))
	for date, count := range buckets {
		counts = append(counts, sales.DayCount{Date: date, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts, nil
}

// applyFilter applies filter options without ordering or paging
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter sales.QuoteFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ServiceID != uuid.Nil {
		query = query.Where("service_id = ?", filter.ServiceID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("vehicle ILIKE ? OR equipment ILIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)
