package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/notification"
	"github.com/pulsetronic/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// visibleClause selects rows owned by the user plus ownerless broadcasts
const visibleClause = "owner_id = ? OR owner_id IS NULL"

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// SaveAll creates or updates multiple notifications in one statement
func (r *GormNotificationRepository) SaveAll(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(ns).Error
}

// ListVisible returns notifications owned by userID or broadcast, newest first
func (r *GormNotificationRepository) ListVisible(ctx context.Context, userID uuid.UUID, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where(visibleClause, userID)
	if filter.OnlyUnread {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []notification.Notification
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// CountUnread counts unread notifications visible to userID
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where(visibleClause, userID).
		Where("read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead marks one owned notification as read. Rows that do not exist,
// belong to someone else, or are broadcasts all report shared.ErrNotFound.
// Marking an already-read row succeeds without touching ReadAt.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	var n notification.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, userID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	if n.Read {
		return nil
	}

	n.MarkRead()
	return r.db.WithContext(ctx).Save(&n).Error
}

// MarkAllRead marks every unread owned notification as read. Unread
// broadcasts are left untouched.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("owner_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes one owned notification, with the same owner-only
// predicate as MarkRead
func (r *GormNotificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&notification.Notification{}, "id = ? AND owner_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
