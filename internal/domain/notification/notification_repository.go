package notification

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows notification listings. Visibility (owned-or-broadcast)
// is always applied by the repository and is not part of the filter.
type ListFilter struct {
	Offset     int
	Limit      int
	OnlyUnread bool
}

// Repository defines the persistence interface for the notification ledger.
//
// Mutations that take a userID apply an owner-only predicate: rows that
// do not exist, belong to someone else, or are broadcasts all report
// shared.ErrNotFound so callers cannot probe for other users' rows.
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	SaveAll(ctx context.Context, ns []*Notification) error

	// ListVisible returns notifications owned by userID or broadcast,
	// newest first, honoring the filter's paging.
	ListVisible(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Notification, int64, error)

	// CountUnread counts unread notifications visible to userID,
	// regardless of any listing filter.
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead marks one owned notification as read. Marking an
	// already-read notification succeeds without touching ReadAt.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead marks every unread owned notification as read and
	// returns how many rows changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delete removes one owned notification.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
