// Package notification implements the notification ledger operations
// and the best-effort event fan-out used by the rest of the application.
package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/notification"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Service handles notification ledger operations
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a new notification Service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record creates a notification addressed to one user
func (s *Service) Record(ctx context.Context, req RecordRequest) (*Response, error) {
	n, err := notification.NewNotification(req.OwnerID, notification.Kind(req.Kind), req.Title, req.Message, req.RelatedID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		s.logger.Error("failed to record notification",
			zap.String("kind", req.Kind),
			zap.String("owner_id", req.OwnerID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("notification recorded",
		zap.String("notification_id", n.ID.String()),
		zap.String("kind", req.Kind),
		zap.String("owner_id", req.OwnerID.String()))

	resp := toResponse(n)
	return &resp, nil
}

// Broadcast creates an ownerless notification visible to all staff
func (s *Service) Broadcast(ctx context.Context, req BroadcastRequest) (*Response, error) {
	n, err := notification.NewBroadcast(notification.Kind(req.Kind), req.Title, req.Message, req.RelatedID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		s.logger.Error("failed to broadcast notification",
			zap.String("kind", req.Kind),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("notification broadcast",
		zap.String("notification_id", n.ID.String()),
		zap.String("kind", req.Kind))

	resp := toResponse(n)
	return &resp, nil
}

// List returns a page of notifications visible to the user, newest
// first. The unread count is computed independently of the filter so
// the badge in the admin panel is always right.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListRequest) (*ListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	filter := notification.ListFilter{
		Offset:     req.Offset,
		Limit:      limit,
		OnlyUnread: req.OnlyUnread,
	}

	items, total, err := s.repo.ListVisible(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list notifications",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	responses := make([]Response, 0, len(items))
	for i := range items {
		responses = append(responses, toResponse(&items[i]))
	}

	return &ListResponse{
		Items:       responses,
		Total:       total,
		UnreadCount: unread,
		Offset:      req.Offset,
		Limit:       limit,
	}, nil
}

// UnreadCount counts unread notifications visible to the user
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one owned notification as read. Repeating the call is
// idempotent; the stored ReadAt keeps the time of the first call.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("notification marked as read",
		zap.String("notification_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// MarkAllRead marks every unread owned notification as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (*MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("failed to mark all notifications as read",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}
	s.logger.Info("all notifications marked as read",
		zap.String("user_id", userID.String()),
		zap.Int64("count", updated))
	return &MarkAllReadResponse{Updated: updated}, nil
}

// Delete removes one owned notification. Broadcasts and other users'
// rows report not-found, indistinguishable from a missing id.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("notification deleted",
		zap.String("notification_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}
