package contact

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetronic/backend/internal/domain/contact"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// ContactEvents receives fire-and-forget side effects after contact
// mutations commit. Failures must never reach the caller.
type ContactEvents interface {
	ContactReceived(contactID uuid.UUID, name, email, subject, message string)
	ContactReplied(contactID uuid.UUID, to, name, reply string)
}

// Service handles contact form intake and staff replies
type Service struct {
	repo   contact.Repository
	events ContactEvents
	logger *zap.Logger
}

// NewService creates a new contact service
func NewService(repo contact.Repository, events ContactEvents, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Submit accepts a message from the public contact form
func (s *Service) Submit(ctx context.Context, req SubmitContactRequest) (*ContactResponse, error) {
	msg, err := contact.NewContact(req.Name, req.Email, req.Phone, req.Subject, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		s.logger.Error("Failed to save contact message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save contact message")
	}

	s.logger.Info("Contact message received",
		zap.String("contact_id", msg.ID.String()),
		zap.String("email", msg.Email))

	s.events.ContactReceived(msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message)

	resp := toContactResponse(msg)
	return &resp, nil
}

// List returns a paginated admin listing of contact messages
func (s *Service) List(ctx context.Context, req ListContactsRequest) (*ListContactsResponse, error) {
	filter := contact.Filter{
		Filter: shared.DefaultFilter(),
		Status: contact.Status(req.Status),
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	messages, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list contact messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list contact messages")
	}

	items := make([]ContactResponse, 0, len(messages))
	for i := range messages {
		items = append(items, toContactResponse(&messages[i]))
	}

	return &ListContactsResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns a single message. Opening a NEW message marks it READ.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if msg.Status == contact.StatusNew {
		msg.MarkRead()
		if err := s.repo.Save(ctx, msg); err != nil {
			// Reading still succeeds, the status update is best effort
			s.logger.Error("Failed to mark contact message read", zap.Error(err))
		}
	}

	resp := toContactResponse(msg)
	return &resp, nil
}

// Reply records a staff reply and emails it to the sender
func (s *Service) Reply(ctx context.Context, id uuid.UUID, req ReplyRequest) (*ContactResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := msg.Reply(req.Reply); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		s.logger.Error("Failed to save contact reply", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save reply")
	}

	s.logger.Info("Contact message replied", zap.String("contact_id", msg.ID.String()))

	s.events.ContactReplied(msg.ID, msg.Email, msg.Name, msg.ReplyText)

	resp := toContactResponse(msg)
	return &resp, nil
}

// Close archives a message without replying
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := msg.Close(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		s.logger.Error("Failed to close contact message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to close message")
	}

	resp := toContactResponse(msg)
	return &resp, nil
}

// Delete removes a contact message
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete contact message", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete message")
	}
	s.logger.Info("Contact message deleted", zap.String("contact_id", id.String()))
	return nil
}
