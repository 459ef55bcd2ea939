package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/partner"
	"github.com/pulsetronic/backend/internal/domain/sales"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// QuoteEvents receives fire-and-forget side effects after quote
// mutations commit. Failures must never reach the caller.
type QuoteEvents interface {
	QuoteReceived(quoteID uuid.UUID, customerName, customerEmail, customerPhone, vehicle, equipment, message, serviceTitle string)
	QuoteStatusChanged(quoteID uuid.UUID, assignedTo *uuid.UUID, customerName, status string)
}

// QuoteService handles quote intake and admin processing
type QuoteService struct {
	quoteRepo    sales.QuoteRepository
	customerRepo partner.CustomerRepository
	serviceRepo  catalog.ServiceRepository
	events       QuoteEvents
	logger       *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo sales.QuoteRepository,
	customerRepo partner.CustomerRepository,
	serviceRepo catalog.ServiceRepository,
	events QuoteEvents,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		events:       events,
		logger:       logger,
	}
}

// Submit accepts a quote request from the public website. The customer
// record is found by phone number or created on the fly.
func (s *QuoteService) Submit(ctx context.Context, req SubmitQuoteRequest) (*QuoteResponse, error) {
	var serviceTitle string
	if req.ServiceID != nil {
		service, err := s.serviceRepo.FindByID(ctx, *req.ServiceID)
		if err != nil {
			return nil, shared.NewDomainError("SERVICE_NOT_FOUND", "Requested service does not exist")
		}
		serviceTitle = service.Title
	}

	customer, err := s.findOrCreateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	quote, err := sales.NewQuote(customer.ID, req.ServiceID, req.Equipment, req.Vehicle, req.Message)
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		s.logger.Error("Failed to save quote", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save quote")
	}

	s.logger.Info("Quote submitted",
		zap.String("quote_id", quote.ID.String()),
		zap.String("customer_id", customer.ID.String()))

	s.events.QuoteReceived(quote.ID, customer.Name, customer.Email, customer.Phone,
		quote.Vehicle, quote.Equipment, quote.Message, serviceTitle)

	resp := toQuoteResponse(quote)
	resp.Customer = toCustomerSummary(customer)
	return &resp, nil
}

func (s *QuoteService) findOrCreateCustomer(ctx context.Context, req SubmitQuoteRequest) (*partner.Customer, error) {
	phone := partner.NormalizePhone(req.Phone)

	customer, err := s.customerRepo.FindByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up customer by phone", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to look up customer")
	}

	customer, err = partner.NewCustomer(req.Name, req.Email, req.Phone, req.Vehicle)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create customer")
	}

	s.logger.Info("Customer created from quote form", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

// List returns a paginated admin listing of quotes
func (s *QuoteService) List(ctx context.Context, req ListQuotesRequest) (*ListQuotesResponse, error) {
	filter := sales.QuoteFilter{
		Filter:     shared.DefaultFilter(),
		Status:     sales.QuoteStatus(req.Status),
		CustomerID: req.CustomerID,
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	quotes, total, err := s.quoteRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list quotes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list quotes")
	}

	items := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, toQuoteResponse(&quotes[i]))
	}

	return &ListQuotesResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns a single quote with its customer
func (s *QuoteService) Get(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	resp := toQuoteResponse(quote)
	if customer, err := s.customerRepo.FindByID(ctx, quote.CustomerID); err == nil {
		resp.Customer = toCustomerSummary(customer)
	}
	return &resp, nil
}

// Update applies admin changes to a quote. A status change stamps the
// response time and notifies the assigned staff member.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	statusChanged := false
	if req.Status != nil && sales.QuoteStatus(*req.Status) != quote.Status {
		if err := quote.ChangeStatus(sales.QuoteStatus(*req.Status)); err != nil {
			return nil, err
		}
		statusChanged = true
	}
	if req.EstimatedValue != nil {
		if err := quote.SetEstimatedValue(*req.EstimatedValue); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		quote.SetNotes(*req.Notes)
	}
	if req.AssignedToID != nil {
		if err := quote.AssignTo(*req.AssignedToID); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		s.logger.Error("Failed to update quote", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update quote")
	}

	s.logger.Info("Quote updated",
		zap.String("quote_id", quote.ID.String()),
		zap.String("status", string(quote.Status)))

	resp := toQuoteResponse(quote)
	customer, custErr := s.customerRepo.FindByID(ctx, quote.CustomerID)
	if custErr == nil {
		resp.Customer = toCustomerSummary(customer)
	}

	if statusChanged {
		customerName := ""
		if custErr == nil {
			customerName = customer.Name
		}
		s.events.QuoteStatusChanged(quote.ID, quote.AssignedToID, customerName, string(quote.Status))
	}

	return &resp, nil
}

// Delete removes a quote
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quoteRepo.FindByID(ctx, id); err != nil {
		return shared.ErrNotFound
	}
	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete quote", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete quote")
	}
	s.logger.Info("Quote deleted", zap.String("quote_id", id.String()))
	return nil
}
