package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mailer sends transactional email. Implementations live in the
// infrastructure layer; failures are reported, never swallowed here.
type Mailer interface {
	SendQuoteConfirmation(ctx context.Context, to, customerName, vehicle, equipment, serviceTitle string) error
	SendQuoteAlert(ctx context.Context, customerName, customerEmail, customerPhone, vehicle, equipment, message string) error
	SendContactAlert(ctx context.Context, name, email, subject, message string) error
	SendContactReply(ctx context.Context, to, name, reply string) error
}

// Dispatcher fans out side effects (staff notifications and email) after
// a domain event. Every dispatch is best effort: failures are logged and
// dropped so a broken mail server never fails a customer-facing request.
type Dispatcher struct {
	notifications *Service
	mailer        Mailer
	logger        *zap.Logger
	timeout       time.Duration
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(notifications *Service, mailer Mailer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		mailer:        mailer,
		logger:        logger,
		timeout:       10 * time.Second,
	}
}

// QuoteReceived notifies staff about a new quote request and emails the
// customer a confirmation. Runs in the background; the caller's context
// is not used so the dispatch survives the request ending.
func (d *Dispatcher) QuoteReceived(quoteID uuid.UUID, customerName, customerEmail, customerPhone, vehicle, equipment, message, serviceTitle string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		related := quoteID
		if _, err := d.notifications.Broadcast(ctx, BroadcastRequest{
			Kind:      "NEW_QUOTE",
			Title:     "Novo Orçamento Recebido",
			Message:   customerName + " solicitou um orçamento.",
			RelatedID: &related,
		}); err != nil {
			d.logger.Warn("quote notification dispatch failed",
				zap.String("quote_id", quoteID.String()),
				zap.Error(err))
		}

		if d.mailer == nil {
			return
		}
		if customerEmail != "" {
			if err := d.mailer.SendQuoteConfirmation(ctx, customerEmail, customerName, vehicle, equipment, serviceTitle); err != nil {
				d.logger.Warn("quote confirmation email failed",
					zap.String("quote_id", quoteID.String()),
					zap.Error(err))
			}
		}
		if err := d.mailer.SendQuoteAlert(ctx, customerName, customerEmail, customerPhone, vehicle, equipment, message); err != nil {
			d.logger.Warn("quote alert email failed",
				zap.String("quote_id", quoteID.String()),
				zap.Error(err))
		}
	}()
}

// ContactReceived notifies staff about a new contact message
func (d *Dispatcher) ContactReceived(contactID uuid.UUID, name, email, subject, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		text := name + " enviou uma mensagem."
		if subject != "" {
			text = name + " enviou uma mensagem: " + subject
		}

		related := contactID
		if _, err := d.notifications.Broadcast(ctx, BroadcastRequest{
			Kind:      "NEW_CONTACT",
			Title:     "Nova Mensagem de Contato",
			Message:   text,
			RelatedID: &related,
		}); err != nil {
			d.logger.Warn("contact notification dispatch failed",
				zap.String("contact_id", contactID.String()),
				zap.Error(err))
		}

		if d.mailer == nil {
			return
		}
		if err := d.mailer.SendContactAlert(ctx, name, email, subject, message); err != nil {
			d.logger.Warn("contact alert email failed",
				zap.String("contact_id", contactID.String()),
				zap.Error(err))
		}
	}()
}

// AppointmentScheduled notifies staff about a new appointment
func (d *Dispatcher) AppointmentScheduled(appointmentID uuid.UUID, customerName string, scheduledAt time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		related := appointmentID
		if _, err := d.notifications.Broadcast(ctx, BroadcastRequest{
			Kind:      "NEW_APPOINTMENT",
			Title:     "Novo Agendamento",
			Message:   customerName + " agendou um atendimento para " + scheduledAt.Format("02/01/2006") + ".",
			RelatedID: &related,
		}); err != nil {
			d.logger.Warn("appointment notification dispatch failed",
				zap.String("appointment_id", appointmentID.String()),
				zap.Error(err))
		}
	}()
}

// QuoteStatusChanged records a notification for the staff member who
// worked the quote, when one is assigned.
func (d *Dispatcher) QuoteStatusChanged(quoteID uuid.UUID, assignedTo *uuid.UUID, customerName, status string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		related := quoteID
		title := "Orçamento Atualizado"
		msg := "O orçamento de " + customerName + " mudou para " + status + "."

		var err error
		if assignedTo != nil {
			_, err = d.notifications.Record(ctx, RecordRequest{
				OwnerID:   *assignedTo,
				Kind:      "QUOTE_UPDATED",
				Title:     title,
				Message:   msg,
				RelatedID: &related,
			})
		} else {
			_, err = d.notifications.Broadcast(ctx, BroadcastRequest{
				Kind:      "QUOTE_UPDATED",
				Title:     title,
				Message:   msg,
				RelatedID: &related,
			})
		}
		if err != nil {
			d.logger.Warn("quote status notification dispatch failed",
				zap.String("quote_id", quoteID.String()),
				zap.Error(err))
		}
	}()
}

// ContactReplied emails the customer the staff reply
func (d *Dispatcher) ContactReplied(contactID uuid.UUID, to, name, reply string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if d.mailer == nil {
			return
		}
		if err := d.mailer.SendContactReply(ctx, to, name, reply); err != nil {
			d.logger.Warn("contact reply email failed",
				zap.String("contact_id", contactID.String()),
				zap.Error(err))
		}
	}()
}
