package mail

import (
	"context"

	notificationapp "github.com/pulsetronic/backend/internal/application/notification"
	"go.uber.org/zap"
)

// Ensure NopMailer implements the dispatcher's Mailer interface
var _ notificationapp.Mailer = (*NopMailer)(nil)

// NopMailer logs instead of sending. Used when mail is disabled in
// configuration, typically in development.
type NopMailer struct {
	logger *zap.Logger
}

// NewNopMailer creates a mailer that only logs
func NewNopMailer(logger *zap.Logger) *NopMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NopMailer{logger: logger}
}

func (m *NopMailer) SendQuoteConfirmation(_ context.Context, to, customerName, _, _, _ string) error {
	m.logger.Info("mail disabled, skipping quote confirmation",
		zap.String("to", to),
		zap.String("customer", customerName))
	return nil
}

func (m *NopMailer) SendQuoteAlert(_ context.Context, customerName, _, _, _, _, _ string) error {
	m.logger.Info("mail disabled, skipping quote alert",
		zap.String("customer", customerName))
	return nil
}

func (m *NopMailer) SendContactAlert(_ context.Context, name, _, subject, _ string) error {
	m.logger.Info("mail disabled, skipping contact alert",
		zap.String("name", name),
		zap.String("subject", subject))
	return nil
}

func (m *NopMailer) SendContactReply(_ context.Context, to, _, _ string) error {
	m.logger.Info("mail disabled, skipping contact reply",
		zap.String("to", to))
	return nil
}
