// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	notificationapp "github.com/pulsetronic/backend/internal/application/notification"
	"github.com/pulsetronic/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure SMTPMailer implements the dispatcher's Mailer interface
var _ notificationapp.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends email through a plain-auth SMTP relay
type SMTPMailer struct {
	addr      string
	auth      smtp.Auth
	from      string
	adminAddr string
	logger    *zap.Logger

	// send is swappable in tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer from configuration
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:      auth,
		from:      cfg.From,
		adminAddr: cfg.AdminAddr,
		logger:    logger,
		send:      smtp.SendMail,
	}
}

// SendQuoteConfirmation tells the customer their quote request arrived
func (m *SMTPMailer) SendQuoteConfirmation(ctx context.Context, to, customerName, vehicle, equipment, serviceTitle string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Olá %s,</p>", html.EscapeString(customerName))
	b.WriteString("<p>Recebemos sua solicitação de orçamento e nossa equipe entrará em contato em breve.</p>")
	b.WriteString("<ul>")
	if serviceTitle != "" {
		fmt.Fprintf(&b, "<li><strong>Serviço:</strong> %s</li>", html.EscapeString(serviceTitle))
	}
	if vehicle != "" {
		fmt.Fprintf(&b, "<li><strong>Veículo:</strong> %s</li>", html.EscapeString(vehicle))
	}
	if equipment != "" {
		fmt.Fprintf(&b, "<li><strong>Equipamento:</strong> %s</li>", html.EscapeString(equipment))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Atenciosamente,<br>Equipe Pulse Tronic Install Pro</p>")

	return m.deliver(ctx, to, "Recebemos sua solicitação de orçamento", b.String())
}

// SendQuoteAlert tells the shop admin a new quote request arrived
func (m *SMTPMailer) SendQuoteAlert(ctx context.Context, customerName, customerEmail, customerPhone, vehicle, equipment, message string) error {
	var b strings.Builder
	b.WriteString("<p>Novo orçamento recebido pelo site.</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><strong>Cliente:</strong> %s</li>", html.EscapeString(customerName))
	fmt.Fprintf(&b, "<li><strong>Email:</strong> %s</li>", html.EscapeString(customerEmail))
	fmt.Fprintf(&b, "<li><strong>Telefone:</strong> %s</li>", html.EscapeString(customerPhone))
	if vehicle != "" {
		fmt.Fprintf(&b, "<li><strong>Veículo:</strong> %s</li>", html.EscapeString(vehicle))
	}
	if equipment != "" {
		fmt.Fprintf(&b, "<li><strong>Equipamento:</strong> %s</li>", html.EscapeString(equipment))
	}
	b.WriteString("</ul>")
	if message != "" {
		fmt.Fprintf(&b, "<p><strong>Mensagem:</strong><br>%s</p>", html.EscapeString(message))
	}

	return m.deliver(ctx, m.adminAddr, "Novo orçamento recebido", b.String())
}

// SendContactAlert tells the shop admin a contact message arrived
func (m *SMTPMailer) SendContactAlert(ctx context.Context, name, email, subject, message string) error {
	var b strings.Builder
	b.WriteString("<p>Nova mensagem de contato recebida pelo site.</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li><strong>Nome:</strong> %s</li>", html.EscapeString(name))
	fmt.Fprintf(&b, "<li><strong>Email:</strong> %s</li>", html.EscapeString(email))
	fmt.Fprintf(&b, "<li><strong>Assunto:</strong> %s</li>", html.EscapeString(subject))
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Mensagem:</strong><br>%s</p>", html.EscapeString(message))

	return m.deliver(ctx, m.adminAddr, "Nova mensagem de contato: "+subject, b.String())
}

// SendContactReply delivers a staff reply to the customer
func (m *SMTPMailer) SendContactReply(ctx context.Context, to, name, reply string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Olá %s,</p>", html.EscapeString(name))
	b.WriteString("<p>Obrigado pelo seu contato. Segue nossa resposta:</p>")
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(reply))
	b.WriteString("<p>Atenciosamente,<br>Equipe Pulse Tronic Install Pro</p>")

	return m.deliver(ctx, to, "Resposta ao seu contato - Pulse Tronic", b.String())
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("mail recipient is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	m.logger.Debug("mail sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
