package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/pulsetronic/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestMailer(t *testing.T) (*SMTPMailer, *[]sentMail) {
	t.Helper()
	m := NewSMTPMailer(&config.MailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer@pulsetronic.com.br",
		Password:  "secret",
		From:      "no-reply@pulsetronic.com.br",
		AdminAddr: "admin@pulsetronic.com.br",
	}, zap.NewNop())

	var sent []sentMail
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m, &sent
}

func TestSMTPMailer_SendQuoteConfirmation(t *testing.T) {
	m, sent := newTestMailer(t)

	err := m.SendQuoteConfirmation(context.Background(),
		"joao@example.com", "João Silva", "Honda Civic", "Central multimídia", "Som Automotivo")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, "no-reply@pulsetronic.com.br", mail.from)
	assert.Equal(t, []string{"joao@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Recebemos sua solicitação de orçamento")
	assert.Contains(t, mail.msg, "João Silva")
	assert.Contains(t, mail.msg, "Honda Civic")
	assert.Contains(t, mail.msg, "Som Automotivo")
	assert.Contains(t, mail.msg, "Content-Type: text/html")
}

func TestSMTPMailer_SendQuoteAlertGoesToAdmin(t *testing.T) {
	m, sent := newTestMailer(t)

	err := m.SendQuoteAlert(context.Background(),
		"Maria Souza", "maria@example.com", "+5511999990000", "Fiat Argo", "", "Quero um alarme")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, []string{"admin@pulsetronic.com.br"}, mail.to)
	assert.Contains(t, mail.msg, "Novo orçamento recebido")
	assert.Contains(t, mail.msg, "Quero um alarme")
	assert.NotContains(t, mail.msg, "Equipamento", "empty fields omitted")
}

func TestSMTPMailer_SendContactReply(t *testing.T) {
	m, sent := newTestMailer(t)

	err := m.SendContactReply(context.Background(), "carlos@example.com", "Carlos", "Atendemos aos sábados sim.")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, []string{"carlos@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Atendemos aos sábados sim.")
}

func TestSMTPMailer_EscapesHTML(t *testing.T) {
	m, sent := newTestMailer(t)

	err := m.SendContactAlert(context.Background(),
		"<script>alert(1)</script>", "x@example.com", "Dúvida", "corpo")
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	assert.NotContains(t, (*sent)[0].msg, "<script>")
}

func TestSMTPMailer_EmptyRecipient(t *testing.T) {
	m, sent := newTestMailer(t)

	err := m.SendContactReply(context.Background(), "", "Carlos", "oi")
	require.Error(t, err)
	assert.Empty(t, *sent)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m, sent := newTestMailer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendContactReply(ctx, "carlos@example.com", "Carlos", "oi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *sent)
}
