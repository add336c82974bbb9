package core

import (
	"context"
	"net/mail"
	"strings"
)

type (
	EmailMessage struct {
		From     mail.Address
		To       []mail.Address
		Subject  string
		BodyStr  string // simple text/plain content
		HTMLBody string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		SendMessage(ctx context.Context, m *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.BodyStr != "" || m.HTMLBody != "" }

// Recipients returns the bare addresses of all the recipients.
func (m *EmailMessage) Recipients() []string {
	rcpts := make([]string, 0, len(m.To))
	for _, to := range m.To {
		rcpts = append(rcpts, to.Address)
	}
	return rcpts
}

func (m *EmailMessage) ToHeader() string {
	tos := make([]string, 0, len(m.To))
	for _, to := range m.To {
		tos = append(tos, to.String())
	}
	return strings.Join(tos, ", ")
}
