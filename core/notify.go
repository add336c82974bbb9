package core

import "context"

type (
	// Notification is a plain-text alert fanned out to every channel.
	Notification struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}

	// NotificationChannel delivers a Notification over a single transport (email, whatsapp, queue...).
	NotificationChannel interface {
		Name() string
		Send(ctx context.Context, n Notification) error
	}

	// Notifier dispatches notifications without reporting back to the caller.
	Notifier interface {
		Notify(n Notification)
	}
)

// MessagingService is any service that can send a text message (eg: WhatsApp) to a single recipient.
type MessagingService interface {
	SendMessage(ctx context.Context, to, body string) error
}
