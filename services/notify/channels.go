package notify

import (
	"context"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

const (
	EmailChannelName    = "email"
	WhatsAppChannelName = "whatsapp"
	QueueChannelName    = "queue"
)

// EmailChannel emails notifications from a fixed sender to the admin.
type EmailChannel struct {
	svc  core.EmailService
	from mail.Address
	to   []mail.Address
}

var _ core.NotificationChannel = (*EmailChannel)(nil)

func NewEmailChannel(svc core.EmailService, from mail.Address, to ...mail.Address) *EmailChannel {
	return &EmailChannel{svc: svc, from: from, to: to}
}

func (ch *EmailChannel) Name() string { return EmailChannelName }

func (ch *EmailChannel) Send(ctx context.Context, n core.Notification) error {
	return ch.svc.SendMessage(ctx, &core.EmailMessage{
		From:    ch.from,
		To:      ch.to,
		Subject: n.Subject,
		BodyStr: n.Body,
	})
}

// MessagingChannel sends notifications as text messages (eg: WhatsApp) to the admin.
type MessagingChannel struct {
	svc core.MessagingService
	to  string
}

var _ core.NotificationChannel = (*MessagingChannel)(nil)

func NewMessagingChannel(svc core.MessagingService, to string) *MessagingChannel {
	return &MessagingChannel{svc: svc, to: to}
}

func (ch *MessagingChannel) Name() string { return WhatsAppChannelName }

func (ch *MessagingChannel) Send(ctx context.Context, n core.Notification) error {
	return ch.svc.SendMessage(ctx, ch.to, n.Body)
}

// Publisher publishes raw payloads to a message broker.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueChannel publishes notifications as JSON events.
type QueueChannel struct {
	pub Publisher
}

var _ core.NotificationChannel = (*QueueChannel)(nil)

type queueEvent struct {
	core.Notification
	SentAt time.Time `json:"sent_at"`
}

func NewQueueChannel(pub Publisher) *QueueChannel {
	return &QueueChannel{pub: pub}
}

func (ch *QueueChannel) Name() string { return QueueChannelName }

func (ch *QueueChannel) Send(ctx context.Context, n core.Notification) error {
	body, err := json.Marshal(queueEvent{Notification: n, SentAt: core.Now()})
	if err != nil {
		return errors.Wrap(err, "marshalling notification")
	}
	return ch.pub.Publish(ctx, body)
}
