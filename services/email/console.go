package emailsvc

import (
	"context"
	"log"
	"net/mail"
	"sync"

	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

var errNoRecipient = errors.New("email has no recipient or no content")

type ConsoleService struct {
	defaultFromEmail mail.Address
	logger           *log.Logger
	disableOutput    bool

	mu           sync.Mutex
	sentMessages []core.EmailMessage
}

var _ core.EmailService = (*ConsoleService)(nil)

// NewConsoleService prints emails instead of sending them.
func NewConsoleService(conf *core.Config, logger *log.Logger) *ConsoleService {
	return &ConsoleService{
		defaultFromEmail: conf.Email.DefaultFromAddress(conf.AppName),
		logger:           logger,
	}
}

// NewConsoleServiceMock records emails without printing them.
func NewConsoleServiceMock(conf *core.Config) *ConsoleService {
	return &ConsoleService{
		defaultFromEmail: conf.Email.DefaultFromAddress(conf.AppName),
		disableOutput:    true,
	}
}

func (svc *ConsoleService) SendMessage(_ context.Context, msg *core.EmailMessage) error {
	if !(msg.HasRecipients() && msg.HasContent()) {
		return errNoRecipient
	}
	raw := buildMessage(sender(msg, svc.defaultFromEmail), msg)
	if !svc.disableOutput && svc.logger != nil {
		svc.logger.Println(string(raw))
	}

	svc.mu.Lock()
	svc.sentMessages = append(svc.sentMessages, *msg)
	svc.mu.Unlock()
	return nil
}

// SentMessages returns a copy of the emails sent so far.
func (svc *ConsoleService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	msgs := make([]core.EmailMessage, len(svc.sentMessages))
	copy(msgs, svc.sentMessages)
	return msgs
}
