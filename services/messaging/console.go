package msgsvc

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

// Message is a text message recorded by the ConsoleService.
type Message struct {
	From string
	To   string
	Body string
}

type ConsoleService struct {
	from          string
	logger        *log.Logger
	disableOutput bool

	mu           sync.Mutex
	sentMessages []Message
}

var _ core.MessagingService = (*ConsoleService)(nil)

// NewConsoleService prints messages instead of sending them.
func NewConsoleService(conf *core.Config, logger *log.Logger) *ConsoleService {
	return &ConsoleService{from: conf.Messaging.From, logger: logger}
}

// NewConsoleServiceMock records messages without printing them.
func NewConsoleServiceMock(conf *core.Config) *ConsoleService {
	return &ConsoleService{from: conf.Messaging.From, disableOutput: true}
}

func (svc *ConsoleService) SendMessage(_ context.Context, to, body string) error {
	if to == "" {
		return errors.New("message has no recipient")
	}
	msg := Message{From: svc.from, To: to, Body: body}
	if !svc.disableOutput && svc.logger != nil {
		svc.logger.Printf("From: %s\nTo: %s\n\n%s\n", msg.From, msg.To, msg.Body)
	}

	svc.mu.Lock()
	svc.sentMessages = append(svc.sentMessages, msg)
	svc.mu.Unlock()
	return nil
}

// SentMessages returns a copy of the messages sent so far.
func (svc *ConsoleService) SentMessages() []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	msgs := make([]Message, len(svc.sentMessages))
	copy(msgs, svc.sentMessages)
	return msgs
}
