package notify_test

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometuition/portal/core"
	emailsvc "github.com/hometuition/portal/services/email"
	logsvc "github.com/hometuition/portal/services/logger"
	msgsvc "github.com/hometuition/portal/services/messaging"
	"github.com/hometuition/portal/services/notify"
)

var notification = core.Notification{Subject: "New Tuition Inquiry", Body: "New tuition inquiry received"}

type channelMock struct {
	name  string
	err   error
	panic bool
	block bool

	mu    sync.Mutex
	calls int
}

func (ch *channelMock) Name() string { return ch.name }

func (ch *channelMock) Send(ctx context.Context, _ core.Notification) error {
	ch.mu.Lock()
	ch.calls++
	ch.mu.Unlock()

	if ch.panic {
		panic("boom")
	}
	if ch.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return ch.err
}

func (ch *channelMock) Calls() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.calls
}

func TestDispatcher_Notify(t *testing.T) {
	tests := []struct {
		name   string
		failed *channelMock
	}{
		{"error", &channelMock{name: "broken", err: errors.New("connection refused")}},
		{"panic", &channelMock{name: "broken", panic: true}},
		{"timeout", &channelMock{name: "broken", block: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logsvc.NewRecorderLogger()
			metrics := notify.NewMetrics(prometheus.NewRegistry())
			ok1, ok2 := &channelMock{name: "first"}, &channelMock{name: "last"}

			d := notify.NewDispatcher(logger, metrics, 50*time.Millisecond, ok1, tt.failed, ok2)
			d.Notify(notification)
			d.Wait()

			assert.Equal(t, 1, ok1.Calls())
			assert.Equal(t, 1, tt.failed.Calls())
			assert.Equal(t, 1, ok2.Calls())

			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Counter("first", "sent")))
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Counter("last", "sent")))
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Counter("broken", "failed")))
			assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Counter("broken", "sent")))

			errs := logger.Entries("ERROR")
			require.Len(t, errs, 1)
			assert.True(t, strings.HasPrefix(errs[0].Msg, `notification "New Tuition Inquiry" not sent on broken`), errs[0].Msg)
			assert.Len(t, logger.Entries("INFO"), 2)
		})
	}
}

func TestDispatcher_circuitBreaker(t *testing.T) {
	logger := logsvc.NewRecorderLogger()
	failing := &channelMock{name: "broken", err: errors.New("unavailable")}
	d := notify.NewSyncDispatcher(logger, nil, time.Second, failing)

	for i := 0; i < 5; i++ {
		d.Notify(notification)
	}

	// the breaker opens after 3 consecutive failures
	assert.Equal(t, 3, failing.Calls())
	errs := logger.Entries("ERROR")
	require.Len(t, errs, 5)
	assert.Equal(t, gobreaker.ErrOpenState, errs[4].Args[0])
	assert.Len(t, logger.Entries("WARN"), 1)
}

func TestDispatcher_Channels(t *testing.T) {
	d := notify.NewDispatcher(logsvc.NewDiscardLogger(), nil, time.Second,
		&channelMock{name: notify.EmailChannelName}, &channelMock{name: notify.WhatsAppChannelName})
	assert.Equal(t, []string{"email", "whatsapp"}, d.Channels())

	// without channels, Notify is a no-op
	empty := notify.NewDispatcher(logsvc.NewDiscardLogger(), nil, time.Second)
	empty.Notify(notification)
	empty.Wait()
	assert.Empty(t, empty.Channels())
}

func TestEmailChannel(t *testing.T) {
	conf := core.NewTestConfig()
	svc := emailsvc.NewConsoleServiceMock(conf)
	from := conf.Email.DefaultFromAddress(conf.AppName)
	ch := notify.NewEmailChannel(svc, from, conf.Email.AdminAddress())

	require.NoError(t, ch.Send(context.Background(), notification))

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, from, sent[0].From)
	assert.Equal(t, []mail.Address{{Address: "admin@test.local"}}, sent[0].To)
	assert.Equal(t, notification.Subject, sent[0].Subject)
	assert.Equal(t, notification.Body, sent[0].BodyStr)
}

func TestMessagingChannel(t *testing.T) {
	conf := core.NewTestConfig()
	svc := msgsvc.NewConsoleServiceMock(conf)
	ch := notify.NewMessagingChannel(svc, conf.Messaging.AdminTo)

	require.NoError(t, ch.Send(context.Background(), notification))

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "whatsapp:+910000000000", sent[0].To)
	assert.Equal(t, notification.Body, sent[0].Body)
}

type publisherMock struct {
	bodies [][]byte
	err    error
}

func (p *publisherMock) Publish(_ context.Context, body []byte) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

func TestQueueChannel(t *testing.T) {
	pub := &publisherMock{}
	ch := notify.NewQueueChannel(pub)
	require.NoError(t, ch.Send(context.Background(), notification))
	require.Len(t, pub.bodies, 1)

	var event struct {
		Subject string    `json:"subject"`
		Body    string    `json:"body"`
		SentAt  time.Time `json:"sent_at"`
	}
	require.NoError(t, json.Unmarshal(pub.bodies[0], &event))
	assert.Equal(t, notification.Subject, event.Subject)
	assert.Equal(t, notification.Body, event.Body)
	assert.False(t, event.SentAt.IsZero())

	pub.err = errors.New("channel closed")
	assert.Equal(t, pub.err, ch.Send(context.Background(), notification))
}
