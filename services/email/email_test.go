package emailsvc

import (
	"context"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometuition/portal/core"
)

func newMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Address: "admin@test.local"}},
		Subject: "New Tuition Inquiry",
		BodyStr: "Student: Asha\nClass: 5th",
	}
}

func TestBuildMessage(t *testing.T) {
	from := mail.Address{Name: "Home Tuition Portal", Address: "noreply@test.local"}
	raw := string(buildMessage(from, newMessage()))

	header, body, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, header, `From: "Home Tuition Portal" <noreply@test.local>`)
	assert.Contains(t, header, "To: <admin@test.local>")
	assert.Contains(t, header, "Subject: New Tuition Inquiry")
	assert.Contains(t, header, `Content-Type: text/plain; charset="utf-8"`)
	assert.Equal(t, "Student: Asha\r\nClass: 5th\r\n", body)
}

func TestSender(t *testing.T) {
	dflt := mail.Address{Address: "noreply@test.local"}
	msg := newMessage()
	assert.Equal(t, dflt, sender(msg, dflt))

	msg.From = mail.Address{Address: "office@test.local"}
	assert.Equal(t, msg.From, sender(msg, dflt))
}

func TestConsoleService(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf)
	ctx := context.Background()

	require.NoError(t, svc.SendMessage(ctx, newMessage()))

	noRecipient := newMessage()
	noRecipient.To = nil
	assert.Equal(t, errNoRecipient, svc.SendMessage(ctx, noRecipient))

	noContent := newMessage()
	noContent.Subject, noContent.BodyStr = "", ""
	assert.Equal(t, errNoRecipient, svc.SendMessage(ctx, noContent))

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Tuition Inquiry", sent[0].Subject)
}

func TestSendgridService_prepare(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewSendgridService(conf).(*sendgridService)
	msg := newMessage()
	msg.HTMLBody = "<p>Student: Asha</p>"

	m := svc.prepare(msg)
	assert.Equal(t, "noreply@test.local", m.From.Address)
	assert.Equal(t, conf.AppName, m.From.Name)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "New Tuition Inquiry", m.Personalizations[0].Subject)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, "admin@test.local", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)

	assert.Equal(t, errNoRecipient, svc.SendMessage(context.Background(), &core.EmailMessage{Subject: "x"}))
}
