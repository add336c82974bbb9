package emailsvc

import (
	"context"
	"crypto/tls"
	"net"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/pkg/errors"

	"github.com/hometuition/portal/core"
)

const smtpTimeout = 30 * time.Second

type smtpService struct {
	addr             string
	host             string
	user             string
	password         string
	defaultFromEmail mail.Address
}

var _ core.EmailService = (*smtpService)(nil)

// NewSMTPService sends emails over an implicit TLS connection (eg: smtp.gmail.com:465) with PLAIN auth.
func NewSMTPService(conf *core.Config) core.EmailService {
	return &smtpService{
		addr:             conf.Email.SMTPAddress(),
		host:             conf.Email.SMTPHost,
		user:             conf.Email.User,
		password:         conf.Email.Password,
		defaultFromEmail: mail.Address{Name: conf.AppName, Address: conf.Email.User},
	}
}

func (svc *smtpService) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	if !(msg.HasRecipients() && msg.HasContent()) {
		return errNoRecipient
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: smtpTimeout},
		Config:    &tls.Config{ServerName: svc.host, MinVersion: tls.VersionTLS12},
	}
	conn, err := dialer.DialContext(ctx, "tcp", svc.addr)
	if err != nil {
		return errors.Wrap(err, "dialing smtp server")
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(smtpTimeout)
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, svc.host)
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "creating smtp client")
	}
	defer func() { _ = c.Close() }()

	if svc.user != "" {
		if err = c.Auth(smtp.PlainAuth("", svc.user, svc.password, svc.host)); err != nil {
			return errors.Wrap(err, "smtp auth")
		}
	}

	from := sender(msg, svc.defaultFromEmail)
	if err = c.Mail(from.Address); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM")
	}
	for _, rcpt := range msg.Recipients() {
		if err = c.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "smtp RCPT TO %s", rcpt)
		}
	}

	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA")
	}
	if _, err = w.Write(buildMessage(from, msg)); err != nil {
		return errors.Wrap(err, "writing email")
	}
	if err = w.Close(); err != nil {
		return errors.Wrap(err, "closing email")
	}
	return errors.Wrap(c.Quit(), "smtp QUIT")
}
