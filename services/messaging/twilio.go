package msgsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/hometuition/portal/core"
)

// messageCreator is the subset of the twilio REST API used to send messages.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type twilioService struct {
	api  messageCreator
	from string
}

var _ core.MessagingService = (*twilioService)(nil)

// NewTwilioService sends messages through the Twilio Messages API (WhatsApp senders are prefixed with "whatsapp:").
func NewTwilioService(conf *core.Config) core.MessagingService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: conf.Messaging.TwilioAccountSID,
		Password: conf.Messaging.TwilioAuthToken,
	})
	return &twilioService{api: client.Api, from: conf.Messaging.From}
}

func (svc *twilioService) SendMessage(ctx context.Context, to, body string) error {
	if to == "" {
		return errors.New("message has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(svc.from)
	params.SetBody(body)

	res, err := svc.api.CreateMessage(params)
	if err != nil {
		return errors.Wrap(err, "creating twilio message")
	}
	if res != nil && res.ErrorMessage != nil && *res.ErrorMessage != "" {
		return errors.Errorf("twilio message failed: %s", *res.ErrorMessage)
	}
	return nil
}
