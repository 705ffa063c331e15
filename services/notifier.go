package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier pushes a short text alert to the site owner
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// messageCreator is the part of the Twilio REST client the notifier uses
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// maxSMSLength keeps alerts within a couple of SMS segments
const maxSMSLength = 300

type TwilioNotifier struct {
	messages messageCreator
	from     string
	to       string
}

func NewTwilioNotifier(accountSID, authToken, from, to string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{messages: client.Api, from: from, to: to}
}

func (n *TwilioNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(text) > maxSMSLength {
		text = text[:maxSMSLength-3] + "..."
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(text)

	resp, err := n.messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}

	event := log.Info()
	if resp != nil && resp.Sid != nil {
		event = event.Str("messageSid", *resp.Sid)
	}
	event.Msg("Sent SMS notification")
	return nil
}
