package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// TwilioSMSSender implements domain.SMSSender against the Twilio REST API.
type TwilioSMSSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSMSSender creates a new Twilio SMS sender. Credentials are
// validated by config.Load before this is called.
func NewTwilioSMSSender(accountSID, authToken, fromNumber string) domain.SMSSender {
	restClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSSender{
		client:     restClient,
		fromNumber: fromNumber,
	}
}

// Send implements domain.SMSSender. Provider failures are normalized into
// the delivery taxonomy and returned as a result, never as a Go error; the
// error return is reserved for programming mistakes (nil client etc).
func (t *TwilioSMSSender) Send(ctx context.Context, to, body string) (*domain.DeliveryResult, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	msg, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return &domain.DeliveryResult{
			Channel:  domain.ChannelSMS,
			Provider: "twilio",
			Reason:   classifyTwilioError(err),
		}, nil
	}

	result := &domain.DeliveryResult{
		Delivered: true,
		Channel:   domain.ChannelSMS,
		Provider:  "twilio",
	}
	if msg.Sid != nil {
		result.ProviderRef = *msg.Sid
	}
	return result, nil
}

// classifyTwilioError maps Twilio error codes onto the delivery taxonomy.
func classifyTwilioError(err error) domain.DeliveryReason {
	var restErr *client.TwilioRestError
	if !errors.As(err, &restErr) {
		return domain.DeliveryUnknown
	}

	switch restErr.Code {
	case 21211, 21214, 21217, 21408, 21610, 21614:
		// Malformed, unroutable, unsubscribed or non-mobile recipient.
		return domain.DeliveryInvalidRecipient
	case 20429, 14107, 21611:
		// API rate limit, message rate limit, full outbound queue.
		return domain.DeliveryQuotaExceeded
	}
	if restErr.Status >= 500 {
		return domain.DeliveryProviderUnavailable
	}
	return domain.DeliveryUnknown
}

// Describe returns a short provider descriptor for logs.
func (t *TwilioSMSSender) Describe() string {
	return fmt.Sprintf("twilio from=%s", t.fromNumber)
}
