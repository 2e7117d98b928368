package notifications

import (
	"context"
	"errors"
	"net"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// SMTPEmailSender implements domain.EmailSender over plain SMTP.
type SMTPEmailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPEmailSender creates a new SMTP email sender.
func NewSMTPEmailSender(host string, port int, username, password, from string) domain.EmailSender {
	return &SMTPEmailSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send implements domain.EmailSender. Like the SMS side, provider failures
// come back as a normalized result rather than an error.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, body string) (*domain.DeliveryResult, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return &domain.DeliveryResult{
			Channel:  domain.ChannelEmail,
			Provider: "smtp",
			Reason:   classifySMTPError(err),
		}, nil
	}

	return &domain.DeliveryResult{
		Delivered: true,
		Channel:   domain.ChannelEmail,
		Provider:  "smtp",
	}, nil
}

func classifySMTPError(err error) domain.DeliveryReason {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.DeliveryProviderUnavailable
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "550"), strings.Contains(msg, "553"):
		// Mailbox unavailable / bad address syntax.
		return domain.DeliveryInvalidRecipient
	case strings.Contains(msg, "452"), strings.Contains(msg, "421"):
		// Insufficient storage / service not available, closing.
		return domain.DeliveryQuotaExceeded
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return domain.DeliveryProviderUnavailable
	}
	return domain.DeliveryUnknown
}
