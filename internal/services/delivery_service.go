package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/audit"
	"github.com/JobMwaura/zintra-sub009/internal/metrics"
)

// DeliveryServiceImpl implements domain.DeliveryService. It dispatches a
// code to the requested channel, journals every attempt and, when fallback
// is enabled, retries exactly once on the alternate channel.
type DeliveryServiceImpl struct {
	smsSender   domain.SMSSender
	emailSender domain.EmailSender
	journal     domain.DeliveryJournal
	ttl         time.Duration
	fallback    bool
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(smsSender domain.SMSSender, emailSender domain.EmailSender, journal domain.DeliveryJournal, ttl time.Duration, fallback bool) domain.DeliveryService {
	return &DeliveryServiceImpl{
		smsSender:   smsSender,
		emailSender: emailSender,
		journal:     journal,
		ttl:         ttl,
		fallback:    fallback,
	}
}

var purposeSubjects = map[domain.Purpose]string{
	domain.PurposeRegistration:  "Your Zintra registration code",
	domain.PurposePasswordReset: "Your Zintra password reset code",
	domain.PurposeRFQUnlock:     "Your Zintra RFQ unlock code",
}

// Deliver implements domain.DeliveryService. Provider failures come back as
// a DeliveryError value; the stored verification request stays valid either
// way so the caller may re-request delivery without re-issuing.
func (s *DeliveryServiceImpl) Deliver(ctx context.Context, recipient string, purpose domain.Purpose, code string, channel domain.Channel) (*domain.DeliveryResult, error) {
	result := s.send(ctx, recipient, purpose, code, channel)
	s.record(recipient, purpose, result)

	if result.Delivered {
		return result, nil
	}

	if s.fallback {
		alternate := domain.ChannelEmail
		if channel == domain.ChannelEmail {
			alternate = domain.ChannelSMS
		}
		log.Printf("DELIVERY_FALLBACK: recipient=%s purpose=%s from=%s to=%s reason=%s",
			recipient, purpose, channel, alternate, result.Reason)

		retry := s.send(ctx, recipient, purpose, code, alternate)
		s.record(recipient, purpose, retry)
		if retry.Delivered {
			return retry, nil
		}
		return retry, &domain.DeliveryError{Provider: retry.Provider, Reason: retry.Reason}
	}

	return result, &domain.DeliveryError{Provider: result.Provider, Reason: result.Reason}
}

func (s *DeliveryServiceImpl) send(ctx context.Context, recipient string, purpose domain.Purpose, code string, channel domain.Channel) *domain.DeliveryResult {
	minutes := int(s.ttl.Minutes())

	switch channel {
	case domain.ChannelSMS:
		body := fmt.Sprintf("Your Zintra verification code is %s. Valid for %d minutes.", code, minutes)
		result, err := s.smsSender.Send(ctx, recipient, body)
		if err != nil {
			return &domain.DeliveryResult{Channel: domain.ChannelSMS, Provider: "twilio", Reason: domain.DeliveryUnknown}
		}
		return result
	case domain.ChannelEmail:
		body := fmt.Sprintf(
			"<p>Your Zintra verification code is <strong>%s</strong>.</p><p>It expires in %d minutes. If you did not request this code, ignore this email.</p>",
			code, minutes)
		result, err := s.emailSender.Send(ctx, recipient, purposeSubjects[purpose], body)
		if err != nil {
			return &domain.DeliveryResult{Channel: domain.ChannelEmail, Provider: "smtp", Reason: domain.DeliveryUnknown}
		}
		return result
	default:
		return &domain.DeliveryResult{Channel: channel, Provider: "none", Reason: domain.DeliveryUnknown}
	}
}

func (s *DeliveryServiceImpl) record(recipient string, purpose domain.Purpose, result *domain.DeliveryResult) {
	event := domain.NewAuditEvent(domain.DeliveryAttemptedEvent).
		WithRecipient(recipient, purpose).
		WithMetadata("channel", string(result.Channel)).
		WithMetadata("provider", result.Provider)
	if result.Delivered {
		metrics.DeliveriesTotal.WithLabelValues(string(result.Channel), "ok").Inc()
	} else {
		metrics.DeliveriesTotal.WithLabelValues(string(result.Channel), string(result.Reason)).Inc()
		event.Success = false
		event.Metadata["reason"] = string(result.Reason)
	}
	audit.Emit(event)

	if s.journal == nil {
		return
	}
	rec := &domain.DeliveryRecord{
		ID:          ulid.Make().String(),
		Recipient:   recipient,
		Purpose:     purpose,
		Channel:     result.Channel,
		Provider:    result.Provider,
		ProviderRef: result.ProviderRef,
		Delivered:   result.Delivered,
		CreatedAt:   time.Now().UTC(),
	}
	if !result.Delivered {
		rec.Reason = result.Reason
	}
	if err := s.journal.Append(rec); err != nil {
		log.Printf("DELIVERY_JOURNAL_ERROR: id=%s err=%v", rec.ID, err)
	}
}
