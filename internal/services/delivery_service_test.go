package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/mocks"
)

func TestDeliveryServiceImpl_Deliver(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		channel         domain.Channel
		fallback        bool
		setupMocks      func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender)
		expectDelivered bool
		expectChannel   domain.Channel
		expectReason    domain.DeliveryReason
		expectRecords   int
	}{
		{
			name:    "sms delivered",
			channel: domain.ChannelSMS,
			setupMocks: func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender) {
			},
			expectDelivered: true,
			expectChannel:   domain.ChannelSMS,
			expectRecords:   1,
		},
		{
			name:    "email delivered",
			channel: domain.ChannelEmail,
			setupMocks: func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender) {
			},
			expectDelivered: true,
			expectChannel:   domain.ChannelEmail,
			expectRecords:   1,
		},
		{
			name:    "sms failure without fallback surfaces provider reason",
			channel: domain.ChannelSMS,
			setupMocks: func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender) {
				sms.SendFunc = func(ctx context.Context, to, body string) (*domain.DeliveryResult, error) {
					return &domain.DeliveryResult{Channel: domain.ChannelSMS, Provider: "twilio", Reason: domain.DeliveryQuotaExceeded}, nil
				}
			},
			expectDelivered: false,
			expectChannel:   domain.ChannelSMS,
			expectReason:    domain.DeliveryQuotaExceeded,
			expectRecords:   1,
		},
		{
			name:     "sms failure falls back to email when configured",
			channel:  domain.ChannelSMS,
			fallback: true,
			setupMocks: func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender) {
				sms.SendFunc = func(ctx context.Context, to, body string) (*domain.DeliveryResult, error) {
					return &domain.DeliveryResult{Channel: domain.ChannelSMS, Provider: "twilio", Reason: domain.DeliveryProviderUnavailable}, nil
				}
			},
			expectDelivered: true,
			expectChannel:   domain.ChannelEmail,
			expectRecords:   2,
		},
		{
			name:     "both channels failing reports the fallback failure",
			channel:  domain.ChannelSMS,
			fallback: true,
			setupMocks: func(sms *mocks.MockSMSSender, email *mocks.MockEmailSender) {
				sms.SendFunc = func(ctx context.Context, to, body string) (*domain.DeliveryResult, error) {
					return &domain.DeliveryResult{Channel: domain.ChannelSMS, Provider: "twilio", Reason: domain.DeliveryProviderUnavailable}, nil
				}
				email.SendFunc = func(ctx context.Context, to, subject, body string) (*domain.DeliveryResult, error) {
					return &domain.DeliveryResult{Channel: domain.ChannelEmail, Provider: "smtp", Reason: domain.DeliveryInvalidRecipient}, nil
				}
			},
			expectDelivered: false,
			expectChannel:   domain.ChannelEmail,
			expectReason:    domain.DeliveryInvalidRecipient,
			expectRecords:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sms := mocks.NewMockSMSSender()
			email := mocks.NewMockEmailSender()
			journal := mocks.NewMockDeliveryJournal()
			tt.setupMocks(sms, email)

			svc := NewDeliveryService(sms, email, journal, 5*time.Minute, tt.fallback)

			result, err := svc.Deliver(ctx, "+254712345678", domain.PurposeRegistration, "123456", tt.channel)

			if tt.expectDelivered {
				if err != nil {
					t.Fatalf("Deliver() error: %v", err)
				}
				if !result.Delivered {
					t.Fatal("expected delivered result")
				}
			} else {
				var de *domain.DeliveryError
				if !errors.As(err, &de) {
					t.Fatalf("expected *domain.DeliveryError, got %v", err)
				}
				if de.Reason != tt.expectReason {
					t.Errorf("expected reason %q, got %q", tt.expectReason, de.Reason)
				}
			}

			if result.Channel != tt.expectChannel {
				t.Errorf("expected channel %q, got %q", tt.expectChannel, result.Channel)
			}

			if got := len(journal.Records()); got != tt.expectRecords {
				t.Errorf("expected %d journal records, got %d", tt.expectRecords, got)
			}
		})
	}
}

func TestDeliveryServiceImpl_MessageCarriesCodeAndTTL(t *testing.T) {
	ctx := context.Background()
	sms := mocks.NewMockSMSSender()
	email := mocks.NewMockEmailSender()

	svc := NewDeliveryService(sms, email, nil, 5*time.Minute, false)

	if _, err := svc.Deliver(ctx, "+254712345678", domain.PurposeRegistration, "042137", domain.ChannelSMS); err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}

	if len(sms.Sent) != 1 {
		t.Fatalf("expected one SMS, got %d", len(sms.Sent))
	}
	body := sms.Sent[0]
	if !strings.Contains(body, "042137") {
		t.Errorf("SMS body missing code: %q", body)
	}
	if !strings.Contains(body, "5 minutes") {
		t.Errorf("SMS body missing validity window: %q", body)
	}
}
