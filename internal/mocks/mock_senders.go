package mocks

import (
	"context"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockSMSSender implements domain.SMSSender for testing
type MockSMSSender struct {
	SendFunc func(ctx context.Context, to, body string) (*domain.DeliveryResult, error)
	Sent     []string
}

// NewMockSMSSender creates a new MockSMSSender with default behaviors
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

// Send sends an SMS message
func (m *MockSMSSender) Send(ctx context.Context, to, body string) (*domain.DeliveryResult, error) {
	m.Sent = append(m.Sent, body)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, body)
	}
	return &domain.DeliveryResult{Delivered: true, Channel: domain.ChannelSMS, Provider: "twilio", ProviderRef: "SMtest"}, nil
}

// MockEmailSender implements domain.EmailSender for testing
type MockEmailSender struct {
	SendFunc func(ctx context.Context, to, subject, body string) (*domain.DeliveryResult, error)
	Sent     []string
}

// NewMockEmailSender creates a new MockEmailSender with default behaviors
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

// Send sends an email message
func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) (*domain.DeliveryResult, error) {
	m.Sent = append(m.Sent, body)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return &domain.DeliveryResult{Delivered: true, Channel: domain.ChannelEmail, Provider: "smtp"}, nil
}

// Compile-time interface compliance verification
var (
	_ domain.SMSSender   = (*MockSMSSender)(nil)
	_ domain.EmailSender = (*MockEmailSender)(nil)
)
