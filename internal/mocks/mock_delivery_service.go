package mocks

import (
	"context"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockDeliveryService implements domain.DeliveryService for testing
type MockDeliveryService struct {
	DeliverFunc func(ctx context.Context, recipient string, purpose domain.Purpose, code string, channel domain.Channel) (*domain.DeliveryResult, error)
}

// NewMockDeliveryService creates a new MockDeliveryService with default behaviors
func NewMockDeliveryService() *MockDeliveryService {
	return &MockDeliveryService{}
}

// Deliver ships a code over the requested channel
func (m *MockDeliveryService) Deliver(ctx context.Context, recipient string, purpose domain.Purpose, code string, channel domain.Channel) (*domain.DeliveryResult, error) {
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, recipient, purpose, code, channel)
	}
	// Default behavior: delivered (no real provider called in tests)
	return &domain.DeliveryResult{
		Delivered:   true,
		Channel:     channel,
		Provider:    "mock",
		ProviderRef: "ref_test",
	}, nil
}

// Compile-time interface compliance verification
var _ domain.DeliveryService = (*MockDeliveryService)(nil)
