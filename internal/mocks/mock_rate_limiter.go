package mocks

import (
	"context"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockRateLimiter implements domain.RateLimiter for testing
type MockRateLimiter struct {
	CheckAndRecordFunc func(ctx context.Context, recipient string, purpose domain.Purpose) (bool, error)
}

// NewMockRateLimiter creates a new MockRateLimiter with default behaviors
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

// CheckAndRecord checks and records an issuance attempt
func (m *MockRateLimiter) CheckAndRecord(ctx context.Context, recipient string, purpose domain.Purpose) (bool, error) {
	if m.CheckAndRecordFunc != nil {
		return m.CheckAndRecordFunc(ctx, recipient, purpose)
	}
	// Default behavior: always allowed
	return true, nil
}

// Compile-time interface compliance verification
var _ domain.RateLimiter = (*MockRateLimiter)(nil)
