package mocks

import (
	"context"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockVerificationService implements domain.VerificationService for testing
type MockVerificationService struct {
	IssueFunc    func(ctx context.Context, recipient string, purpose domain.Purpose, channel domain.Channel) (*domain.IssueResult, error)
	ValidateFunc func(ctx context.Context, recipient string, purpose domain.Purpose, code string) (string, error)
	PeekFunc     func(ctx context.Context, recipient string, purpose domain.Purpose) (*domain.VerificationRequest, error)
}

// NewMockVerificationService creates a new MockVerificationService with default behaviors
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

// Issue issues a verification code
func (m *MockVerificationService) Issue(ctx context.Context, recipient string, purpose domain.Purpose, channel domain.Channel) (*domain.IssueResult, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, recipient, purpose, channel)
	}
	return &domain.IssueResult{
		Request: &domain.VerificationRequest{
			ID:        "ver_test",
			Recipient: recipient,
			Purpose:   purpose,
			Channel:   channel,
		},
		Code: "123456",
	}, nil
}

// Validate validates a submitted code
func (m *MockVerificationService) Validate(ctx context.Context, recipient string, purpose domain.Purpose, code string) (string, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, recipient, purpose, code)
	}
	return "ver_test", nil
}

// Peek returns the pending request
func (m *MockVerificationService) Peek(ctx context.Context, recipient string, purpose domain.Purpose) (*domain.VerificationRequest, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, recipient, purpose)
	}
	return nil, domain.ErrCodeNotFound
}

// Compile-time interface compliance verification
var _ domain.VerificationService = (*MockVerificationService)(nil)
