package mocks

import (
	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateTokenFunc func(accountID, role string) (string, error)
	ValidateTokenFunc func(token string) (*domain.AccountClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateToken mints a token
func (m *MockTokenService) GenerateToken(accountID, role string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(accountID, role)
	}
	return "token_" + accountID, nil
}

// ValidateToken validates a token
func (m *MockTokenService) ValidateToken(token string) (*domain.AccountClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	return &domain.AccountClaims{AccountID: "acct_test", Role: "vendor"}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
