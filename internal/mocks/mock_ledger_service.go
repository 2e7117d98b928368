package mocks

import (
	"context"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockLedgerService implements domain.LedgerService for testing
type MockLedgerService struct {
	SettleFunc  func(ctx context.Context, accountID string, spendType domain.SpendType, idempotencyKey string) (*domain.SpendResult, error)
	BalanceFunc func(ctx context.Context, accountID string) (int64, error)
	CostFunc    func(spendType domain.SpendType) (int64, error)
}

// NewMockLedgerService creates a new MockLedgerService with default behaviors
func NewMockLedgerService() *MockLedgerService {
	return &MockLedgerService{}
}

// Settle debits credits for a verified action
func (m *MockLedgerService) Settle(ctx context.Context, accountID string, spendType domain.SpendType, idempotencyKey string) (*domain.SpendResult, error) {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, accountID, spendType, idempotencyKey)
	}
	return &domain.SpendResult{Debited: true, Amount: 10, NewBalance: 90}, nil
}

// Balance returns the wallet balance
func (m *MockLedgerService) Balance(ctx context.Context, accountID string) (int64, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, accountID)
	}
	return 100, nil
}

// Cost returns the catalog cost for a spend type
func (m *MockLedgerService) Cost(spendType domain.SpendType) (int64, error) {
	if m.CostFunc != nil {
		return m.CostFunc(spendType)
	}
	return 10, nil
}

// Compile-time interface compliance verification
var _ domain.LedgerService = (*MockLedgerService)(nil)
