package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockWalletRepository implements domain.WalletRepository for testing. With
// no overrides set it behaves as an in-memory wallet store with the same
// exactly-once semantics as the GORM implementation, which lets ledger
// service tests exercise races without a database.
type MockWalletRepository struct {
	FindByAccountIDFunc           func(ctx context.Context, accountID string) (*domain.Wallet, error)
	CreditFunc                    func(ctx context.Context, accountID string, amount int64) (*domain.Wallet, error)
	DebitOnceFunc                 func(ctx context.Context, entry *domain.LedgerEntry) (*domain.Wallet, error)
	FindEntryByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.LedgerEntry, error)

	mu      sync.Mutex
	wallets map[string]*domain.Wallet
	entries map[string]*domain.LedgerEntry
}

// NewMockWalletRepository creates a new MockWalletRepository with default behaviors
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
		entries: make(map[string]*domain.LedgerEntry),
	}
}

// SeedWallet installs a wallet with the given balance for the in-memory default behavior
func (m *MockWalletRepository) SeedWallet(accountID string, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[accountID] = &domain.Wallet{AccountID: accountID, Balance: balance, CreatedAt: time.Now(), UpdatedAt: time.Now()}
}

// FindByAccountID finds a wallet by account id
func (m *MockWalletRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	if m.FindByAccountIDFunc != nil {
		return m.FindByAccountIDFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[accountID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

// Credit tops up a wallet, creating it on first use
func (m *MockWalletRepository) Credit(ctx context.Context, accountID string, amount int64) (*domain.Wallet, error) {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, accountID, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[accountID]
	if !ok {
		w = &domain.Wallet{AccountID: accountID, CreatedAt: time.Now()}
		m.wallets[accountID] = w
	}
	w.Balance += amount
	w.UpdatedAt = time.Now()
	copied := *w
	return &copied, nil
}

// DebitOnce debits a wallet exactly once per idempotency key
func (m *MockWalletRepository) DebitOnce(ctx context.Context, entry *domain.LedgerEntry) (*domain.Wallet, error) {
	if m.DebitOnceFunc != nil {
		return m.DebitOnceFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[entry.IdempotencyKey]; exists {
		return nil, domain.ErrAlreadySettled
	}
	w, ok := m.wallets[entry.AccountID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if w.Balance < entry.Amount {
		return nil, domain.ErrInsufficientCredits
	}
	w.Balance -= entry.Amount
	w.UpdatedAt = time.Now()
	entry.BalanceAfter = w.Balance
	stored := *entry
	m.entries[entry.IdempotencyKey] = &stored
	copied := *w
	return &copied, nil
}

// FindEntryByIdempotencyKey looks up a settled ledger entry
func (m *MockWalletRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	if m.FindEntryByIdempotencyKeyFunc != nil {
		return m.FindEntryByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

// Compile-time interface compliance verification
var _ domain.WalletRepository = (*MockWalletRepository)(nil)
