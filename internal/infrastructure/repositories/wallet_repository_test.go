package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect database")

	require.NoError(t, db.AutoMigrate(&DBWallet{}, &DBLedgerEntry{}), "failed to migrate database")
	return db
}

func seedWallet(t *testing.T, db *gorm.DB, accountID string, balance int64) {
	t.Helper()
	require.NoError(t, db.Create(&DBWallet{
		AccountID: accountID,
		Balance:   balance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}).Error)
}

func debitEntry(accountID string, amount int64, key string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:             "01J" + key,
		AccountID:      accountID,
		SpendType:      domain.SpendRegistrationUnlock,
		Amount:         amount,
		IdempotencyKey: key,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestWalletRepositoryImpl_FindByAccountID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	seedWallet(t, db, "acct-1", 50)

	wallet, err := repo.FindByAccountID(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", wallet.AccountID)
	assert.Equal(t, int64(50), wallet.Balance)

	_, err = repo.FindByAccountID(ctx, "acct-missing")
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestWalletRepositoryImpl_Credit(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	// First top-up creates the wallet.
	wallet, err := repo.Credit(ctx, "acct-1", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), wallet.Balance)

	wallet, err = repo.Credit(ctx, "acct-1", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Balance)
}

func TestWalletRepositoryImpl_DebitOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("debits and records the ledger entry", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewWalletRepository(db)
		seedWallet(t, db, "acct-1", 50)

		entry := debitEntry("acct-1", 10, "key-1")
		wallet, err := repo.DebitOnce(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(40), wallet.Balance)
		assert.Equal(t, int64(40), entry.BalanceAfter)

		stored, err := repo.FindEntryByIdempotencyKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, int64(10), stored.Amount)
		assert.Equal(t, int64(40), stored.BalanceAfter)
		assert.Equal(t, domain.SpendRegistrationUnlock, stored.SpendType)
	})

	t.Run("refuses to drive the balance negative", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewWalletRepository(db)
		seedWallet(t, db, "acct-1", 5)

		_, err := repo.DebitOnce(ctx, debitEntry("acct-1", 10, "key-1"))
		assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

		wallet, err := repo.FindByAccountID(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), wallet.Balance, "failed debit must not change the balance")
	})

	t.Run("exact balance is spendable", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewWalletRepository(db)
		seedWallet(t, db, "acct-1", 10)

		wallet, err := repo.DebitOnce(ctx, debitEntry("acct-1", 10, "key-1"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), wallet.Balance)
	})

	t.Run("second debit for the same key is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewWalletRepository(db)
		seedWallet(t, db, "acct-1", 50)

		_, err := repo.DebitOnce(ctx, debitEntry("acct-1", 10, "key-1"))
		require.NoError(t, err)

		_, err = repo.DebitOnce(ctx, debitEntry("acct-1", 10, "key-1"))
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)

		wallet, err := repo.FindByAccountID(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, int64(40), wallet.Balance, "second debit must not touch the balance")
	})

	t.Run("missing wallet", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewWalletRepository(db)

		_, err := repo.DebitOnce(ctx, debitEntry("acct-missing", 10, "key-1"))
		assert.ErrorIs(t, err, domain.ErrWalletNotFound)
	})
}

func TestWalletRepositoryImpl_FindEntryByIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	_, err := repo.FindEntryByIdempotencyKey(ctx, "no-such-key")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}
