package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// WalletRepositoryImpl implements domain.WalletRepository using GORM.
type WalletRepositoryImpl struct {
	db *gorm.DB
}

// DBWallet represents the database model for Wallet (with GORM tags)
type DBWallet struct {
	AccountID string    `gorm:"primaryKey;size:64"`
	Balance   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBWallet) TableName() string {
	return "wallets"
}

// DBLedgerEntry represents the database model for LedgerEntry. The unique
// index on IdempotencyKey is the exactly-once guarantee for settlement.
type DBLedgerEntry struct {
	ID             string    `gorm:"primaryKey;size:26"`
	AccountID      string    `gorm:"index;size:64"`
	SpendType      string    `gorm:"index;size:64"`
	Amount         int64     `gorm:"not null"`
	BalanceAfter   int64     `gorm:"not null"`
	IdempotencyKey string    `gorm:"uniqueIndex;size:64"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBLedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) domain.WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

// FindByAccountID implements domain.WalletRepository
func (r *WalletRepositoryImpl) FindByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	var dbWallet DBWallet
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&dbWallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return walletToDomain(&dbWallet), nil
}

// Credit implements domain.WalletRepository. It creates the wallet on first
// top-up.
func (r *WalletRepositoryImpl) Credit(ctx context.Context, accountID string, amount int64) (*domain.Wallet, error) {
	var dbWallet DBWallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("account_id = ?", accountID).First(&dbWallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dbWallet = DBWallet{AccountID: accountID, Balance: amount}
			return tx.Create(&dbWallet).Error
		}
		if err != nil {
			return err
		}
		res := tx.Model(&DBWallet{}).Where("account_id = ?", accountID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		return tx.Where("account_id = ?", accountID).First(&dbWallet).Error
	})
	if err != nil {
		return nil, err
	}
	return walletToDomain(&dbWallet), nil
}

// DebitOnce implements domain.WalletRepository. The debit and the ledger
// insert run in one transaction; the conditional UPDATE refuses to drive the
// balance negative and the unique idempotency key refuses a second debit for
// the same verification.
func (r *WalletRepositoryImpl) DebitOnce(ctx context.Context, entry *domain.LedgerEntry) (*domain.Wallet, error) {
	var dbWallet DBWallet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DBLedgerEntry
		err := tx.Where("idempotency_key = ?", entry.IdempotencyKey).First(&existing).Error
		if err == nil {
			return domain.ErrAlreadySettled
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Where("account_id = ?", entry.AccountID).First(&dbWallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		res := tx.Model(&DBWallet{}).
			Where("account_id = ? AND balance >= ?", entry.AccountID, entry.Amount).
			Update("balance", gorm.Expr("balance - ?", entry.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientCredits
		}

		if err := tx.Where("account_id = ?", entry.AccountID).First(&dbWallet).Error; err != nil {
			return err
		}

		dbEntry := &DBLedgerEntry{
			ID:             entry.ID,
			AccountID:      entry.AccountID,
			SpendType:      string(entry.SpendType),
			Amount:         entry.Amount,
			BalanceAfter:   dbWallet.Balance,
			IdempotencyKey: entry.IdempotencyKey,
			CreatedAt:      entry.CreatedAt,
		}
		if err := tx.Create(dbEntry).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadySettled
			}
			return err
		}

		entry.BalanceAfter = dbWallet.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	return walletToDomain(&dbWallet), nil
}

// FindEntryByIdempotencyKey implements domain.WalletRepository
func (r *WalletRepositoryImpl) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	var dbEntry DBLedgerEntry
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&dbEntry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entryToDomain(&dbEntry), nil
}

func walletToDomain(w *DBWallet) *domain.Wallet {
	return &domain.Wallet{
		AccountID: w.AccountID,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func entryToDomain(e *DBLedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:             e.ID,
		AccountID:      e.AccountID,
		SpendType:      domain.SpendType(e.SpendType),
		Amount:         e.Amount,
		BalanceAfter:   e.BalanceAfter,
		IdempotencyKey: e.IdempotencyKey,
		CreatedAt:      e.CreatedAt,
	}
}

// isUniqueViolation detects the Postgres duplicate-key error raised when two
// transactions race the same idempotency key through the pre-check.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "23505")
}
