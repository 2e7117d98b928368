package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/audit"
	"github.com/JobMwaura/zintra-sub009/internal/metrics"
)

// LedgerServiceImpl implements domain.LedgerService over the wallet
// repository. Costs come from the fixed spend catalog; the repository's
// conditional debit plus the unique idempotency key give exactly-once
// settlement under concurrent retries.
type LedgerServiceImpl struct {
	walletRepo domain.WalletRepository
	catalog    map[domain.SpendType]int64
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(walletRepo domain.WalletRepository, catalog map[domain.SpendType]int64) domain.LedgerService {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		catalog:    catalog,
	}
}

// Cost implements domain.LedgerService.
func (s *LedgerServiceImpl) Cost(spendType domain.SpendType) (int64, error) {
	cost, ok := s.catalog[spendType]
	if !ok {
		return 0, domain.ErrUnknownSpendType
	}
	return cost, nil
}

// Settle implements domain.LedgerService. A replayed idempotency key returns
// the original outcome with AlreadySettled set instead of a second debit.
func (s *LedgerServiceImpl) Settle(ctx context.Context, accountID string, spendType domain.SpendType, idempotencyKey string) (*domain.SpendResult, error) {
	cost, err := s.Cost(spendType)
	if err != nil {
		return nil, err
	}

	if prior, err := s.walletRepo.FindEntryByIdempotencyKey(ctx, idempotencyKey); err == nil {
		audit.Emit(domain.NewAuditEvent(domain.SpendReplayedEvent).
			WithAccount(accountID).
			WithMetadata("spend_type", string(spendType)).
			WithMetadata("idempotency_key", idempotencyKey))
		return &domain.SpendResult{
			AlreadySettled: true,
			Amount:         prior.Amount,
			NewBalance:     prior.BalanceAfter,
		}, nil
	} else if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:             ulid.Make().String(),
		AccountID:      accountID,
		SpendType:      spendType,
		Amount:         cost,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}

	wallet, err := s.walletRepo.DebitOnce(ctx, entry)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySettled) {
			// Lost the race to a concurrent retry; surface its outcome.
			if prior, ferr := s.walletRepo.FindEntryByIdempotencyKey(ctx, idempotencyKey); ferr == nil {
				return &domain.SpendResult{
					AlreadySettled: true,
					Amount:         prior.Amount,
					NewBalance:     prior.BalanceAfter,
				}, nil
			}
			return nil, err
		}
		audit.Emit(domain.NewAuditEvent(domain.CreditsDebitFailed).
			WithAccount(accountID).
			WithMetadata("spend_type", string(spendType)).
			WithError(err))
		return nil, err
	}

	metrics.CreditDebitsTotal.WithLabelValues(string(spendType)).Inc()
	audit.Emit(domain.NewAuditEvent(domain.CreditsDebitedEvent).
		WithAccount(accountID).
		WithMetadata("spend_type", string(spendType)).
		WithMetadata("amount", cost).
		WithMetadata("balance", wallet.Balance).
		WithMetadata("idempotency_key", idempotencyKey))

	return &domain.SpendResult{
		Debited:    true,
		Amount:     cost,
		NewBalance: wallet.Balance,
	}, nil
}

// Balance implements domain.LedgerService.
func (s *LedgerServiceImpl) Balance(ctx context.Context, accountID string) (int64, error) {
	wallet, err := s.walletRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}
