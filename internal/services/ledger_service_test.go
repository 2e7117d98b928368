package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/mocks"
)

var testCatalog = map[domain.SpendType]int64{
	domain.SpendRegistrationUnlock: 10,
	domain.SpendRFQUnlock:          25,
	domain.SpendJobPost:            15,
	domain.SpendContactReveal:      5,
}

func TestLedgerServiceImpl_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("debits the catalog cost", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		repo.SeedWallet("acct-1", 100)
		svc := NewLedgerService(repo, testCatalog)

		result, err := svc.Settle(ctx, "acct-1", domain.SpendRFQUnlock, "key-1")
		if err != nil {
			t.Fatalf("Settle() error: %v", err)
		}
		if !result.Debited || result.AlreadySettled {
			t.Errorf("expected fresh debit, got %+v", result)
		}
		if result.Amount != 25 {
			t.Errorf("expected amount 25, got %d", result.Amount)
		}
		if result.NewBalance != 75 {
			t.Errorf("expected balance 75, got %d", result.NewBalance)
		}
	})

	t.Run("insufficient credits leaves the balance unchanged", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		repo.SeedWallet("acct-1", 5)
		svc := NewLedgerService(repo, testCatalog)

		_, err := svc.Settle(ctx, "acct-1", domain.SpendRegistrationUnlock, "key-1")
		if !errors.Is(err, domain.ErrInsufficientCredits) {
			t.Fatalf("expected ErrInsufficientCredits, got %v", err)
		}

		balance, err := svc.Balance(ctx, "acct-1")
		if err != nil {
			t.Fatalf("Balance() error: %v", err)
		}
		if balance != 5 {
			t.Errorf("expected balance 5, got %d", balance)
		}
	})

	t.Run("unknown spend type", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		repo.SeedWallet("acct-1", 100)
		svc := NewLedgerService(repo, testCatalog)

		_, err := svc.Settle(ctx, "acct-1", domain.SpendType("premium_listing"), "key-1")
		if !errors.Is(err, domain.ErrUnknownSpendType) {
			t.Fatalf("expected ErrUnknownSpendType, got %v", err)
		}
	})

	t.Run("missing wallet", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		svc := NewLedgerService(repo, testCatalog)

		_, err := svc.Settle(ctx, "acct-unknown", domain.SpendContactReveal, "key-1")
		if !errors.Is(err, domain.ErrWalletNotFound) {
			t.Fatalf("expected ErrWalletNotFound, got %v", err)
		}
	})

	t.Run("replayed key settles exactly once", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		repo.SeedWallet("acct-1", 100)
		svc := NewLedgerService(repo, testCatalog)

		first, err := svc.Settle(ctx, "acct-1", domain.SpendJobPost, "key-replay")
		if err != nil {
			t.Fatalf("first Settle() error: %v", err)
		}
		second, err := svc.Settle(ctx, "acct-1", domain.SpendJobPost, "key-replay")
		if err != nil {
			t.Fatalf("second Settle() error: %v", err)
		}

		if !second.AlreadySettled || second.Debited {
			t.Errorf("expected replay result, got %+v", second)
		}
		if second.Amount != first.Amount || second.NewBalance != first.NewBalance {
			t.Errorf("replay diverged from original: first=%+v second=%+v", first, second)
		}

		balance, _ := svc.Balance(ctx, "acct-1")
		if balance != 85 {
			t.Errorf("expected balance 85 after one debit, got %d", balance)
		}
	})

	t.Run("distinct keys each debit", func(t *testing.T) {
		repo := mocks.NewMockWalletRepository()
		repo.SeedWallet("acct-1", 100)
		svc := NewLedgerService(repo, testCatalog)

		if _, err := svc.Settle(ctx, "acct-1", domain.SpendContactReveal, "key-a"); err != nil {
			t.Fatalf("Settle(key-a) error: %v", err)
		}
		if _, err := svc.Settle(ctx, "acct-1", domain.SpendContactReveal, "key-b"); err != nil {
			t.Fatalf("Settle(key-b) error: %v", err)
		}

		balance, _ := svc.Balance(ctx, "acct-1")
		if balance != 90 {
			t.Errorf("expected balance 90 after two debits, got %d", balance)
		}
	})
}

func TestLedgerServiceImpl_Settle_ConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockWalletRepository()
	repo.SeedWallet("acct-1", 100)
	svc := NewLedgerService(repo, testCatalog)

	const workers = 8
	results := make([]*domain.SpendResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Settle(ctx, "acct-1", domain.SpendRegistrationUnlock, "key-race")
		}(i)
	}
	wg.Wait()

	debits := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: Settle() error: %v", i, errs[i])
		}
		if results[i].Debited {
			debits++
		} else if !results[i].AlreadySettled {
			t.Errorf("worker %d: neither debited nor already settled: %+v", i, results[i])
		}
		if results[i].NewBalance != 90 {
			t.Errorf("worker %d: expected balance 90, got %d", i, results[i].NewBalance)
		}
	}
	if debits != 1 {
		t.Errorf("expected exactly one debit, got %d", debits)
	}

	balance, _ := svc.Balance(ctx, "acct-1")
	if balance != 90 {
		t.Errorf("expected final balance 90, got %d", balance)
	}
}

func TestLedgerServiceImpl_Cost(t *testing.T) {
	svc := NewLedgerService(mocks.NewMockWalletRepository(), testCatalog)

	cost, err := svc.Cost(domain.SpendRegistrationUnlock)
	if err != nil {
		t.Fatalf("Cost() error: %v", err)
	}
	if cost != 10 {
		t.Errorf("expected cost 10, got %d", cost)
	}

	if _, err := svc.Cost(domain.SpendType("bogus")); !errors.Is(err, domain.ErrUnknownSpendType) {
		t.Errorf("expected ErrUnknownSpendType, got %v", err)
	}
}
