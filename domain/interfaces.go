package domain

import "context"

// CodeGenerator produces fixed-width numeric verification codes from a
// cryptographically secure randomness source.
type CodeGenerator interface {
	Generate() (string, error)
}

// VerificationService owns the lifecycle of verification requests.
type VerificationService interface {
	// Issue supersedes any pending request for (recipient, purpose), persists
	// a fresh one and returns it together with the plaintext code.
	Issue(ctx context.Context, recipient string, purpose Purpose, channel Channel) (*IssueResult, error)
	// Validate checks a submitted code. On success it marks the request
	// consumed, exactly once across concurrent callers, and returns the
	// idempotency key for a subsequent credit spend.
	Validate(ctx context.Context, recipient string, purpose Purpose, code string) (string, error)
	// Peek returns the pending request for the key without mutating it.
	Peek(ctx context.Context, recipient string, purpose Purpose) (*VerificationRequest, error)
}

// RateLimiter bounds how often a (recipient, purpose) pair may request codes.
type RateLimiter interface {
	// CheckAndRecord returns true and records the attempt when issuance is
	// allowed. A blocked attempt records nothing.
	CheckAndRecord(ctx context.Context, recipient string, purpose Purpose) (bool, error)
}

// DeliveryService ships a code to a recipient over the requested channel,
// applying the configured fallback policy when the primary channel fails.
type DeliveryService interface {
	Deliver(ctx context.Context, recipient string, purpose Purpose, code string, channel Channel) (*DeliveryResult, error)
}

// SMSSender is the carrier-facing half of the SMS channel.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (*DeliveryResult, error)
}

// EmailSender is the mail-facing half of the email channel.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (*DeliveryResult, error)
}

// DeliveryJournal records every delivery attempt for operator inspection.
type DeliveryJournal interface {
	Append(record *DeliveryRecord) error
	Recent(limit int) ([]DeliveryRecord, error)
}

// LedgerService debits credits for verified actions, exactly once per
// idempotency key.
type LedgerService interface {
	Settle(ctx context.Context, accountID string, spendType SpendType, idempotencyKey string) (*SpendResult, error)
	Balance(ctx context.Context, accountID string) (int64, error)
	Cost(spendType SpendType) (int64, error)
}

// WalletRepository defines wallet and ledger data access.
type WalletRepository interface {
	FindByAccountID(ctx context.Context, accountID string) (*Wallet, error)
	Credit(ctx context.Context, accountID string, amount int64) (*Wallet, error)
	// DebitOnce atomically decrements the balance and appends a ledger entry
	// keyed by idempotencyKey. It fails with ErrAlreadySettled when the key
	// was used before and with ErrInsufficientCredits when the balance is
	// short; neither failure mutates state.
	DebitOnce(ctx context.Context, entry *LedgerEntry) (*Wallet, error)
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*LedgerEntry, error)
}

// TokenService validates the upstream-issued bearer tokens that carry
// account identity into this service.
type TokenService interface {
	GenerateToken(accountID, role string) (string, error)
	ValidateToken(token string) (*AccountClaims, error)
}

// CasbinEnforcer is the slice of the Casbin enforcer used by middleware and
// the admin policy endpoints.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
