package domain

import (
	"errors"
	"fmt"
)

// Verification errors
var (
	ErrRateLimited       = errors.New("verification rate limit exceeded")
	ErrCodeNotFound      = errors.New("no pending verification for recipient")
	ErrCodeExpired       = errors.New("verification code has expired")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrAttemptsExhausted = errors.New("maximum verification attempts exceeded")
	ErrAlreadyConsumed   = errors.New("verification already consumed")
	ErrUnknownPurpose    = errors.New("unknown verification purpose")
	ErrUnknownChannel    = errors.New("unknown delivery channel")
)

// Credit ledger errors
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrAlreadySettled      = errors.New("idempotency key already settled")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrUnknownSpendType    = errors.New("unknown spend type")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// DeliveryError reports a provider failure with its normalized reason.
// It is returned by the delivery service when every configured channel
// (including a fallback, if any) has failed.
type DeliveryError struct {
	Provider string
	Reason   DeliveryReason
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed: provider=%s reason=%s", e.Provider, e.Reason)
}

// ConfigError reports a missing or invalid configuration value. It is fatal
// at startup and must never be folded into a generic delivery failure.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration missing: %s", e.Field)
}
