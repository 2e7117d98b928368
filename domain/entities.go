package domain

import "time"

// Purpose scopes a verification to the marketplace action that requested it.
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password_reset"
	PurposeRFQUnlock     Purpose = "rfq_unlock"
)

// ValidPurpose reports whether p is one of the known purposes.
func ValidPurpose(p Purpose) bool {
	switch p {
	case PurposeRegistration, PurposePasswordReset, PurposeRFQUnlock:
		return true
	}
	return false
}

// Channel selects the out-of-band delivery path for a code.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ValidChannel reports whether c is a known delivery channel.
func ValidChannel(c Channel) bool {
	return c == ChannelSMS || c == ChannelEmail
}

// SpendType identifies a priced marketplace action in the ZCC catalog.
type SpendType string

const (
	SpendRegistrationUnlock SpendType = "registration_unlock"
	SpendRFQUnlock          SpendType = "rfq_unlock"
	SpendJobPost            SpendType = "job_post"
	SpendContactReveal      SpendType = "contact_reveal"
)

// VerificationRequest represents one outstanding OTP for a (recipient, purpose) key.
// The plaintext code is never persisted; only its bcrypt hash is stored.
type VerificationRequest struct {
	ID                string    `json:"id"`
	Recipient         string    `json:"recipient"`
	Purpose           Purpose   `json:"purpose"`
	Channel           Channel   `json:"channel"`
	CodeHash          string    `json:"code_hash"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	Consumed          bool      `json:"consumed"`
}

// Expired reports whether the request's logical TTL has elapsed at now.
func (r *VerificationRequest) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// IssueResult pairs the persisted request with the plaintext code that must
// be handed to the delivery adapter and then forgotten.
type IssueResult struct {
	Request *VerificationRequest
	Code    string
}

// DeliveryReason classifies a provider failure.
type DeliveryReason string

const (
	DeliveryInvalidRecipient    DeliveryReason = "invalid_recipient"
	DeliveryProviderUnavailable DeliveryReason = "provider_unavailable"
	DeliveryQuotaExceeded       DeliveryReason = "quota_exceeded"
	DeliveryUnknown             DeliveryReason = "unknown"
)

// DeliveryResult is the normalized outcome of a single provider call.
// Provider failures are carried here as data, never as a panic.
type DeliveryResult struct {
	Delivered   bool
	Channel     Channel
	Provider    string
	ProviderRef string
	Reason      DeliveryReason
}

// DeliveryRecord is the journal entry written for every delivery attempt.
type DeliveryRecord struct {
	ID          string         `json:"id"`
	Recipient   string         `json:"recipient"`
	Purpose     Purpose        `json:"purpose"`
	Channel     Channel        `json:"channel"`
	Provider    string         `json:"provider"`
	ProviderRef string         `json:"provider_ref,omitempty"`
	Delivered   bool           `json:"delivered"`
	Reason      DeliveryReason `json:"reason,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Wallet holds an account's prepaid ZCC credit balance.
type Wallet struct {
	AccountID string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LedgerEntry is one immutable debit against a wallet. IdempotencyKey ties
// the entry to exactly one successful verification event.
type LedgerEntry struct {
	ID             string
	AccountID      string
	SpendType      SpendType
	Amount         int64
	BalanceAfter   int64
	IdempotencyKey string
	CreatedAt      time.Time
}

// SpendResult reports the outcome of a Settle call. AlreadySettled means the
// idempotency key had been used before; NewBalance then reflects the balance
// after the original debit, not a second one.
type SpendResult struct {
	Debited        bool
	AlreadySettled bool
	Amount         int64
	NewBalance     int64
}

// AccountClaims is the identity established upstream by the marketplace's
// auth, carried into this service as a bearer token.
type AccountClaims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
