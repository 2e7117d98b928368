package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Verification events
	CodeIssuedEvent        AuditEventType = "CODE_ISSUED"
	CodeIssueFailureEvent  AuditEventType = "CODE_ISSUE_FAILED"
	CodeValidatedEvent     AuditEventType = "CODE_VALIDATED"
	CodeValidationFailed   AuditEventType = "CODE_VALIDATION_FAILED"
	CodeRateLimitedEvent   AuditEventType = "CODE_RATE_LIMITED"
	DeliveryAttemptedEvent AuditEventType = "DELIVERY_ATTEMPTED"
	DeliveryFailedEvent    AuditEventType = "DELIVERY_FAILED"

	// Credit events
	CreditsDebitedEvent    AuditEventType = "CREDITS_DEBITED"
	CreditsDebitFailed     AuditEventType = "CREDITS_DEBIT_FAILED"
	CreditsToppedUpEvent   AuditEventType = "CREDITS_TOPPED_UP"
	SpendReplayedEvent     AuditEventType = "SPEND_REPLAYED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	AccountID string                 `json:"account_id,omitempty"`
	Recipient string                 `json:"recipient,omitempty"`
	Purpose   Purpose                `json:"purpose,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithRecipient sets the recipient field
func (e *AuditEvent) WithRecipient(recipient string, purpose Purpose) *AuditEvent {
	e.Recipient = recipient
	e.Purpose = purpose
	return e
}

// WithAccount sets the account field
func (e *AuditEvent) WithAccount(accountID string) *AuditEvent {
	e.AccountID = accountID
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
