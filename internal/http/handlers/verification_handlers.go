package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/audit"
	"github.com/JobMwaura/zintra-sub009/internal/metrics"
)

// VerificationHandlers handles OTP issuance and validation HTTP requests.
type VerificationHandlers struct {
	verifySvc   domain.VerificationService
	rateLimiter domain.RateLimiter
	deliverySvc domain.DeliveryService
}

// NewVerificationHandlers creates new verification handlers
func NewVerificationHandlers(verifySvc domain.VerificationService, rateLimiter domain.RateLimiter, deliverySvc domain.DeliveryService) *VerificationHandlers {
	return &VerificationHandlers{
		verifySvc:   verifySvc,
		rateLimiter: rateLimiter,
		deliverySvc: deliverySvc,
	}
}

// RequestCodeRequest represents a code issuance request
type RequestCodeRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Purpose   string `json:"purpose" binding:"required"`
	Channel   string `json:"channel" binding:"required"`
}

// SubmitCodeRequest represents a code submission
type SubmitCodeRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Purpose   string `json:"purpose" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// RequestCode handles POST /verify/request. The rate limiter runs before the
// store is touched, so a blocked request never supersedes a pending code.
func (h *VerificationHandlers) RequestCode(c *gin.Context) {
	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purpose := domain.Purpose(req.Purpose)
	channel := domain.Channel(req.Channel)
	if !domain.ValidPurpose(purpose) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown purpose", "code": "unknown_purpose"})
		return
	}
	if !domain.ValidChannel(channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel", "code": "unknown_channel"})
		return
	}

	allowed, err := h.rateLimiter.CheckAndRecord(c.Request.Context(), req.Recipient, purpose)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}
	if !allowed {
		metrics.RateLimitedTotal.WithLabelValues(req.Purpose).Inc()
		audit.Emit(domain.NewAuditEvent(domain.CodeRateLimitedEvent).WithRecipient(req.Recipient, purpose).WithError(domain.ErrRateLimited))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many code requests, try again later", "code": "rate_limited"})
		return
	}

	issued, err := h.verifySvc.Issue(c.Request.Context(), req.Recipient, purpose, channel)
	if err != nil {
		audit.Emit(domain.NewAuditEvent(domain.CodeIssueFailureEvent).WithRecipient(req.Recipient, purpose).WithError(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification code"})
		return
	}
	metrics.CodesIssuedTotal.WithLabelValues(req.Purpose, req.Channel).Inc()

	result, err := h.deliverySvc.Deliver(c.Request.Context(), req.Recipient, purpose, issued.Code, channel)
	if err != nil {
		var de *domain.DeliveryError
		if errors.As(err, &de) {
			audit.Emit(domain.NewAuditEvent(domain.DeliveryFailedEvent).
				WithRecipient(req.Recipient, purpose).
				WithMetadata("provider", de.Provider).
				WithMetadata("reason", string(de.Reason)).
				WithError(de))
			// The stored code stays valid; the caller may retry delivery by
			// requesting again once their own retry budget allows.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "Failed to deliver verification code",
				"code":     "delivery_failed",
				"provider": de.Provider,
				"reason":   string(de.Reason),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deliver verification code"})
		return
	}

	audit.Emit(domain.NewAuditEvent(domain.CodeIssuedEvent).
		WithRecipient(req.Recipient, purpose).
		WithMetadata("channel", string(result.Channel)).
		WithMetadata("provider_ref", result.ProviderRef))

	c.JSON(http.StatusAccepted, gin.H{
		"data": gin.H{
			"message":    "Verification code sent",
			"channel":    string(result.Channel),
			"expires_at": issued.Request.ExpiresAt,
		},
	})
}

// SubmitCode handles POST /verify/submit. Every failure kind maps to its own
// status and stable code string so the UI can tell wrong-code from expired
// from too-many-attempts.
func (h *VerificationHandlers) SubmitCode(c *gin.Context) {
	var req SubmitCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purpose := domain.Purpose(req.Purpose)
	key, err := h.verifySvc.Validate(c.Request.Context(), req.Recipient, purpose, req.Code)
	if err != nil {
		audit.Emit(domain.NewAuditEvent(domain.CodeValidationFailed).WithRecipient(req.Recipient, purpose).WithError(err))
		h.renderValidationError(c, err)
		return
	}

	metrics.ValidationsTotal.WithLabelValues("success").Inc()
	audit.Emit(domain.NewAuditEvent(domain.CodeValidatedEvent).
		WithRecipient(req.Recipient, purpose).
		WithMetadata("verification_key", key))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":          "Verification successful",
			"verification_key": key,
		},
	})
}

func (h *VerificationHandlers) renderValidationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownPurpose):
		metrics.ValidationsTotal.WithLabelValues("unknown_purpose").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown purpose", "code": "unknown_purpose"})
	case errors.Is(err, domain.ErrCodeNotFound):
		metrics.ValidationsTotal.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending verification, request a new code", "code": "not_found"})
	case errors.Is(err, domain.ErrCodeExpired):
		metrics.ValidationsTotal.WithLabelValues("expired").Inc()
		c.JSON(http.StatusGone, gin.H{"error": "Code expired, request a new one", "code": "expired"})
	case errors.Is(err, domain.ErrCodeMismatch):
		metrics.ValidationsTotal.WithLabelValues("mismatch").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wrong code", "code": "mismatch"})
	case errors.Is(err, domain.ErrAttemptsExhausted):
		metrics.ValidationsTotal.WithLabelValues("attempts_exhausted").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many wrong attempts, request a new code", "code": "attempts_exhausted"})
	case errors.Is(err, domain.ErrAlreadyConsumed):
		metrics.ValidationsTotal.WithLabelValues("already_consumed").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "Code already used", "code": "already_consumed"})
	default:
		metrics.ValidationsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}
