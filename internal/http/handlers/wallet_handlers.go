package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// WalletHandlers handles ZCC wallet HTTP requests.
type WalletHandlers struct {
	ledgerSvc domain.LedgerService
}

// NewWalletHandlers creates new wallet handlers
func NewWalletHandlers(ledgerSvc domain.LedgerService) *WalletHandlers {
	return &WalletHandlers{ledgerSvc: ledgerSvc}
}

// SpendRequest represents a credit spend for a verified action
type SpendRequest struct {
	SpendType       string `json:"spend_type" binding:"required"`
	VerificationKey string `json:"verification_key" binding:"required"`
}

// Spend handles POST /wallet/spend. The verification key doubles as the
// idempotency key, so retries (and double-clicks) settle exactly once.
func (h *WalletHandlers) Spend(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return
	}

	var req SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.ledgerSvc.Settle(c.Request.Context(), accountID.(string), domain.SpendType(req.SpendType), req.VerificationKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownSpendType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown spend type", "code": "unknown_spend_type"})
		case errors.Is(err, domain.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found", "code": "wallet_not_found"})
		case errors.Is(err, domain.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient ZCC credits", "code": "insufficient_credits"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle spend"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"debited":         result.Debited,
			"already_settled": result.AlreadySettled,
			"amount":          result.Amount,
			"new_balance":     result.NewBalance,
		},
	})
}

// Balance handles GET /wallet/balance.
func (h *WalletHandlers) Balance(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return
	}

	balance, err := h.ledgerSvc.Balance(c.Request.Context(), accountID.(string))
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found", "code": "wallet_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"account_id": accountID,
			"balance":    balance,
		},
	})
}
