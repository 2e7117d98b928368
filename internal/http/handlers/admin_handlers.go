package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/audit"
)

// AdminHandlers handles operator endpoints: wallet top-ups, spend catalog,
// delivery journal inspection and Casbin policy management.
type AdminHandlers struct {
	walletRepo domain.WalletRepository
	ledgerSvc  domain.LedgerService
	journal    domain.DeliveryJournal
	enforcer   domain.CasbinEnforcer
	catalog    map[domain.SpendType]int64
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(walletRepo domain.WalletRepository, ledgerSvc domain.LedgerService, journal domain.DeliveryJournal, enforcer domain.CasbinEnforcer, catalog map[domain.SpendType]int64) *AdminHandlers {
	return &AdminHandlers{
		walletRepo: walletRepo,
		ledgerSvc:  ledgerSvc,
		journal:    journal,
		enforcer:   enforcer,
		catalog:    catalog,
	}
}

// TopUpRequest represents a wallet credit top-up
type TopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// TopUp handles POST /admin/wallets/:account_id/topup.
func (h *AdminHandlers) TopUp(c *gin.Context) {
	accountID := c.Param("account_id")

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletRepo.Credit(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up wallet"})
		return
	}

	audit.Emit(domain.NewAuditEvent(domain.CreditsToppedUpEvent).
		WithAccount(accountID).
		WithMetadata("amount", req.Amount).
		WithMetadata("balance", wallet.Balance))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"account_id": wallet.AccountID,
			"balance":    wallet.Balance,
		},
	})
}

// Catalog handles GET /admin/catalog.
func (h *AdminHandlers) Catalog(c *gin.Context) {
	entries := make(map[string]int64, len(h.catalog))
	for spendType, cost := range h.catalog {
		entries[string(spendType)] = cost
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// Deliveries handles GET /admin/deliveries?limit=N.
func (h *AdminHandlers) Deliveries(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = parsed
	}

	records, err := h.journal.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read delivery journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

// Ledger handles GET /admin/ledger/:key — looks up the entry settled for a
// verification key.
func (h *AdminHandlers) Ledger(c *gin.Context) {
	entry, err := h.walletRepo.FindEntryByIdempotencyKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No ledger entry for key"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read ledger"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":              entry.ID,
			"account_id":      entry.AccountID,
			"spend_type":      string(entry.SpendType),
			"amount":          entry.Amount,
			"balance_after":   entry.BalanceAfter,
			"idempotency_key": entry.IdempotencyKey,
			"created_at":      entry.CreatedAt,
		},
	})
}

type policyReq struct{ Sub, Obj, Act string }

// ListPolicies handles GET /admin/policies.
func (h *AdminHandlers) ListPolicies(c *gin.Context) {
	policies, err := h.enforcer.GetPolicy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, policies)
}

// AddPolicy handles POST /admin/policies.
func (h *AdminHandlers) AddPolicy(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := h.enforcer.AddPolicy(r.Sub, r.Obj, r.Act)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not added"})
		return
	}
	_ = h.enforcer.SavePolicy()
	c.Status(http.StatusNoContent)
}

// RemovePolicy handles DELETE /admin/policies.
func (h *AdminHandlers) RemovePolicy(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := h.enforcer.RemovePolicy(r.Sub, r.Obj, r.Act)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not removed"})
		return
	}
	_ = h.enforcer.SavePolicy()
	c.Status(http.StatusNoContent)
}
