package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JobMwaura/zintra-sub009/internal/http/handlers"
	"github.com/JobMwaura/zintra-sub009/internal/http/middleware"
)

func BuildRouter(vh *handlers.VerificationHandlers, wh *handlers.WalletHandlers, ah *handlers.AdminHandlers, jwtmw *middleware.AuthMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Code issuance and submission happen before the caller has a session,
	// so these stay unauthenticated; the rate limiter is the guard.
	verify := r.Group("/verify")
	verify.POST("/request", vh.RequestCode)
	verify.POST("/submit", vh.SubmitCode)

	wallet := r.Group("/wallet").Use(jwtmw.WithJWT())
	wallet.GET("/balance", wh.Balance)
	wallet.POST("/spend", wh.Spend)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.POST("/wallets/:account_id/topup", ah.TopUp)
	adm.GET("/catalog", ah.Catalog)
	adm.GET("/deliveries", ah.Deliveries)
	adm.GET("/ledger/:key", ah.Ledger)
	adm.GET("/policies", ah.ListPolicies)
	adm.POST("/policies", ah.AddPolicy)
	adm.DELETE("/policies", ah.RemovePolicy)

	return r
}
