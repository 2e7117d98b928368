package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JobMwaura/zintra-sub009/internal/config"
	httpx "github.com/JobMwaura/zintra-sub009/internal/http"
	"github.com/JobMwaura/zintra-sub009/internal/http/handlers"
	"github.com/JobMwaura/zintra-sub009/internal/http/middleware"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/database"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := database.AutoMigrate(c.DB); err != nil {
		return err
	}
	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	vh := handlers.NewVerificationHandlers(c.VerifySvc, c.RateLimiter, c.DeliverySvc)
	wh := handlers.NewWalletHandlers(c.LedgerSvc)
	ah := handlers.NewAdminHandlers(c.WalletRepo, c.LedgerSvc, c.Journal, c.Casbin.E, cfg.SpendCatalog)

	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(vh, wh, ah, jwtMW, casbinMW)

	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) == 0 {
		c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
		_ = c.Casbin.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
