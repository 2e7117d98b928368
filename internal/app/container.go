package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/JobMwaura/zintra-sub009/domain"
	"github.com/JobMwaura/zintra-sub009/internal/config"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/auth"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/database"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/journal"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/notifications"
	"github.com/JobMwaura/zintra-sub009/internal/infrastructure/repositories"
	"github.com/JobMwaura/zintra-sub009/internal/services"
)

// Container holds all dependencies. Clients are constructed once per process
// and passed down explicitly; nothing here is a hidden global.
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	Journal     *journal.BoltJournal
	Casbin      *auth.CasbinService

	WalletRepo domain.WalletRepository

	TokenSvc    domain.TokenService
	SMSSender   domain.SMSSender
	EmailSender domain.EmailSender
	DeliverySvc domain.DeliveryService
	VerifySvc   domain.VerificationService
	RateLimiter domain.RateLimiter
	LedgerSvc   domain.LedgerService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	c.DB = gdb

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	c.Journal = j

	c.WalletRepo = repositories.NewWalletRepository(gdb)

	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	c.SMSSender = notifications.NewTwilioSMSSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	c.EmailSender = notifications.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	c.DeliverySvc = services.NewDeliveryService(c.SMSSender, c.EmailSender, j, cfg.VerificationTTL, cfg.FallbackEnabled)

	codeGen := services.NewCodeGenerator(cfg.CodeLength)
	c.VerifySvc = services.NewVerificationService(codeGen, c.RedisClient, services.VerificationConfig{
		TTL:         cfg.VerificationTTL,
		MaxAttempts: cfg.MaxAttempts,
	})
	c.RateLimiter = services.NewRateLimiter(c.RedisClient, cfg.RateLimitWindow, cfg.RateLimitMax)
	c.LedgerSvc = services.NewLedgerService(c.WalletRepo, cfg.SpendCatalog)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.Journal != nil {
		c.Journal.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
