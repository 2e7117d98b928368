package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JobMwaura/zintra-sub009/domain"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type VerificationConfig struct {
	TTL         string `yaml:"ttl"`
	CodeLength  int    `yaml:"code_length"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type RateLimitConfig struct {
	Window string `yaml:"window"`
	Max    int    `yaml:"max"`
}

type SMSConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type DeliveryConfig struct {
	FallbackEnabled bool   `yaml:"fallback_enabled"`
	JournalPath     string `yaml:"journal_path"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Verification VerificationConfig `yaml:"verification"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	SMS          SMSConfig          `yaml:"sms"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Delivery     DeliveryConfig     `yaml:"delivery"`
	Casbin       CasbinConfig       `yaml:"casbin"`
	SpendCatalog map[string]int64   `yaml:"spend_catalog"`
}

type Config struct {
	Port    string
	GinMode string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	VerificationTTL time.Duration
	CodeLength      int
	MaxAttempts     int
	RateLimitWindow time.Duration
	RateLimitMax    int

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	FallbackEnabled bool
	JournalPath     string

	CasbinModelPath string

	SpendCatalog map[domain.SpendType]int64
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml, applies environment overrides and validates
// that every credential required by an enabled channel is present. Missing
// credentials are a startup failure, never a silent degradation.
func Load() (*Config, error) {
	// A local .env is optional; environment variables win either way.
	_ = godotenv.Load()

	path := env("ZINTRA_CONFIG", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	jwtTTL, err := time.ParseDuration(configFile.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	verTTL, err := time.ParseDuration(configFile.Verification.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification TTL: %w", err)
	}

	rlWindow, err := time.ParseDuration(configFile.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	catalog := make(map[domain.SpendType]int64, len(configFile.SpendCatalog))
	for name, cost := range configFile.SpendCatalog {
		if cost <= 0 {
			return nil, fmt.Errorf("spend catalog entry %q has non-positive cost %d", name, cost)
		}
		catalog[domain.SpendType(name)] = cost
	}

	cfg := &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret: env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer: configFile.JWT.Issuer,
		JWTTTL:    jwtTTL,

		VerificationTTL: verTTL,
		CodeLength:      configFile.Verification.CodeLength,
		MaxAttempts:     configFile.Verification.MaxAttempts,
		RateLimitWindow: rlWindow,
		RateLimitMax:    configFile.RateLimit.Max,

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.SMS.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.SMS.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.SMS.FromNumber),

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     atoiEnv("SMTP_PORT", configFile.SMTP.Port),
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:     env("SMTP_FROM", configFile.SMTP.From),

		FallbackEnabled: configFile.Delivery.FallbackEnabled,
		JournalPath:     env("JOURNAL_PATH", configFile.Delivery.JournalPath),

		CasbinModelPath: configFile.Casbin.ModelPath,

		SpendCatalog: catalog,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	checks := []struct {
		field string
		value string
	}{
		{"database.dsn", c.DSN},
		{"redis.addr", c.RedisAddr},
		{"jwt.secret", c.JWTSecret},
		{"sms.account_sid", c.TwilioSID},
		{"sms.auth_token", c.TwilioToken},
		{"sms.from_number", c.TwilioFrom},
		{"smtp.host", c.SMTPHost},
		{"smtp.from", c.SMTPFrom},
		{"delivery.journal_path", c.JournalPath},
	}
	for _, chk := range checks {
		if chk.value == "" {
			return &domain.ConfigError{Field: chk.field}
		}
	}

	if c.CodeLength < 4 {
		return fmt.Errorf("verification.code_length must be at least 4, got %d", c.CodeLength)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("verification.max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RateLimitMax < 1 {
		return fmt.Errorf("rate_limit.max must be at least 1, got %d", c.RateLimitMax)
	}
	if len(c.SpendCatalog) == 0 {
		return &domain.ConfigError{Field: "spend_catalog"}
	}

	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func atoiEnv(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
