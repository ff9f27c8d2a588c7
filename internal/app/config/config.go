package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Ledger    LedgerConfig
	Webhook   WebhookConfig
	Bootstrap BootstrapConfig

	SecretKey    string `env:"APP_SECRET_KEY,default=ChangeMe"`
	SessionStore string `env:"SESSION_STORE,default=memory"`
	LogVerbose   bool   `env:"APP_VERBOSE,default=0"`
	LogPretty    bool   `env:"APP_PRETTY,default=0"`
}

type ServerConfig struct {
	Listen       string        `env:"RUN_ADDRESS,default=localhost:8088"`
	TimeoutRead  time.Duration `env:"SERVER_TIMEOUT_READ,default=5s"`
	TimeoutWrite time.Duration `env:"SERVER_TIMEOUT_WRITE,default=10s"`
	TimeoutIdle  time.Duration `env:"SERVER_TIMEOUT_IDLE,default=1m"`
}

type DatabaseConfig struct {
	DSN string `env:"DATABASE_URI,required"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD,default="`
	DB       int    `env:"REDIS_DB,default=0"`
}

type LedgerConfig struct {
	// Withdrawals above this amount are queued for manager approval.
	ApprovalThreshold string `env:"APPROVAL_THRESHOLD,default=200000"`
}

type WebhookConfig struct {
	// URL of the endpoint notified about pending withdrawals.
	// Empty disables notifications.
	URL string `env:"WEBHOOK_URL,default="`
}

type BootstrapConfig struct {
	ManagerUsername string `env:"BOOTSTRAP_MANAGER_USERNAME,default=manager"`
	ManagerPassword string `env:"BOOTSTRAP_MANAGER_PASSWORD,default=manager123"`
}

// New config constructor
func New() Config {
	return Config{}
}

// Load config from environment and from .env file (if exists) and from flags
func (cfg *Config) Load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env load: %w", err)
	}

	if err := envdecode.StrictDecode(cfg); err != nil {
		return fmt.Errorf("env decode: %w", err)
	}

	pflag.StringVarP(&cfg.Server.Listen, "listen-addr", "a", cfg.Server.Listen, "Server address to listen on")
	pflag.StringVarP(&cfg.Database.DSN, "database-uri", "d", cfg.Database.DSN, "Database URI")
	pflag.StringVarP(&cfg.Ledger.ApprovalThreshold, "approval-threshold", "t", cfg.Ledger.ApprovalThreshold, "Withdrawal approval threshold")
	pflag.StringVarP(&cfg.Webhook.URL, "webhook-url", "w", cfg.Webhook.URL, "Pending-approval webhook URL")
	pflag.BoolVarP(&cfg.LogVerbose, "verbose", "v", cfg.LogVerbose, "Verbose output")
	pflag.BoolVarP(&cfg.LogPretty, "pretty", "p", cfg.LogPretty, "Pretty output")
	pflag.Parse()

	if _, err := decimal.NewFromString(cfg.Ledger.ApprovalThreshold); err != nil {
		return fmt.Errorf("approval threshold parse: %w", err)
	}

	return nil
}

// ApprovalThreshold returns the parsed threshold amount.
// Load validates the value, so a parse failure here is a programming error.
func (cfg Config) ApprovalThreshold() decimal.Decimal {
	return decimal.RequireFromString(cfg.Ledger.ApprovalThreshold)
}
