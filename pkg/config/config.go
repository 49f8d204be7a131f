package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SystemAccounts holds the chart-of-accounts codes the valuation engines post
// against. The referenced accounts must exist, be active, and be flagged as
// system accounts.
type SystemAccounts struct {
	DepreciationExpense     string
	AccumulatedDepreciation string
	BadDebtExpense          string
	AllowanceForECL         string
	AccountsReceivable      string
	AccountsPayable         string
	Cash                    string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate limiting, e.g. "100-M" for 100 requests per minute per client IP.
	RateLimit string

	// Graceful shutdown window.
	ShutdownTimeout time.Duration

	SystemAccounts SystemAccounts
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	// System account codes. Override per deployment when the chart differs.
	viper.SetDefault("ACC_DEPRECIATION_EXPENSE", "6300")
	viper.SetDefault("ACC_ACCUMULATED_DEPRECIATION", "1590")
	viper.SetDefault("ACC_BAD_DEBT_EXPENSE", "6400")
	viper.SetDefault("ACC_ALLOWANCE_ECL", "1190")
	viper.SetDefault("ACC_ACCOUNTS_RECEIVABLE", "1200")
	viper.SetDefault("ACC_ACCOUNTS_PAYABLE", "2100")
	viper.SetDefault("ACC_CASH", "1010")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	shutdownStr := viper.GetString("SHUTDOWN_TIMEOUT")
	shutdown, err := time.ParseDuration(shutdownStr)
	if err != nil {
		log.Printf("Warning: invalid SHUTDOWN_TIMEOUT %q, defaulting to 10s\n", shutdownStr)
		shutdown = 10 * time.Second
	}
	cfg.ShutdownTimeout = shutdown

	cfg.SystemAccounts = SystemAccounts{
		DepreciationExpense:     viper.GetString("ACC_DEPRECIATION_EXPENSE"),
		AccumulatedDepreciation: viper.GetString("ACC_ACCUMULATED_DEPRECIATION"),
		BadDebtExpense:          viper.GetString("ACC_BAD_DEBT_EXPENSE"),
		AllowanceForECL:         viper.GetString("ACC_ALLOWANCE_ECL"),
		AccountsReceivable:      viper.GetString("ACC_ACCOUNTS_RECEIVABLE"),
		AccountsPayable:         viper.GetString("ACC_ACCOUNTS_PAYABLE"),
		Cash:                    viper.GetString("ACC_CASH"),
	}

	return cfg, nil
}
