package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	EnableDBCheck  bool
	PgMaxConns     int32
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool

	RevenueAccountNames []string
	ExpenseAccountNames []string
	AssetCategories     []string
	LiabilityCategories []string
	EquityCategories    []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	defaults := domain.DefaultReportConfig()

	viper.SetDefault("DATABASE_DRIVER", DriverSQLite)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "bookkeeping.db")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PGSQL_MAX_CONNS", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("REVENUE_ACCOUNT_NAMES", strings.Join(defaults.RevenueAccountNames, ","))
	viper.SetDefault("EXPENSE_ACCOUNT_NAMES", strings.Join(defaults.ExpenseAccountNames, ","))
	viper.SetDefault("ASSET_CATEGORIES", strings.Join(defaults.AssetCategories, ","))
	viper.SetDefault("LIABILITY_CATEGORIES", strings.Join(defaults.LiabilityCategories, ","))
	viper.SetDefault("EQUITY_CATEGORIES", strings.Join(defaults.EquityCategories, ","))

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseDriver:      strings.ToLower(strings.TrimSpace(viper.GetString("DATABASE_DRIVER"))),
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		SQLitePath:          viper.GetString("SQLITE_PATH"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		PgMaxConns:          viper.GetInt32("PGSQL_MAX_CONNS"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		LogFormat:           viper.GetString("LOG_FORMAT"),
		MetricsEnabled:      viper.GetBool("METRICS_ENABLED"),
		RevenueAccountNames: splitList(viper.GetString("REVENUE_ACCOUNT_NAMES")),
		ExpenseAccountNames: splitList(viper.GetString("EXPENSE_ACCOUNT_NAMES")),
		AssetCategories:     splitList(viper.GetString("ASSET_CATEGORIES")),
		LiabilityCategories: splitList(viper.GetString("LIABILITY_CATEGORIES")),
		EquityCategories:    splitList(viper.GetString("EQUITY_CATEGORIES")),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DATABASE_DRIVER is %s", DriverPostgres)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = "bookkeeping.db"
			log.Printf("Warning: SQLITE_PATH not set. Defaulting to %s\n", cfg.SQLitePath)
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// ReportConfig returns the account classification used by reports and ratios.
func (c *Config) ReportConfig() domain.ReportConfig {
	return domain.ReportConfig{
		RevenueAccountNames: c.RevenueAccountNames,
		ExpenseAccountNames: c.ExpenseAccountNames,
		AssetCategories:     c.AssetCategories,
		LiabilityCategories: c.LiabilityCategories,
		EquityCategories:    c.EquityCategories,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
