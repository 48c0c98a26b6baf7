package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Database configuration
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     string `mapstructure:"DB_PORT"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseSSLMode  string `mapstructure:"DB_SSL_MODE"`

	// JWT configuration
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS configuration
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// RabbitMQ configuration; empty URL falls back to the in-process bus
	RabbitURL string `mapstructure:"RABBIT_URL"`

	// Offer configuration
	OfferTTLMinutes       int `mapstructure:"OFFER_TTL_MINUTES"`
	OfferSweepIntervalSec int `mapstructure:"OFFER_SWEEP_INTERVAL_SEC"`

	// Settlement configuration. Tax rates are fractions per jurisdiction
	// (e.g. NL: 0.21); unknown jurisdictions are taxed at zero, which is a
	// documented approximation, not an error.
	InvoiceDueDays   int                `mapstructure:"INVOICE_DUE_DAYS"`
	PayoutPeriodDays int                `mapstructure:"PAYOUT_PERIOD_DAYS"`
	TaxRates         map[string]float64 `mapstructure:"TAX_RATES"`
	PayrollTaxRate   float64            `mapstructure:"PAYROLL_TAX_RATE"`

	// Payout provider; empty falls back to manual processing
	PayoutProviderURL string `mapstructure:"PAYOUT_PROVIDER_URL"`

	// Webhook configuration
	WebhookTimeoutSec int `mapstructure:"WEBHOOK_TIMEOUT_SEC"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.DatabaseURL == "" {
		config.DatabaseURL = buildDatabaseURL(&config)
	}

	// Validate required fields
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "7010")
	viper.SetDefault("LOG_LEVEL", "info")

	// Database defaults
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "staffing_platform")
	viper.SetDefault("DB_SSL_MODE", "disable")

	// JWT defaults
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")

	// CORS defaults
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})

	// RabbitMQ defaults
	viper.SetDefault("RABBIT_URL", "")

	// Offer defaults
	viper.SetDefault("OFFER_TTL_MINUTES", 120)
	viper.SetDefault("OFFER_SWEEP_INTERVAL_SEC", 60)

	// Settlement defaults
	viper.SetDefault("INVOICE_DUE_DAYS", 14)
	viper.SetDefault("PAYOUT_PERIOD_DAYS", 7)
	viper.SetDefault("TAX_RATES", map[string]float64{})
	viper.SetDefault("PAYROLL_TAX_RATE", 0)

	// Payout provider defaults
	viper.SetDefault("PAYOUT_PROVIDER_URL", "")

	// Webhook defaults
	viper.SetDefault("WEBHOOK_TIMEOUT_SEC", 10)
}

func buildDatabaseURL(config *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
		config.DatabaseSSLMode,
	)
}

func validate(config *Config) error {
	if config.Environment == "production" {
		if config.JWTSecret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	if config.DatabaseName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.InvoiceDueDays <= 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must be positive")
	}
	if config.PayoutPeriodDays <= 0 {
		return fmt.Errorf("PAYOUT_PERIOD_DAYS must be positive")
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
