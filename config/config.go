// Package config has the configuration file for the app
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration, resolved once at startup.
type Config struct {
	Port           string
	Address        string
	Env            string
	LogLevel       string
	DatabaseDSN    string
	MaxRequestBody int64 // Maximum request body size in bytes

	SMTP    SMTPConfig
	Cart    CartConfig
	Payment PaymentConfig
}

// SMTPConfig holds the mail transport settings used by the notifier and the
// mail:test diagnostic command.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// CartConfig holds cart limits consumed by checkout logic and the cleanup job.
type CartConfig struct {
	MaxQuantityPerMedicine int
	SessionExpiryHours     int
	AutoCleanupEnabled     bool
}

// PaymentMethod describes one configured payment method.
type PaymentMethod struct {
	Enabled     bool
	DisplayName string
	Description string
	Credentials map[string]string
}

// PaymentConfig holds payment settings and the per-method metadata map.
type PaymentConfig struct {
	DefaultCurrency     string
	TimeoutSeconds      int
	RetryAttempts       int
	WebhookVerification bool
	Methods             map[string]PaymentMethod
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8000"),
		Address:        getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:            getEnvWithDefault("ENV", "dev"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		DatabaseDSN:    getEnvWithDefault("DATABASE_DSN", "file:tadawi.db"),
		MaxRequestBody: getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		SMTP: SMTPConfig{
			Host:     getEnvWithDefault("SMTP_HOST", "localhost"),
			Port:     getIntEnvWithDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvWithDefault("MAIL_FROM", "noreply@tadawi.app"),
		},
		Cart: CartConfig{
			MaxQuantityPerMedicine: getIntEnvWithDefault("CART_MAX_QUANTITY_PER_MEDICINE", 2),
			SessionExpiryHours:     getIntEnvWithDefault("CART_SESSION_EXPIRY_HOURS", 24),
			AutoCleanupEnabled:     getBoolEnvWithDefault("CART_AUTO_CLEANUP_ENABLED", true),
		},
		Payment: PaymentConfig{
			DefaultCurrency:     getEnvWithDefault("PAYMENT_DEFAULT_CURRENCY", "USD"),
			TimeoutSeconds:      getIntEnvWithDefault("PAYMENT_TIMEOUT", 300),
			RetryAttempts:       getIntEnvWithDefault("PAYMENT_RETRY_ATTEMPTS", 3),
			WebhookVerification: getBoolEnvWithDefault("PAYMENT_WEBHOOK_VERIFICATION", true),
			Methods:             loadPaymentMethods(),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadPaymentMethods builds the payment method map. Method-specific
// credentials and URLs come from the environment; display metadata is fixed.
func loadPaymentMethods() map[string]PaymentMethod {
	return map[string]PaymentMethod{
		"cash_on_delivery": {
			Enabled:     getBoolEnvWithDefault("PAYMENT_COD_ENABLED", true),
			DisplayName: "Cash on Delivery",
			Description: "Pay in cash when your order arrives",
			Credentials: map[string]string{},
		},
		"paypal": {
			Enabled:     getBoolEnvWithDefault("PAYMENT_PAYPAL_ENABLED", false),
			DisplayName: "PayPal",
			Description: "Pay securely with your PayPal account",
			Credentials: map[string]string{
				"client_id":     os.Getenv("PAYPAL_CLIENT_ID"),
				"client_secret": os.Getenv("PAYPAL_CLIENT_SECRET"),
				"sandbox":       getEnvWithDefault("PAYPAL_SANDBOX", "true"),
				"webhook_id":    os.Getenv("PAYPAL_WEBHOOK_ID"),
				"return_url":    getEnvWithDefault("PAYPAL_RETURN_URL", "http://localhost:3000/payment/success"),
				"cancel_url":    getEnvWithDefault("PAYPAL_CANCEL_URL", "http://localhost:3000/payment/cancel"),
			},
		},
	}
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT: must be between 1 and 65535, got %d", cfg.SMTP.Port)
	}

	if cfg.Cart.MaxQuantityPerMedicine < 1 {
		return fmt.Errorf("invalid CART_MAX_QUANTITY_PER_MEDICINE: must be positive, got %d", cfg.Cart.MaxQuantityPerMedicine)
	}

	if cfg.Cart.SessionExpiryHours < 1 {
		return fmt.Errorf("invalid CART_SESSION_EXPIRY_HOURS: must be positive, got %d", cfg.Cart.SessionExpiryHours)
	}

	if cfg.Payment.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid PAYMENT_TIMEOUT: must be positive, got %d", cfg.Payment.TimeoutSeconds)
	}

	if cfg.Payment.RetryAttempts < 0 {
		return fmt.Errorf("invalid PAYMENT_RETRY_ATTEMPTS: must not be negative, got %d", cfg.Payment.RetryAttempts)
	}

	if len(cfg.Payment.DefaultCurrency) != 3 {
		return fmt.Errorf("invalid PAYMENT_DEFAULT_CURRENCY: must be a 3-letter code, got %q", cfg.Payment.DefaultCurrency)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnvWithDefault gets an environment variable as bool with a default value
func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
