// FILE: config.go
// Package main – Runtime configuration model, loader, and validation.
//
// Config is populated from environment variables (hydrated from dca.env by
// loadDCAEnv, see env.go) and validated once at startup. Invalid trade or
// schedule parameters are fatal before any scheduling begins.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the classic 5-field crontab layout:
// minute hour day-of-month month day-of-week.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// KrakenConfig holds venue credentials and the traded pair.
type KrakenConfig struct {
	APIKey    string
	APISecret string // base64, as issued by Kraken
	BaseURL   string
	Pair      string // e.g. "XXBTZEUR"
}

// TradeConfig holds the order-decision knobs.
type TradeConfig struct {
	AmountEUR      float64 // fiat spend per execution
	DiscountPct    float64 // limit price discount under ask, in percent
	MinFreeBalance float64 // quote-currency floor that must stay untouched
	FeeBuffer      float64 // reservation multiplier, e.g. 1.005
	QuoteCurrency  string  // e.g. "ZEUR"
	ValidateOrder  bool    // venue-side dry run instead of resting an order
	PostOnly       bool    // maker-only flag, guarantees the lower maker fee
}

// RetryConfig bounds the venue client's retry loop.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// ScheduleConfig selects single-shot vs daemon mode.
type ScheduleConfig struct {
	Enabled bool
	Cron    string // 5 whitespace-separated fields
}

// NtfyConfig configures the ntfy.sh notification collaborator.
type NtfyConfig struct {
	Enabled  bool
	Server   string
	Topic    string
	Priority string // min|low|default|high|max
}

// Config holds all runtime knobs.
type Config struct {
	Kraken   KrakenConfig
	Trade    TradeConfig
	Retry    RetryConfig
	Schedule ScheduleConfig
	Ntfy     NtfyConfig

	Timezone     string // IANA name used for schedule and message timestamps
	LogLevel     string
	Port         int // metrics/health HTTP port
	MisfireGrace time.Duration
}

// loadConfigFromEnv reads the process env (already hydrated by loadDCAEnv)
// and returns a validated Config.
func loadConfigFromEnv() (Config, error) {
	cfg := Config{
		Kraken: KrakenConfig{
			APIKey:    getEnv("KRAKEN_API_KEY", ""),
			APISecret: getEnv("KRAKEN_API_SECRET", ""),
			BaseURL:   getEnv("KRAKEN_API_BASE", "https://api.kraken.com"),
			Pair:      getEnv("DCA_PAIR", "XXBTZEUR"),
		},
		Trade: TradeConfig{
			AmountEUR:      getEnvFloat("DCA_AMOUNT_EUR", 20.0),
			DiscountPct:    getEnvFloat("DCA_DISCOUNT_PCT", 0.5),
			MinFreeBalance: getEnvFloat("DCA_MIN_FREE_BALANCE", 0.0),
			FeeBuffer:      getEnvFloat("DCA_FEE_BUFFER", 1.005),
			QuoteCurrency:  getEnv("DCA_QUOTE_CURRENCY", "ZEUR"),
			ValidateOrder:  getEnvBool("DCA_VALIDATE_ORDER", true),
			PostOnly:       getEnvBool("DCA_POST_ONLY", true),
		},
		Retry: RetryConfig{
			MaxAttempts: getEnvInt("API_MAX_ATTEMPTS", 3),
			BaseDelay:   time.Duration(getEnvInt("API_RETRY_BASE_MS", 1000)) * time.Millisecond,
		},
		Schedule: ScheduleConfig{
			Enabled: getEnvBool("SCHEDULE_ENABLED", false),
			Cron:    getEnv("SCHEDULE_CRON", "0 8 * * *"),
		},
		Ntfy: NtfyConfig{
			Enabled:  getEnvBool("NTFY_ENABLED", false),
			Server:   getEnv("NTFY_SERVER", "https://ntfy.sh"),
			Topic:    getEnv("NTFY_TOPIC", ""),
			Priority: getEnv("NTFY_PRIORITY", "default"),
		},
		Timezone:     getEnv("DCA_TIMEZONE", "Europe/Berlin"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvInt("PORT", 8080),
		MisfireGrace: time.Duration(getEnvInt("MISFIRE_GRACE_SEC", 3600)) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate collects every configuration problem instead of stopping at the
// first one, so a broken deployment is fixable in one pass.
func (c *Config) validate() error {
	var errs []error

	if c.Kraken.APIKey == "" || c.Kraken.APISecret == "" {
		errs = append(errs, errors.New("KRAKEN_API_KEY and KRAKEN_API_SECRET are required"))
	}
	if c.Kraken.Pair == "" {
		errs = append(errs, errors.New("DCA_PAIR must not be empty"))
	}

	if c.Trade.AmountEUR <= 0 {
		errs = append(errs, fmt.Errorf("trade amount must be positive, got %g", c.Trade.AmountEUR))
	}
	if c.Trade.DiscountPct < 0 || c.Trade.DiscountPct > 100 {
		errs = append(errs, fmt.Errorf("discount percent must be between 0 and 100, got %g", c.Trade.DiscountPct))
	}
	if c.Trade.MinFreeBalance < 0 {
		errs = append(errs, fmt.Errorf("minimum free balance cannot be negative, got %g", c.Trade.MinFreeBalance))
	}
	if c.Trade.FeeBuffer < 1.0 {
		errs = append(errs, fmt.Errorf("fee buffer must be >= 1.0, got %g", c.Trade.FeeBuffer))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("API_MAX_ATTEMPTS must be >= 1, got %d", c.Retry.MaxAttempts))
	}
	if c.Retry.BaseDelay < 0 {
		errs = append(errs, errors.New("API_RETRY_BASE_MS cannot be negative"))
	}

	if err := c.Schedule.validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}

	if c.Ntfy.Enabled {
		if c.Ntfy.Topic == "" {
			errs = append(errs, errors.New("NTFY_TOPIC is required when notifications are enabled"))
		}
		switch c.Ntfy.Priority {
		case "min", "low", "default", "high", "max":
		default:
			errs = append(errs, fmt.Errorf("NTFY_PRIORITY must be one of min|low|default|high|max, got %q", c.Ntfy.Priority))
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.MisfireGrace < 0 {
		errs = append(errs, errors.New("MISFIRE_GRACE_SEC cannot be negative"))
	}

	return errors.Join(errs...)
}

// validate checks the cron expression at construction time: exactly five
// whitespace-separated fields, each accepted by the cron parser.
func (s *ScheduleConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	expr := strings.TrimSpace(s.Cron)
	if expr == "" {
		return errors.New("SCHEDULE_CRON must not be empty when the schedule is enabled")
	}
	if n := len(strings.Fields(expr)); n != 5 {
		return fmt.Errorf("SCHEDULE_CRON must have exactly 5 fields, got %d", n)
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
