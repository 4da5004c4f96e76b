// FILE: config_test.go
package main

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KRAKEN_API_BASE", "DCA_PAIR", "DCA_QUOTE_CURRENCY",
		"DCA_AMOUNT_EUR", "DCA_DISCOUNT_PCT", "DCA_MIN_FREE_BALANCE",
		"DCA_FEE_BUFFER", "DCA_VALIDATE_ORDER", "DCA_POST_ONLY",
		"API_MAX_ATTEMPTS", "API_RETRY_BASE_MS",
		"SCHEDULE_ENABLED", "SCHEDULE_CRON", "MISFIRE_GRACE_SEC",
		"DCA_TIMEZONE", "LOG_LEVEL", "PORT",
		"NTFY_ENABLED", "NTFY_SERVER", "NTFY_TOPIC", "NTFY_PRIORITY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("KRAKEN_API_KEY", "key")
	t.Setenv("KRAKEN_API_SECRET", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv: %v", err)
	}
	if cfg.Kraken.Pair != "XXBTZEUR" {
		t.Errorf("Pair = %q", cfg.Kraken.Pair)
	}
	if cfg.Trade.AmountEUR != 20.0 || cfg.Trade.DiscountPct != 0.5 || cfg.Trade.FeeBuffer != 1.005 {
		t.Errorf("trade defaults = %+v", cfg.Trade)
	}
	if !cfg.Trade.ValidateOrder || !cfg.Trade.PostOnly {
		t.Errorf("safety defaults must be on: %+v", cfg.Trade)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("retry defaults = %+v", cfg.Retry)
	}
	if cfg.Schedule.Enabled {
		t.Errorf("schedule must default to disabled")
	}
	if cfg.Timezone != "Europe/Berlin" || cfg.MisfireGrace != time.Hour {
		t.Errorf("Timezone = %q, MisfireGrace = %v", cfg.Timezone, cfg.MisfireGrace)
	}
}

func TestLoadConfigGermanDecimalSeparator(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DCA_DISCOUNT_PCT", "0,5")
	t.Setenv("DCA_AMOUNT_EUR", "25,50")

	cfg, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv: %v", err)
	}
	if cfg.Trade.DiscountPct != 0.5 || cfg.Trade.AmountEUR != 25.50 {
		t.Errorf("comma decimals not accepted: %+v", cfg.Trade)
	}
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("KRAKEN_API_KEY", "")
	t.Setenv("KRAKEN_API_SECRET", "")

	_, err := loadConfigFromEnv()
	if err == nil || !strings.Contains(err.Error(), "KRAKEN_API_KEY") {
		t.Fatalf("want credentials error, got %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{
		Kraken:   KrakenConfig{APIKey: "k", APISecret: "s", Pair: "XXBTZEUR"},
		Trade:    TradeConfig{AmountEUR: -5, DiscountPct: 150, MinFreeBalance: -1, FeeBuffer: 0.9},
		Retry:    RetryConfig{MaxAttempts: 0},
		Timezone: "Nowhere/Invalid",
		Port:     99999,
	}
	err := cfg.validate()
	if err == nil {
		t.Fatal("want error")
	}
	for _, fragment := range []string{
		"trade amount", "discount percent", "free balance", "fee buffer",
		"API_MAX_ATTEMPTS", "timezone", "PORT",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error missing %q: %v", fragment, err)
		}
	}
}

func TestScheduleValidation(t *testing.T) {
	cases := []struct {
		name    string
		cron    string
		enabled bool
		wantErr bool
	}{
		{"valid daily", "0 8 * * *", true, false},
		{"valid every minute", "* * * * *", true, false},
		{"empty", "", true, true},
		{"too few fields", "0 8 *", true, true},
		{"six fields", "0 0 8 * * *", true, true},
		{"minute out of range", "61 * * * *", true, true},
		{"disabled skips check", "garbage", false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := ScheduleConfig{Enabled: c.enabled, Cron: c.cron}
			err := s.validate()
			if c.wantErr && err == nil {
				t.Errorf("validate(%q) = nil, want error", c.cron)
			}
			if !c.wantErr && err != nil {
				t.Errorf("validate(%q) = %v", c.cron, err)
			}
		})
	}
}

func TestNtfyValidation(t *testing.T) {
	cfg := Config{
		Kraken:   KrakenConfig{APIKey: "k", APISecret: "s", Pair: "XXBTZEUR"},
		Trade:    TradeConfig{AmountEUR: 20, DiscountPct: 0.5, FeeBuffer: 1.005},
		Retry:    RetryConfig{MaxAttempts: 3},
		Ntfy:     NtfyConfig{Enabled: true, Priority: "urgent"},
		Timezone: "UTC",
		Port:     8080,
	}
	err := cfg.validate()
	if err == nil {
		t.Fatal("want error")
	}
	if !strings.Contains(err.Error(), "NTFY_TOPIC") {
		t.Errorf("missing topic error: %v", err)
	}
	if !strings.Contains(err.Error(), "NTFY_PRIORITY") {
		t.Errorf("missing priority error: %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "  value  ")
	t.Setenv("TEST_FLOAT", "1,5")
	t.Setenv("TEST_BOOL", "yes")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "abc")

	if got := getEnv("TEST_STR", "d"); got != "value" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("TEST_UNSET", "d"); got != "d" {
		t.Errorf("getEnv default = %q", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 0); got != 1.5 {
		t.Errorf("getEnvFloat = %v", got)
	}
	if got := getEnvBool("TEST_BOOL", false); !got {
		t.Errorf("getEnvBool = %v", got)
	}
	if got := getEnvInt("TEST_INT", 0); got != 42 {
		t.Errorf("getEnvInt = %v", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt fallback = %v", got)
	}
}
