// FILE: messages_test.go
package main

import (
	"strings"
	"testing"
	"time"
)

func messageTicker() Ticker {
	return Ticker{Pair: testPair, AskPrice: 77920.40, BidPrice: 77919.30}
}

func TestBuildSuccessMessageValidatedPostOnly(t *testing.T) {
	cfg := testTradeConfig()
	msg := buildSuccessMessage(cfg, time.UTC, messageTicker(), 1000.0, 950.0, 77530.8, 0.00025796)

	for _, want := range []string{
		"Order validated (post-only)",
		"Amount: 20,00 EUR",
		"Limit Price: 77.530,8 EUR",
		"BTC Volume: 0,00025796 BTC",
		"Discount: 0,50% under Ask",
		"Total EUR: 1.000,00 EUR",
		"Available: 950,00 EUR",
		"Ask: 77.920,40 EUR | Bid: 77.919,30 EUR",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildSuccessMessageLiveOrder(t *testing.T) {
	cfg := testTradeConfig()
	cfg.Trade.ValidateOrder = false
	cfg.Trade.PostOnly = false
	msg := buildSuccessMessage(cfg, time.UTC, messageTicker(), 1000.0, 950.0, 77530.8, 0.00025796)

	if !strings.HasPrefix(msg, "Order placed on ") {
		t.Errorf("message = %q, want live-order wording", msg)
	}
	if strings.Contains(msg, "post-only") {
		t.Errorf("post-only marker present without the flag:\n%s", msg)
	}
}

func TestBuildErrorMessageAppendsError(t *testing.T) {
	cfg := testTradeConfig()
	msg := buildErrorMessage(cfg, time.UTC, messageTicker(), 1000.0, 950.0, 77530.8, 0.00025796,
		"kraken AddOrder rejected")

	if !strings.HasSuffix(msg, "❌ Error: kraken AddOrder rejected") {
		t.Errorf("message = %q", msg)
	}
}

func TestBuildInsufficientFundsMessage(t *testing.T) {
	cfg := testTradeConfig()
	cfg.Trade.MinFreeBalance = 50.0
	msg := buildInsufficientFundsMessage(cfg, time.UTC, messageTicker(), 60.0, 55.0, 77530.8, 0.00025796)

	for _, want := range []string{
		"⚠️ Insufficient funds on ",
		"Trade Amount: 20,00 EUR",
		"Buffer: 50,00 EUR",
		"Available: 55,00 EUR",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildInsufficientFundsMessageOmitsZeroBuffer(t *testing.T) {
	cfg := testTradeConfig()
	msg := buildInsufficientFundsMessage(cfg, time.UTC, messageTicker(), 10.0, 10.0, 77530.8, 0.00025796)
	if strings.Contains(msg, "Buffer:") {
		t.Errorf("buffer line present with a zero floor:\n%s", msg)
	}
}

func TestBuildFatalErrorMessage(t *testing.T) {
	msg := buildFatalErrorMessage(time.UTC, "ticker fetch exhausted retries")
	if !strings.HasPrefix(msg, "❌ DCA execution failed on ") {
		t.Errorf("message = %q", msg)
	}
	if !strings.HasSuffix(msg, "Error: ticker fetch exhausted retries") {
		t.Errorf("message = %q", msg)
	}
}

func TestTimestampStringFormat(t *testing.T) {
	got := timestampString(time.UTC)
	if _, err := time.Parse("02.01.2006 15:04:05 MST", got); err != nil {
		t.Errorf("timestamp %q does not match layout: %v", got, err)
	}
}
