// FILE: messages.go
// Package main – Notification message construction.
//
// One builder per execution outcome. The texts mirror what operators see
// on their phones, so wording and number format stay stable even when log
// output changes.

package main

import (
	"fmt"
	"strings"
	"time"
)

const quoteCurrencyLabel = "EUR"

func buildSuccessMessage(cfg Config, loc *time.Location, t Ticker, balance, free, limitPrice, volume float64) string {
	action := "Order placed"
	if cfg.Trade.ValidateOrder {
		action = "Order validated"
	}
	postOnly := ""
	if cfg.Trade.PostOnly {
		postOnly = " (post-only)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s on %s\n\n", action, postOnly, timestampString(loc))
	fmt.Fprintf(&b, "Amount: %s\n", formatCurrency(cfg.Trade.AmountEUR, 2, quoteCurrencyLabel))
	fmt.Fprintf(&b, "Limit Price: %s\n", formatCurrency(limitPrice, 1, quoteCurrencyLabel))
	fmt.Fprintf(&b, "BTC Volume: %s\n", formatBTC(volume))
	fmt.Fprintf(&b, "Discount: %s under Ask\n\n", formatPercent(cfg.Trade.DiscountPct/100, 2))
	fmt.Fprintf(&b, "Total %s: %s\n", quoteCurrencyLabel, formatCurrency(balance, 2, quoteCurrencyLabel))
	fmt.Fprintf(&b, "Available: %s\n\n", formatCurrency(free, 2, quoteCurrencyLabel))
	fmt.Fprintf(&b, "Ask: %s | Bid: %s",
		formatCurrency(t.AskPrice, 2, quoteCurrencyLabel),
		formatCurrency(t.BidPrice, 2, quoteCurrencyLabel))
	return b.String()
}

func buildErrorMessage(cfg Config, loc *time.Location, t Ticker, balance, free, limitPrice, volume float64, errText string) string {
	base := buildSuccessMessage(cfg, loc, t, balance, free, limitPrice, volume)
	return fmt.Sprintf("%s\n\n❌ Error: %s", base, errText)
}

func buildInsufficientFundsMessage(cfg Config, loc *time.Location, t Ticker, balance, free, limitPrice, volume float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Insufficient funds on %s\n\n", timestampString(loc))
	b.WriteString("Required:\n")
	fmt.Fprintf(&b, "Trade Amount: %s\n", formatCurrency(cfg.Trade.AmountEUR, 2, quoteCurrencyLabel))
	if cfg.Trade.MinFreeBalance > 0 {
		fmt.Fprintf(&b, "Buffer: %s\n", formatCurrency(cfg.Trade.MinFreeBalance, 2, quoteCurrencyLabel))
	}
	fmt.Fprintf(&b, "Limit Price: %s\n", formatCurrency(limitPrice, 1, quoteCurrencyLabel))
	fmt.Fprintf(&b, "BTC Volume: %s\n", formatBTC(volume))
	fmt.Fprintf(&b, "Discount: %s under Ask\n\n", formatPercent(cfg.Trade.DiscountPct/100, 2))
	fmt.Fprintf(&b, "Total %s: %s\n", quoteCurrencyLabel, formatCurrency(balance, 2, quoteCurrencyLabel))
	fmt.Fprintf(&b, "Available: %s\n\n", formatCurrency(free, 2, quoteCurrencyLabel))
	fmt.Fprintf(&b, "Ask: %s | Bid: %s",
		formatCurrency(t.AskPrice, 2, quoteCurrencyLabel),
		formatCurrency(t.BidPrice, 2, quoteCurrencyLabel))
	return b.String()
}

func buildFatalErrorMessage(loc *time.Location, errText string) string {
	return fmt.Sprintf("❌ DCA execution failed on %s\n\nError: %s", timestampString(loc), errText)
}
