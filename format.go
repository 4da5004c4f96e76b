// FILE: format.go
// Package main – Locale-independent number formatting for messages.
//
// Notification texts use German number format: "." groups thousands, ","
// separates decimals (77.920,40). These helpers keep that in one place.

package main

import (
	"strconv"
	"strings"
)

// formatNumber renders v with thousands separators, German style.
// formatNumber(1234567.89, 2) == "1.234.567,89".
func formatNumber(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// formatCurrency renders an amount like "1.234,56 EUR".
func formatCurrency(amount float64, decimals int, currency string) string {
	return formatNumber(amount, decimals) + " " + currency
}

// formatBTC renders a BTC volume with 8 decimals, like "0,00025641 BTC".
func formatBTC(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 8, 64)
	return strings.ReplaceAll(s, ".", ",") + " BTC"
}

// formatPercent renders a fraction as a percentage: 0.005 -> "0,50%".
func formatPercent(fraction float64, decimals int) string {
	return formatNumber(fraction*100, decimals) + "%"
}
