// FILE: format_test.go
package main

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		v        float64
		decimals int
		want     string
	}{
		{1234567.89, 2, "1.234.567,89"},
		{1234.56, 2, "1.234,56"},
		{77920.40, 2, "77.920,40"},
		{999.0, 2, "999,00"},
		{1000.0, 0, "1.000"},
		{0.5, 1, "0,5"},
		{-1234.5, 1, "-1.234,5"},
		{0, 2, "0,00"},
	}
	for _, c := range cases {
		if got := formatNumber(c.v, c.decimals); got != c.want {
			t.Errorf("formatNumber(%v, %d) = %q, want %q", c.v, c.decimals, got, c.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := formatCurrency(1234.567, 2, "EUR"); got != "1.234,57 EUR" {
		t.Errorf("formatCurrency = %q", got)
	}
	if got := formatCurrency(77530.8, 1, "EUR"); got != "77.530,8 EUR" {
		t.Errorf("formatCurrency = %q", got)
	}
}

func TestFormatBTC(t *testing.T) {
	if got := formatBTC(0.00025641); got != "0,00025641 BTC" {
		t.Errorf("formatBTC = %q", got)
	}
	if got := formatBTC(1.5); got != "1,50000000 BTC" {
		t.Errorf("formatBTC = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(0.005, 2); got != "0,50%" {
		t.Errorf("formatPercent = %q", got)
	}
	if got := formatPercent(0.01, 2); got != "1,00%" {
		t.Errorf("formatPercent = %q", got)
	}
}
