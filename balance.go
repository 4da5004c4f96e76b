// FILE: balance.go
// Package main – Free-balance calculation.
//
// The free balance is what the account can actually spend: the total
// quote-currency balance minus what open buy orders have already
// committed, padded by a fee buffer so an order submitted right after the
// calculation cannot fail on balance erosion. Sell-side orders reserve the
// asset being sold, not the quote currency, and contribute nothing here.
//
// The calculation always re-fetches balance and open orders: it is a
// point-in-time accounting of a mutable remote account and must never be
// served from a cache.

package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FreeBalance returns total(currency) minus the amount reserved by open
// buy orders, each weighted by feeBuffer (e.g. 1.005).
func (c *KrakenClient) FreeBalance(ctx context.Context, currency string, feeBuffer float64) (float64, error) {
	c.log.Info().Str("currency", currency).Msg("calculating free balance")

	total, err := c.GetBalanceFor(ctx, currency)
	if err != nil {
		return 0, err
	}
	orders, err := c.GetOpenOrders(ctx)
	if err != nil {
		return 0, err
	}

	reserved := reservedBalance(orders, feeBuffer, c.log)
	free := decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(reserved)).InexactFloat64()

	c.log.Info().
		Str("currency", currency).
		Float64("total", total).
		Float64("reserved", reserved).
		Float64("free", free).
		Msg("free balance calculated")
	return free, nil
}

// reservedBalance sums volume * price * feeBuffer over buy-side orders.
// An order whose price or volume cannot be recovered is skipped with a
// warning; partial venue data must not abort a funds-available check.
func reservedBalance(orders []OpenOrder, feeBuffer float64, log zerolog.Logger) float64 {
	buffer := decimal.NewFromFloat(feeBuffer)
	reserved := decimal.Zero

	for _, o := range orders {
		if o.Side != "buy" {
			continue
		}
		price, volume, ok := orderTerms(o)
		if !ok {
			log.Warn().
				Str("order_id", o.OrderID).
				Str("descr", o.Description).
				Msg("cannot determine order price/volume, skipping reservation")
			continue
		}
		cost := decimal.NewFromFloat(volume).
			Mul(decimal.NewFromFloat(price)).
			Mul(buffer)
		reserved = reserved.Add(cost)
		log.Debug().
			Str("order_id", o.OrderID).
			Float64("volume", volume).
			Float64("price", price).
			Str("cost", cost.String()).
			Msg("order reservation")
	}

	// A reservation can never subtract; clamp guards against a total that
	// the venue reports lower than the sum of its own open orders.
	if reserved.IsNegative() {
		return 0
	}
	return reserved.InexactFloat64()
}

// orderTerms returns the order's limit price and volume, falling back to
// the human-readable description ("buy 0.00025641 XXBTZEUR @ limit
// 77531.5") when the structured fields are absent.
func orderTerms(o OpenOrder) (price, volume float64, ok bool) {
	if o.Price > 0 && o.Volume > 0 {
		return o.Price, o.Volume, true
	}
	fields := strings.Fields(o.Description)
	// side, volume, pair, "@", "limit", price
	if len(fields) != 6 || fields[3] != "@" || fields[4] != "limit" {
		return 0, 0, false
	}
	v, err1 := strconv.ParseFloat(fields[1], 64)
	p, err2 := strconv.ParseFloat(fields[5], 64)
	if err1 != nil || err2 != nil || v <= 0 || p <= 0 {
		return 0, 0, false
	}
	return p, v, true
}
