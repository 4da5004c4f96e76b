// FILE: engine.go
// Package main – The DCA execution pipeline and order decision logic.
//
// One Execute call is one full run:
//
//	fetch ticker → fetch total balance → fetch free balance →
//	decide (Submitted | InsufficientFunds) → notify → return DCAResult
//
// The decision has exactly three terminal outcomes, enforced by the
// Outcome enum. Any error during the fetch steps is converted HERE into a
// failure result with a zero-valued ticker (pair preserved); Execute never
// returns an error, so the daemon's per-run loop stays trivial.
//
// Price arithmetic: limit price is ask * (1 - discount/100) rounded
// half-to-even to 1 decimal (the venue's tick size for this pair), volume
// is spend amount / limit price. Both computed in decimal, not floats.

package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Outcome is the terminal state of one order decision.
type Outcome int

const (
	// OutcomeSubmitted – the order was handed to the venue (or venue-validated).
	OutcomeSubmitted Outcome = iota
	// OutcomeInsufficientFunds – free balance below required; no submission.
	OutcomeInsufficientFunds
	// OutcomeFailed – a fetch or submission error ended the run.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeInsufficientFunds:
		return "insufficient_funds"
	default:
		return "failed"
	}
}

// DCAResult is the terminal artifact of one pipeline run.
type DCAResult struct {
	Success           bool
	Outcome           Outcome
	Message           string
	Ticker            Ticker
	Balance           float64 // total quote balance
	FreeBalance       float64
	LimitPrice        float64 // zero on fatal failure
	Volume            float64 // zero on fatal failure
	OrderPlaced       bool
	InsufficientFunds bool
}

// Notifier is the outbound message collaborator. Failures are logged by
// the engine and never affect the run result.
type Notifier interface {
	SendSuccess(ctx context.Context, message, title string) error
	SendError(ctx context.Context, message, title string) error
	SendInfo(ctx context.Context, message, title string) error
}

// Engine orchestrates one DCA run end to end.
type Engine struct {
	cfg      Config
	kraken   *KrakenClient
	notifier Notifier // nil when notifications are disabled
	loc      *time.Location
	log      zerolog.Logger
}

// NewEngine wires the pipeline. notifier may be nil.
func NewEngine(cfg Config, client *KrakenClient, notifier Notifier, loc *time.Location, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, kraken: client, notifier: notifier, loc: loc, log: log}
}

// Execute runs the full pipeline and always returns a result, never an
// error: fatal fetch failures become DCAResult{Success: false}.
func (e *Engine) Execute(ctx context.Context) DCAResult {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()
	log.Info().Str("pair", e.cfg.Kraken.Pair).Msg("starting DCA execution")

	ticker, err := e.kraken.GetTicker(ctx, e.cfg.Kraken.Pair)
	if err != nil {
		return e.fatal(ctx, log, err)
	}
	balance, err := e.kraken.GetBalanceFor(ctx, e.cfg.Trade.QuoteCurrency)
	if err != nil {
		return e.fatal(ctx, log, err)
	}
	free, err := e.kraken.FreeBalance(ctx, e.cfg.Trade.QuoteCurrency, e.cfg.Trade.FeeBuffer)
	if err != nil {
		return e.fatal(ctx, log, err)
	}

	required := e.cfg.Trade.AmountEUR + e.cfg.Trade.MinFreeBalance
	limitPrice := limitPriceFor(ticker.AskPrice, e.cfg.Trade.DiscountPct)
	volume := volumeFor(e.cfg.Trade.AmountEUR, limitPrice)
	recordBalances(balance, free)
	recordLimitPrice(limitPrice)

	var result DCAResult
	if free >= required {
		result = e.submit(ctx, log, ticker, balance, free, limitPrice, volume)
	} else {
		log.Warn().
			Float64("required", required).
			Float64("free", free).
			Float64("trade_amount", e.cfg.Trade.AmountEUR).
			Float64("min_free_balance", e.cfg.Trade.MinFreeBalance).
			Msg("insufficient funds, skipping order")
		result = DCAResult{
			Success:           true,
			Outcome:           OutcomeInsufficientFunds,
			Message:           buildInsufficientFundsMessage(e.cfg, e.loc, ticker, balance, free, limitPrice, volume),
			Ticker:            ticker,
			Balance:           balance,
			FreeBalance:       free,
			LimitPrice:        limitPrice,
			Volume:            volume,
			InsufficientFunds: true,
		}
	}

	e.notify(ctx, log, result)
	recordRun(result.Outcome.String())
	log.Info().Bool("success", result.Success).Str("outcome", result.Outcome.String()).Msg("DCA execution completed")
	return result
}

// submit places (or validates) the order decided for this run. A failed
// submission is NOT retried here: a lost response cannot be told apart
// from a resting order, and blind resubmission could double-spend.
func (e *Engine) submit(ctx context.Context, log zerolog.Logger, ticker Ticker, balance, free, limitPrice, volume float64) DCAResult {
	log.Info().
		Float64("limit_price", limitPrice).
		Float64("volume", volume).
		Bool("validate", e.cfg.Trade.ValidateOrder).
		Bool("post_only", e.cfg.Trade.PostOnly).
		Msg("sufficient funds, proceeding with order")

	orderResult, err := e.kraken.AddLimitBuy(
		ctx,
		e.cfg.Kraken.Pair,
		volume,
		limitPrice,
		e.cfg.Trade.ValidateOrder,
		e.cfg.Trade.PostOnly,
	)
	if err != nil {
		log.Error().Err(err).Msg("order submission failed")
		return DCAResult{
			Success:     false,
			Outcome:     OutcomeFailed,
			Message:     buildErrorMessage(e.cfg, e.loc, ticker, balance, free, limitPrice, volume, err.Error()),
			Ticker:      ticker,
			Balance:     balance,
			FreeBalance: free,
			LimitPrice:  limitPrice,
			Volume:      volume,
		}
	}

	recordOrder(orderResult.Validated)
	log.Info().Str("descr", orderResult.Description).Msg("order accepted by venue")
	return DCAResult{
		Success:     true,
		Outcome:     OutcomeSubmitted,
		Message:     buildSuccessMessage(e.cfg, e.loc, ticker, balance, free, limitPrice, volume),
		Ticker:      ticker,
		Balance:     balance,
		FreeBalance: free,
		LimitPrice:  limitPrice,
		Volume:      volume,
		OrderPlaced: !orderResult.Validated,
	}
}

// fatal is the single escape hatch for fetch-step errors: the error is
// folded into a failure result with a zero ticker that keeps the pair.
func (e *Engine) fatal(ctx context.Context, log zerolog.Logger, err error) DCAResult {
	log.Error().Err(err).Msg("DCA execution failed")
	result := DCAResult{
		Success: false,
		Outcome: OutcomeFailed,
		Message: buildFatalErrorMessage(e.loc, err.Error()),
		Ticker:  Ticker{Pair: e.cfg.Kraken.Pair},
	}
	e.notify(ctx, log, result)
	recordRun(result.Outcome.String())
	return result
}

// notify routes the result to the collaborator matching its outcome.
// Notification errors are logged and swallowed.
func (e *Engine) notify(ctx context.Context, log zerolog.Logger, result DCAResult) {
	if e.notifier == nil {
		log.Info().Msg("no notifier configured, skipping notification")
		return
	}
	var err error
	switch {
	case !result.Success:
		err = e.notifier.SendError(ctx, result.Message, "DCA Error")
	case result.InsufficientFunds:
		err = e.notifier.SendInfo(ctx, result.Message, "Insufficient Funds")
	default:
		err = e.notifier.SendSuccess(ctx, result.Message, "DCA Executed")
	}
	if err != nil {
		recordNotification(false)
		log.Error().Err(err).Msg("failed to send notification")
		return
	}
	recordNotification(true)
}

// ---- decision arithmetic ----

// limitPriceFor computes ask * (1 - discount/100) rounded half-to-even to
// one decimal. Half-to-even matches the reference behavior at the tick
// boundary; the 1-decimal precision is the venue's tick size for this
// instrument.
func limitPriceFor(askPrice, discountPct float64) float64 {
	discount := decimal.NewFromFloat(discountPct).Div(decimal.NewFromInt(100))
	price := decimal.NewFromFloat(askPrice).Mul(decimal.NewFromInt(1).Sub(discount))
	return price.RoundBank(1).InexactFloat64()
}

// volumeFor computes the base-asset volume purchasable for amount at price.
func volumeFor(amount, limitPrice float64) float64 {
	if limitPrice <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(limitPrice)).
		InexactFloat64()
}
