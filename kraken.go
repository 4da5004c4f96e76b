// FILE: kraken.go
// Package main – Kraken REST client with retry logic.
//
// KrakenClient wraps the four venue operations the bot needs (Ticker,
// Balance, OpenOrders, AddOrder) behind typed methods. Every call goes
// through callWithRetry: transient failures get up to MaxAttempts tries
// with exponential backoff (base * 2^(attempt-1)); venue rejections and
// malformed responses abort immediately (see errors.go).
//
// Private endpoints are signed with Kraken's scheme:
//   API-Sign = base64(HMAC-SHA512(path + SHA256(nonce + POST body), secret))

package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// KrakenClient issues authenticated venue calls with bounded retries.
type KrakenClient struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	secret      []byte // decoded API secret
	maxAttempts int
	retryBase   time.Duration
	log         zerolog.Logger

	lastNonce atomic.Int64
}

// NewKrakenClient builds a client from credentials and retry knobs.
// The API secret must be the base64 string issued by Kraken.
func NewKrakenClient(cfg KrakenConfig, retry RetryConfig, log zerolog.Logger) (*KrakenClient, error) {
	secret, err := base64.StdEncoding.DecodeString(cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("decode API secret: %w", err)
	}
	return &KrakenClient{
		http:        &http.Client{Timeout: 15 * time.Second},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		secret:      secret,
		maxAttempts: retry.MaxAttempts,
		retryBase:   retry.BaseDelay,
		log:         log,
	}, nil
}

// ---- typed operations ----

// GetTicker returns the current price snapshot for pair.
func (c *KrakenClient) GetTicker(ctx context.Context, pair string) (Ticker, error) {
	c.log.Info().Str("pair", pair).Msg("fetching ticker")

	form := url.Values{}
	form.Set("pair", pair)
	raw, err := c.callWithRetry(ctx, "Ticker", false, form)
	if err != nil {
		return Ticker{}, err
	}
	t, err := parseTicker("Ticker", pair, raw)
	if err != nil {
		return Ticker{}, err
	}
	c.log.Info().
		Float64("ask", t.AskPrice).
		Float64("bid", t.BidPrice).
		Msg("ticker fetched")
	return t, nil
}

// GetBalance returns the account balance for all currencies.
func (c *KrakenClient) GetBalance(ctx context.Context) (map[string]float64, error) {
	c.log.Info().Msg("fetching account balance")

	raw, err := c.callWithRetry(ctx, "Balance", true, url.Values{})
	if err != nil {
		return nil, err
	}
	balances, err := parseBalances("Balance", raw)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("currencies", len(balances)).Msg("balance fetched")
	return balances, nil
}

// GetBalanceFor returns the balance of one currency, zero if absent.
func (c *KrakenClient) GetBalanceFor(ctx context.Context, currency string) (float64, error) {
	balances, err := c.GetBalance(ctx)
	if err != nil {
		return 0, err
	}
	return balances[currency], nil
}

// GetOpenOrders returns all currently resting orders.
func (c *KrakenClient) GetOpenOrders(ctx context.Context) ([]OpenOrder, error) {
	c.log.Info().Msg("fetching open orders")

	raw, err := c.callWithRetry(ctx, "OpenOrders", true, url.Values{})
	if err != nil {
		return nil, err
	}
	orders, err := parseOpenOrders("OpenOrders", raw)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("count", len(orders)).Msg("open orders fetched")
	return orders, nil
}

// AddLimitBuy submits (or, with validate, dry-runs) a limit buy order.
// postOnly requests maker-only execution so the order can never take
// liquidity at the higher taker fee.
func (c *KrakenClient) AddLimitBuy(ctx context.Context, pair string, volume, price float64, validate, postOnly bool) (OrderResult, error) {
	clOrdID := uuid.NewString()
	c.log.Info().
		Str("pair", pair).
		Float64("volume", volume).
		Float64("price", price).
		Bool("validate", validate).
		Bool("post_only", postOnly).
		Str("cl_ord_id", clOrdID).
		Msg("submitting limit buy")

	form := url.Values{}
	form.Set("pair", pair)
	form.Set("type", "buy")
	form.Set("ordertype", "limit")
	form.Set("price", strconv.FormatFloat(price, 'f', 1, 64))
	form.Set("volume", strconv.FormatFloat(volume, 'f', 8, 64))
	form.Set("validate", strconv.FormatBool(validate))
	form.Set("cl_ord_id", clOrdID)
	if postOnly {
		form.Set("oflags", "post")
	}

	raw, err := c.callWithRetry(ctx, "AddOrder", true, form)
	if err != nil {
		return OrderResult{}, err
	}
	result, err := parseOrderResult("AddOrder", raw, validate)
	if err != nil {
		return OrderResult{}, err
	}
	if validate {
		c.log.Info().Str("descr", result.Description).Msg("order validated")
	} else {
		c.log.Info().
			Str("descr", result.Description).
			Strs("txids", result.TxIDs).
			Msg("order placed")
	}
	return result, nil
}

// ---- retry loop ----

// callWithRetry performs one logical API call with exponential backoff.
// Only transient errors consume the attempt budget; a VenueError or
// ShapeError is returned as-is from the first attempt that saw it.
func (c *KrakenClient) callWithRetry(ctx context.Context, op string, private bool, form url.Values) (json.RawMessage, error) {
	var last error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		raw, err := c.do(ctx, op, private, form)
		if err == nil {
			return raw, nil
		}
		if !retryable(err) {
			return nil, err
		}
		last = err
		if attempt < c.maxAttempts {
			delay := c.retryBase * (1 << (attempt - 1))
			mtxAPIRetries.Inc()
			c.log.Warn().
				Str("op", op).
				Int("attempt", attempt).
				Int("max_attempts", c.maxAttempts).
				Dur("retry_in", delay).
				Err(err).
				Msg("venue call failed, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	c.log.Error().
		Str("op", op).
		Int("attempts", c.maxAttempts).
		Err(last).
		Msg("venue call failed after all retries")
	return nil, &RetryExhaustedError{Op: op, Attempts: c.maxAttempts, Last: last}
}

// do executes a single HTTP round trip and classifies the outcome.
func (c *KrakenClient) do(ctx context.Context, op string, private bool, form url.Values) (json.RawMessage, error) {
	path := "/0/public/" + op
	if private {
		path = "/0/private/" + op
		form.Set("nonce", strconv.FormatInt(c.nonce(), 10))
	}
	body := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if private {
		req.Header.Set("API-Key", c.apiKey)
		req.Header.Set("API-Sign", c.sign(path, form.Get("nonce"), body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err // transport failure: transient
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("kraken %s: HTTP %d: %s", op, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var env struct {
		Error  []string        `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		// A gateway can hand back HTML with a 200; treat as transient.
		return nil, fmt.Errorf("kraken %s: decode response: %w", op, err)
	}
	if len(env.Error) > 0 {
		return nil, &VenueError{Op: op, Errors: env.Error}
	}
	return env.Result, nil
}

// sign computes Kraken's API-Sign header for a private request.
func (c *KrakenClient) sign(path, nonce, body string) string {
	digest := sha256.Sum256([]byte(nonce + body))
	mac := hmac.New(sha512.New, c.secret)
	mac.Write([]byte(path))
	mac.Write(digest[:])
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// nonce returns a strictly increasing value even when calls land on the
// same nanosecond.
func (c *KrakenClient) nonce() int64 {
	for {
		prev := c.lastNonce.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if c.lastNonce.CompareAndSwap(prev, next) {
			return next
		}
	}
}
