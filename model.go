// FILE: model.go
// Package main – Typed Kraken response model.
//
// Every venue response is decoded into an anonymous envelope struct and
// then converted into one of the types below by a dedicated parse step.
// Parsing is the only place a loosely-shaped payload is touched; a missing
// field surfaces as a ShapeError instead of a zero value leaking through
// the pipeline.

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Ticker is a point-in-time price snapshot for one trading pair.
// Created fresh per run, never mutated.
type Ticker struct {
	AskPrice  float64
	AskVolume float64
	BidPrice  float64
	BidVolume float64
	LastPrice float64
	Volume24h float64
	Pair      string
}

// OpenOrder is one resting order as reported by OpenOrders.
type OpenOrder struct {
	OrderID     string
	Pair        string
	Side        string // "buy" | "sell"
	Price       float64
	Volume      float64
	Description string // e.g. "buy 0.00025641 XXBTZEUR @ limit 77531.5"
}

// OrderResult is the outcome of one AddOrder call. TxIDs stays empty for
// validation-only submissions.
type OrderResult struct {
	TxIDs       []string
	Description string
	Validated   bool
}

// ---- raw payloads ----

// tickerPayload mirrors one entry of the public Ticker result:
//
//	{"a": ["77920.40000","1","1.000"], "b": [...], "c": [...], "v": [...]}
type tickerPayload struct {
	A []string `json:"a"`
	B []string `json:"b"`
	C []string `json:"c"`
	V []string `json:"v"`
}

type openOrderPayload struct {
	Descr struct {
		Pair  string `json:"pair"`
		Type  string `json:"type"`
		Price string `json:"price"`
		Order string `json:"order"`
	} `json:"descr"`
	Vol string `json:"vol"`
}

type addOrderPayload struct {
	Descr struct {
		Order string `json:"order"`
	} `json:"descr"`
	TxID []string `json:"txid"`
}

// ---- parse steps ----

func parseTicker(op, pair string, raw json.RawMessage) (Ticker, error) {
	var byPair map[string]tickerPayload
	if err := json.Unmarshal(raw, &byPair); err != nil {
		return Ticker{}, &ShapeError{Op: op, Detail: err.Error()}
	}
	p, ok := byPair[pair]
	if !ok {
		return Ticker{}, &ShapeError{Op: op, Detail: fmt.Sprintf("ticker data not found for pair %s", pair)}
	}
	if len(p.A) < 2 || len(p.B) < 2 || len(p.C) < 1 || len(p.V) < 1 {
		return Ticker{}, &ShapeError{Op: op, Detail: "ticker arrays truncated"}
	}
	t := Ticker{Pair: pair}
	var err error
	if t.AskPrice, err = parsePriceField(op, "ask price", p.A[0]); err != nil {
		return Ticker{}, err
	}
	if t.AskVolume, err = parsePriceField(op, "ask volume", p.A[1]); err != nil {
		return Ticker{}, err
	}
	if t.BidPrice, err = parsePriceField(op, "bid price", p.B[0]); err != nil {
		return Ticker{}, err
	}
	if t.BidVolume, err = parsePriceField(op, "bid volume", p.B[1]); err != nil {
		return Ticker{}, err
	}
	if t.LastPrice, err = parsePriceField(op, "last price", p.C[0]); err != nil {
		return Ticker{}, err
	}
	if t.Volume24h, err = parsePriceField(op, "24h volume", p.V[0]); err != nil {
		return Ticker{}, err
	}
	return t, nil
}

func parseBalances(op string, raw json.RawMessage) (map[string]float64, error) {
	var amounts map[string]string
	if err := json.Unmarshal(raw, &amounts); err != nil {
		return nil, &ShapeError{Op: op, Detail: err.Error()}
	}
	out := make(map[string]float64, len(amounts))
	for currency, amount := range amounts {
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, &ShapeError{Op: op, Detail: fmt.Sprintf("balance %s: %v", currency, err)}
		}
		out[currency] = v
	}
	return out, nil
}

func parseOpenOrders(op string, raw json.RawMessage) ([]OpenOrder, error) {
	var env struct {
		Open map[string]openOrderPayload `json:"open"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ShapeError{Op: op, Detail: err.Error()}
	}
	orders := make([]OpenOrder, 0, len(env.Open))
	for id, p := range env.Open {
		// Price/volume may be absent for exotic order types; the balance
		// calculator decides whether such an order is usable.
		price, _ := strconv.ParseFloat(p.Descr.Price, 64)
		vol, _ := strconv.ParseFloat(p.Vol, 64)
		orders = append(orders, OpenOrder{
			OrderID:     id,
			Pair:        p.Descr.Pair,
			Side:        p.Descr.Type,
			Price:       price,
			Volume:      vol,
			Description: p.Descr.Order,
		})
	}
	return orders, nil
}

func parseOrderResult(op string, raw json.RawMessage, validated bool) (OrderResult, error) {
	var p addOrderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return OrderResult{}, &ShapeError{Op: op, Detail: err.Error()}
	}
	if p.Descr.Order == "" {
		return OrderResult{}, &ShapeError{Op: op, Detail: "order description missing"}
	}
	return OrderResult{
		TxIDs:       p.TxID,
		Description: p.Descr.Order,
		Validated:   validated,
	}, nil
}

func parsePriceField(op, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ShapeError{Op: op, Detail: fmt.Sprintf("%s %q: %v", field, s, err)}
	}
	return v, nil
}
