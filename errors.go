// FILE: errors.go
// Package main – Error taxonomy for venue API calls.
//
// Three failure classes leave the Kraken client:
//   • VenueError          – Kraken explicitly rejected the request (its
//                           error array was non-empty). Never retried.
//   • ShapeError          – the response decoded but an expected field was
//                           missing or unparseable. Never retried.
//   • RetryExhaustedError – terminal wrapper around the last transient
//                           failure once the attempt budget is spent.
//
// Anything else (transport errors, timeouts, 5xx bodies) is transient and
// eligible for retry.

package main

import (
	"errors"
	"fmt"
	"strings"
)

// VenueError is an explicit rejection from Kraken: bad parameters,
// insufficient venue-side balance, permission problems. Retrying would
// only repeat the same rejection.
type VenueError struct {
	Op     string   // API operation, e.g. "AddOrder"
	Errors []string // raw error strings from the response envelope
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("kraken %s: %s", e.Op, strings.Join(e.Errors, ", "))
}

// ShapeError reports a response that decoded as JSON but did not carry
// the fields the caller needs (e.g. ticker data missing for the pair).
type ShapeError struct {
	Op     string
	Detail string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("kraken %s: unexpected response: %s", e.Op, e.Detail)
}

// RetryExhaustedError carries the attempt count and the last transient
// error once all retries have been consumed.
type RetryExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("kraken %s: failed after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// retryable reports whether an error is worth another attempt.
// Venue rejections and malformed responses are final.
func retryable(err error) bool {
	var ve *VenueError
	var se *ShapeError
	if errors.As(err, &ve) || errors.As(err, &se) {
		return false
	}
	return true
}
