// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Exposes the primary metrics the bot updates during operation:
//   • dca_runs_total{result}          – Executions by outcome (submitted|insufficient_funds|failed)
//   • dca_orders_total{mode}          – Orders submitted (mode: live|validate)
//   • dca_api_retries_total           – Transient venue errors that triggered a retry
//   • dca_notifications_total{status} – Notification sends (sent|failed)
//   • dca_total_balance               – Last observed total quote balance (gauge)
//   • dca_free_balance                – Last observed free quote balance (gauge)
//   • dca_limit_price                 – Last computed limit price (gauge)
//
// These are registered in init() and served by the HTTP handler started in
// main.go at /metrics (Prometheus text exposition format).

package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_runs_total",
			Help: "DCA executions by outcome",
		},
		[]string{"result"}, // submitted|insufficient_funds|failed
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_orders_total",
			Help: "Limit orders submitted to the venue",
		},
		[]string{"mode"}, // live|validate
	)

	mtxAPIRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dca_api_retries_total",
			Help: "Transient venue API errors that triggered a retry",
		},
	)

	mtxNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_notifications_total",
			Help: "Notification delivery attempts",
		},
		[]string{"status"}, // sent|failed
	)

	mtxTotalBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_total_balance",
			Help: "Total quote-currency balance at the last run",
		},
	)

	mtxFreeBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_free_balance",
			Help: "Free quote-currency balance at the last run",
		},
	)

	mtxLimitPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_limit_price",
			Help: "Limit price computed by the last run",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxRuns, mtxOrders, mtxAPIRetries, mtxNotifications)
	prometheus.MustRegister(mtxTotalBalance, mtxFreeBalance, mtxLimitPrice)
}

// Helper setters (used by the engine; keep metric names out of business code)

func recordRun(result string)            { mtxRuns.WithLabelValues(result).Inc() }
func recordOrder(validated bool)         { mtxOrders.WithLabelValues(orderMode(validated)).Inc() }
func recordNotification(ok bool)         { mtxNotifications.WithLabelValues(notifyStatus(ok)).Inc() }
func recordBalances(total, free float64) { mtxTotalBalance.Set(total); mtxFreeBalance.Set(free) }
func recordLimitPrice(p float64)         { mtxLimitPrice.Set(p) }

func orderMode(validated bool) string {
	if validated {
		return "validate"
	}
	return "live"
}

func notifyStatus(ok bool) string {
	if ok {
		return "sent"
	}
	return "failed"
}
