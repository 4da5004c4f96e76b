// FILE: main.go
// Package main – Program entrypoint and HTTP/metrics server.
//
// Boot sequence:
//   1) loadDCAEnv()          – read dca.env (no shell exports required)
//   2) loadConfigFromEnv()   – build and validate runtime Config
//   3) wire Kraken client / notifier / engine / daemon
//   4) start Prometheus /healthz server on cfg.Port
//   5) run once or as a cron daemon based on SCHEDULE_ENABLED
//
// Flags:
//   -once   Force a single execution even when the schedule is enabled
//
// Exit status: a failed single-shot run exits 1; daemon mode exits 0 on
// signal-driven shutdown and surfaces per-run failures via logs and
// notifications only.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	var once bool
	flag.BoolVar(&once, "once", false, "run a single execution and exit, ignoring the schedule")
	flag.Parse()

	// ---- Environment & Config ----
	loadDCAEnv()
	cfg, err := loadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	if once {
		cfg.Schedule.Enabled = false
	}

	logger := newLogger(cfg.LogLevel, os.Stdout)
	logger.Info().
		Str("pair", cfg.Kraken.Pair).
		Bool("validate_order", cfg.Trade.ValidateOrder).
		Bool("schedule_enabled", cfg.Schedule.Enabled).
		Msg("kraken DCA bot starting")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		// Validated already; keep the guard for completeness.
		logger.Error().Err(err).Msg("timezone load failed")
		return 1
	}

	// ---- Component wiring ----
	client, err := NewKrakenClient(cfg.Kraken, cfg.Retry, componentLogger(logger, "kraken"))
	if err != nil {
		logger.Error().Err(err).Msg("kraken client init failed")
		return 1
	}

	var notifier Notifier
	if cfg.Ntfy.Enabled {
		n, err := NewNtfyNotifier(cfg.Ntfy, componentLogger(logger, "ntfy"))
		if err != nil {
			logger.Error().Err(err).Msg("notifier init failed")
			return 1
		}
		notifier = n
	}

	engine := NewEngine(cfg, client, notifier, loc, componentLogger(logger, "engine"))
	daemon := NewDaemon(cfg.Schedule, loc, cfg.MisfireGrace, engine.Execute, componentLogger(logger, "daemon"))

	// ---- HTTP metrics/health ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		logger.Info().Int("port", cfg.Port).Msg("serving metrics on /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	// ---- Run ----
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := 0
	if err := daemon.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("execution failed")
		code = 1
	}

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info().Msg("kraken DCA bot finished")
	return code
}
