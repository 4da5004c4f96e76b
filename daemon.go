// FILE: daemon.go
// Package main – Single-instance cron daemon around the execution pipeline.
//
// With the schedule disabled, Run performs exactly one pipeline execution
// and returns. With it enabled, one cron job (fixed id) fires on the
// 5-field expression with:
//   • at most one execution in flight (SkipIfStillRunning: an overlapping
//     trigger is skipped, never queued twice),
//   • panic recovery per run (a blown-up run never kills the scheduler),
//   • a misfire grace period: a trigger that starts more than the grace
//     late (scheduler stall, clock suspend) is skipped with a warning.
//
// Shutdown is cooperative: context cancellation stops new triggers and
// waits for an in-flight run to finish; it never aborts one.

package main

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// runFunc is the pipeline entry the daemon drives.
type runFunc func(ctx context.Context) DCAResult

// Daemon drives the execution pipeline once or on a cron schedule.
type Daemon struct {
	schedule     ScheduleConfig
	loc          *time.Location
	misfireGrace time.Duration
	job          runFunc
	log          zerolog.Logger

	cron    *cron.Cron
	entryID cron.EntryID
	ctx     context.Context
}

// NewDaemon builds a daemon. The schedule must already be validated
// (ScheduleConfig.validate runs at config construction).
func NewDaemon(schedule ScheduleConfig, loc *time.Location, misfireGrace time.Duration, job runFunc, log zerolog.Logger) *Daemon {
	return &Daemon{
		schedule:     schedule,
		loc:          loc,
		misfireGrace: misfireGrace,
		job:          job,
		log:          log,
	}
}

// Run blocks until shutdown. Schedule disabled: one execution, then
// return; an error signals a failed run so main can exit non-zero.
// Schedule enabled: block until ctx is cancelled; per-run failures are
// logged and notified but never returned.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.schedule.Enabled {
		d.log.Warn().Msg("schedule is disabled, running single execution")
		result := d.job(ctx)
		if !result.Success {
			return errors.New("DCA execution failed")
		}
		return nil
	}

	d.ctx = ctx
	cl := cronLogAdapter{log: d.log}
	d.cron = cron.New(
		cron.WithLocation(d.loc),
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	id, err := d.cron.AddJob(d.schedule.Cron, cron.FuncJob(d.runScheduled))
	if err != nil {
		// Unreachable after config validation; surface it anyway.
		return err
	}
	d.entryID = id

	d.cron.Start()
	d.log.Info().
		Str("cron", d.schedule.Cron).
		Str("timezone", d.loc.String()).
		Time("next_run", d.cron.Entry(id).Next).
		Msg("daemon started")

	<-ctx.Done()
	d.Stop()
	return nil
}

// Stop shuts the scheduler down gracefully, waiting for an in-flight run.
// Calling Stop when no scheduler is running is a no-op.
func (d *Daemon) Stop() {
	if d.cron == nil {
		return
	}
	d.log.Info().Msg("shutting down daemon")
	stopCtx := d.cron.Stop()
	<-stopCtx.Done()
	d.cron = nil
	d.log.Info().Msg("daemon stopped")
}

// runScheduled is the cron entry point: misfire check, one pipeline run,
// next-run log line. Errors never escape (the pipeline returns results,
// and the Recover wrapper catches anything else).
func (d *Daemon) runScheduled() {
	if d.ctx.Err() != nil {
		return
	}
	if scheduled := d.scheduledAt(); misfireExceeded(scheduled, d.misfireGrace) {
		d.log.Warn().
			Time("scheduled_at", scheduled).
			Dur("late_by", time.Since(scheduled)).
			Dur("grace", d.misfireGrace).
			Msg("trigger exceeded misfire grace period, skipping run")
		return
	}

	d.log.Info().Msg("scheduled execution started")
	result := d.job(d.ctx)
	if result.Success {
		d.log.Info().Msg("scheduled execution completed")
	} else {
		d.log.Error().Str("message", result.Message).Msg("scheduled execution failed")
	}
	if d.cron != nil {
		d.log.Info().Time("next_run", d.cron.Entry(d.entryID).Next).Msg("next scheduled execution")
	}
}

// scheduledAt returns the activation time of the firing that is currently
// executing (cron records it as Prev before dispatching the job).
func (d *Daemon) scheduledAt() time.Time {
	if d.cron == nil {
		return time.Time{}
	}
	return d.cron.Entry(d.entryID).Prev
}

// misfireExceeded reports whether a trigger scheduled at the given time is
// now too late to run. A zero scheduled time means the activation time is
// unknown and the run proceeds.
func misfireExceeded(scheduled time.Time, grace time.Duration) bool {
	if scheduled.IsZero() {
		return false
	}
	return time.Since(scheduled) > grace
}

// cronLogAdapter bridges robfig/cron's logger to zerolog. cron chatter is
// debug-level; job panics come through Error.
type cronLogAdapter struct {
	log zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Debug().Interface("details", keysAndValues).Msg("cron: " + msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.log.Error().Err(err).Interface("details", keysAndValues).Msg("cron: " + msg)
}
