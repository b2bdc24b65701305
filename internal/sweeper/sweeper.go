// Package sweeper runs the periodic expiry passes. Each Sweeper owns one
// pass function and one cadence; wiring decides which passes exist.
package sweeper

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/commands"
)

// Pass is one sweep invocation. It must be idempotent: observing no
// expired candidates and doing nothing is the normal steady state.
type Pass func(ctx context.Context) (*commands.SweepReport, error)

type Sweeper struct {
	name     string
	interval time.Duration
	pass     Pass
	logger   *slog.Logger

	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

func New(name string, interval time.Duration, pass Pass, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		name:     name,
		interval: interval,
		pass:     pass,
		logger:   logger.With("sweeper", name),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. Shutdown is only observed at wake boundaries:
// a pass that has already started always runs to completion.
func (s *Sweeper) Start(runOnStart bool) {
	go func() {
		defer close(s.done)

		if runOnStart {
			s.runOnce()
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

// Stop signals the loop and waits for the current pass, if any, to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "sweeper did not stop in time")
	}
}

func (s *Sweeper) runOnce() {
	// Single flight: if the previous pass is somehow still running, skip
	// this wake instead of stacking passes.
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("previous pass still running, skipping wake")
		return
	}
	defer s.inFlight.Store(false)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pass panicked", "panic", r)
		}
	}()

	started := time.Now()
	report, err := s.pass(context.Background())
	if err != nil {
		// A failed pass is retried at the next wake; candidates stay put.
		s.logger.Error("pass failed", "error", err)
		return
	}
	s.logger.Info("pass completed",
		"scanned", report.Scanned,
		"expired", report.Expired,
		"duration", time.Since(started),
	)
}
