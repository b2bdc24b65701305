//go:build unit

package sweeper_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"opportune/internal/sweeper"
	"opportune/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSweeperRunsOnStart(t *testing.T) {
	var calls atomic.Int64
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		calls.Add(1)
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", time.Hour, pass, discardLogger())
	s.Start(true)
	defer func() { _ = s.Stop(context.Background()) }()

	waitFor(t, func() bool { return calls.Load() == 1 }, "initial pass never ran")
}

func TestSweeperTicks(t *testing.T) {
	var calls atomic.Int64
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		calls.Add(1)
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", 10*time.Millisecond, pass, discardLogger())
	s.Start(false)
	defer func() { _ = s.Stop(context.Background()) }()

	waitFor(t, func() bool { return calls.Load() >= 3 }, "sweeper did not keep ticking")
}

func TestSweeperSurvivesFailedPass(t *testing.T) {
	var calls atomic.Int64
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		if calls.Add(1) == 1 {
			return nil, assert.AnError
		}
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", 10*time.Millisecond, pass, discardLogger())
	s.Start(true)
	defer func() { _ = s.Stop(context.Background()) }()

	// The failed first pass must not stop the loop.
	waitFor(t, func() bool { return calls.Load() >= 2 }, "sweeper stopped after a failed pass")
}

func TestSweeperSurvivesPanickingPass(t *testing.T) {
	var calls atomic.Int64
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", 10*time.Millisecond, pass, discardLogger())
	s.Start(true)
	defer func() { _ = s.Stop(context.Background()) }()

	waitFor(t, func() bool { return calls.Load() >= 2 }, "sweeper stopped after a panicking pass")
}

func TestSweeperStopWaitsForCurrentPass(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		close(started)
		<-release
		finished.Store(true)
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", time.Hour, pass, discardLogger())
	s.Start(true)
	<-started

	stopErr := make(chan error, 1)
	go func() { stopErr <- s.Stop(context.Background()) }()

	// Stop must block while the pass is running.
	select {
	case err := <-stopErr:
		t.Fatalf("Stop returned while a pass was in flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-stopErr)
	assert.True(t, finished.Load())
}

func TestSweeperStopHonorsContextDeadline(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	pass := func(ctx context.Context) (*commands.SweepReport, error) {
		close(started)
		<-release
		return &commands.SweepReport{}, nil
	}

	s := sweeper.New("test", time.Hour, pass, discardLogger())
	s.Start(true)
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, s.Stop(ctx))
}
