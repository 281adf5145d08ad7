package scan

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/fwojciec/confscan"
)

// DefaultIncrement is the per-unit step, in percent, used while the unit
// count of a phase is unknown.
const DefaultIncrement = 0.1

const (
	// reportThreshold is the smallest change in percent passed to the observer.
	reportThreshold = 0.5

	// forceSteps is the number of steps of a paced force-completion.
	forceSteps = 10
)

// ProgressState is the progress of one phase, in percent.
type ProgressState struct {
	Percent      float64
	LastReported float64
	Increment    float64

	// Done is set once the phase emitted its terminal 100%.
	Done bool
}

// Tracker turns processed units of a phase into a non-decreasing fraction
// reported to a ProgressFunc.
//
// Start, Step and Finish belong to the goroutine running the phase. Publish
// may be called from any goroutine.
type Tracker struct {
	// Pacing, when positive, spreads force-completion over ten steps
	// separated by Pacing. Otherwise completion is a single event.
	Pacing time.Duration

	progress confscan.ProgressFunc
	logger   *slog.Logger

	state ProgressState
	units int

	// published holds a unit count published by Publish, 0 if none.
	published atomic.Int64
	finished  atomic.Bool
}

// NewTracker creates a Tracker reporting to progress, which may be nil.
func NewTracker(progress confscan.ProgressFunc, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		progress: progress,
		logger:   logger,
	}
}

// Start resets the tracker for a phase of n units and reports 0.
// If n is not positive the unit count is treated as unknown and
// DefaultIncrement is used until a count is published or the phase ends.
func (t *Tracker) Start(n int) {
	inc := DefaultIncrement
	if n > 0 {
		inc = 100.0 / float64(n)
	}
	t.logger.Debug("progress increment", "increment", inc, "units", n)

	t.state = ProgressState{Increment: inc}
	t.units = 0
	t.published.Store(0)
	t.finished.Store(false)
	t.emit()
}

// Publish makes the true unit count of the running phase available. The
// phase loop picks it up on its next Step. A count published after the
// phase finished has no effect.
func (t *Tracker) Publish(n int) {
	if n <= 0 {
		return
	}
	if t.finished.Load() {
		t.logger.Warn("progress increment recomputed too late", "units", n)
		return
	}
	t.published.Store(int64(n))
}

// Step records one processed unit.
func (t *Tracker) Step() {
	if n := t.published.Swap(0); n > 0 {
		t.recompute(int(n))
	}
	t.units++
	t.advance(t.state.Increment)
}

// recompute spreads the remaining percent over the remaining units so that
// Percent never moves backward.
func (t *Tracker) recompute(total int) {
	remaining := total - t.units
	if remaining <= 0 {
		t.logger.Warn("progress increment recomputed too late", "units", total, "processed", t.units)
		return
	}
	t.state.Increment = (100 - t.state.Percent) / float64(remaining)
	t.logger.Debug("progress increment recomputed", "increment", t.state.Increment, "units", total)
}

func (t *Tracker) advance(delta float64) {
	if delta < 0 {
		t.logger.Error("negative progress delta ignored", "delta", delta)
		return
	}
	t.state.Percent = math.Min(t.state.Percent+delta, 100)
	if math.Abs(t.state.Percent-t.state.LastReported) < reportThreshold {
		return
	}
	t.emit()
}

func (t *Tracker) emit() {
	t.state.LastReported = t.state.Percent
	if t.progress != nil {
		t.progress(t.state.Percent / 100)
	}
}

// Finish ends the phase. If the units fell short of 100%, because the count
// was unknown or overestimated, the tracker force-completes: a single
// synthetic event, or ten paced steps when Pacing is set. The observer
// always ends the phase at 1.0. Finish only fails if ctx is done during a
// paced completion.
func (t *Tracker) Finish(ctx context.Context) error {
	t.finished.Store(true)

	if t.state.Percent < 100 {
		t.logger.Debug("forcing progress completion", "percent", t.state.Percent)
		if t.Pacing > 0 {
			if err := t.pace(ctx); err != nil {
				return err
			}
		}
	}

	t.state.Percent = 100
	t.state.Done = true
	if t.state.LastReported < 100 {
		t.emit()
	}
	return nil
}

func (t *Tracker) pace(ctx context.Context) error {
	delta := (100 - t.state.Percent) / forceSteps
	timer := time.NewTimer(t.Pacing)
	defer timer.Stop()

	for i := 0; i < forceSteps-1; i++ {
		t.advance(delta)
		timer.Reset(t.Pacing)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// State returns a snapshot of the phase progress.
func (t *Tracker) State() ProgressState {
	return t.state
}
