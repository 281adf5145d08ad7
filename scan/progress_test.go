package scan_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/confscan/scan"
)

// recorder collects progress events.
type recorder struct {
	values []float64
}

func (r *recorder) progress(f float64) {
	r.values = append(r.values, f)
}

func (r *recorder) last() float64 {
	if len(r.values) == 0 {
		return -1
	}
	return r.values[len(r.values)-1]
}

func assertNonDecreasing(t *testing.T, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1], "progress moved backward at event %d", i)
	}
}

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("reports each unit of a known count", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)

		tr.Start(4)
		for range 4 {
			tr.Step()
		}
		require.NoError(t, tr.Finish(context.Background()))

		assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, rec.values)
		assert.True(t, tr.State().Done)
	})

	t.Run("suppresses changes below half a percent", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)

		tr.Start(1000)
		for range 1000 {
			tr.Step()
		}
		require.NoError(t, tr.Finish(context.Background()))

		assert.LessOrEqual(t, len(rec.values), 202)
		assert.Greater(t, len(rec.values), 100)
		assertNonDecreasing(t, rec.values)
		assert.InDelta(t, 1.0, rec.last(), 1e-9)
	})

	t.Run("force-completes an unknown count", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)

		tr.Start(0)
		assert.InDelta(t, scan.DefaultIncrement, tr.State().Increment, 1e-9)
		tr.Step()
		require.NoError(t, tr.Finish(context.Background()))

		assert.Equal(t, []float64{0, 1}, rec.values)
	})

	t.Run("spreads remaining progress over a published count", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)

		tr.Start(10)
		tr.Step()
		tr.Step()
		tr.Publish(4)
		tr.Step()
		tr.Step()
		require.NoError(t, tr.Finish(context.Background()))

		require.Len(t, rec.values, 5)
		assert.InDeltaSlice(t, []float64{0, 0.1, 0.2, 0.6, 1}, rec.values, 1e-9)
	})

	t.Run("ignores a count that is already exceeded", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, logger)

		tr.Start(10)
		for range 3 {
			tr.Step()
		}
		tr.Publish(2)
		tr.Step()

		assert.InDelta(t, 40.0, tr.State().Percent, 1e-9)
		assert.Contains(t, buf.String(), "progress increment recomputed too late")
	})

	t.Run("warns about a count published after finish", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, logger)

		tr.Start(2)
		require.NoError(t, tr.Finish(context.Background()))
		tr.Publish(2)

		assert.Equal(t, []float64{0, 1}, rec.values)
		assert.Contains(t, buf.String(), "progress increment recomputed too late")
	})

	t.Run("paces force-completion", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)
		tr.Pacing = time.Millisecond

		tr.Start(0)
		require.NoError(t, tr.Finish(context.Background()))

		require.Len(t, rec.values, 11)
		assertNonDecreasing(t, rec.values)
		assert.InDelta(t, 0.5, rec.values[5], 1e-9)
		assert.Equal(t, 1.0, rec.last())
	})

	t.Run("stops pacing when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rec := &recorder{}
		tr := scan.NewTracker(rec.progress, nil)
		tr.Pacing = time.Hour

		tr.Start(0)
		err := tr.Finish(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, rec.last(), 1.0)
	})

	t.Run("accepts a nil observer", func(t *testing.T) {
		t.Parallel()

		tr := scan.NewTracker(nil, nil)

		tr.Start(1)
		tr.Step()
		require.NoError(t, tr.Finish(context.Background()))

		assert.Equal(t, 100.0, tr.State().Percent)
	})
}
