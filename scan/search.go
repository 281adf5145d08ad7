// Package scan provides the confidential-document search pipeline.
// It coordinates directory enumeration, file listing, classification, and
// progress reporting across the word-processing, spreadsheet, and PDF phases.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/confscan"
)

// Status messages sent to the StatusFunc.
const (
	StatusEnumerating = "building directory list"
	StatusCompleted   = "search completed"
	StatusCancelled   = "search cancelled"
)

var _ confscan.Searcher = (*Searcher)(nil)

// Searcher runs scans. A Searcher runs one scan at a time.
type Searcher struct {
	FS     confscan.FileSystem
	Reader confscan.DocumentReader
	Logger *slog.Logger

	// Marker defaults to confscan.DefaultMarker.
	Marker string

	// Pacing spreads each phase's force-completion over paced steps.
	// Zero completes phases with a single progress event.
	Pacing time.Duration

	running atomic.Bool
}

// Search scans root and returns the report of the scan.
//
// On success the report is in StateCompleted and err is nil. If ctx is
// cancelled the report is in StateCancelled, holds the files found by the
// phases that finished before cancellation, and err wraps ctx.Err(). Any
// other failure, including a panic, leaves the report in StateFailed with
// no paths and returns the error.
//
// progress and status may be nil. They are called from the calling goroutine.
func (s *Searcher) Search(ctx context.Context, root string, progress confscan.ProgressFunc, status confscan.StatusFunc) (*confscan.Report, error) {
	if root == "" {
		return nil, confscan.Errorf(confscan.EINVALID, "search root required")
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, confscan.Errorf(confscan.ECONFLICT, "a search is already running")
	}
	defer s.running.Store(false)

	report := &confscan.Report{
		ID:        uuid.New().String(),
		Root:      root,
		State:     confscan.StateIdle,
		StartedAt: time.Now().UTC(),
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("scan_id", report.ID, "root", root)

	r := &run{
		report:   report,
		progress: progress,
		status:   status,
		pacing:   s.Pacing,
		logger:   logger,
		enumerator: &Enumerator{
			FS:     s.FS,
			Status: status,
			Logger: logger,
		},
		lister: &Lister{
			FS:     s.FS,
			Logger: logger,
		},
		classifier: NewClassifier(s.FS, s.Reader, s.Marker, logger),
	}

	paths, err := r.execute(ctx)
	report.FinishedAt = time.Now().UTC()
	report.Phases = r.phases

	switch {
	case err == nil:
		r.transition(confscan.StateCompleted)
		report.Paths = paths
		report.Digest = Digest(paths)
		logger.Info("search completed", "confidential", len(paths), "duration", report.Duration())
		r.sendStatus(StatusCompleted)
		r.sendProgress(1.0)
		return report, nil

	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		r.transition(confscan.StateCancelled)
		report.Paths = paths
		report.Digest = Digest(paths)
		logger.Warn("search cancelled", "confidential", len(paths))
		r.sendStatus(StatusCancelled)
		return report, fmt.Errorf("search cancelled: %w", err)

	default:
		r.transition(confscan.StateFailed)
		report.Paths = nil
		report.Phases = nil
		logger.Error("search failed", "err", err)
		return report, err
	}
}

// run holds the state of one Search call.
type run struct {
	report   *confscan.Report
	progress confscan.ProgressFunc
	status   confscan.StatusFunc
	pacing   time.Duration
	logger   *slog.Logger

	enumerator *Enumerator
	lister     *Lister
	classifier *Classifier

	paths  []string
	phases []confscan.PhaseStats
}

// execute runs the phases in order. On error it returns the paths of the
// phases completed so far. A panic is turned into an EINTERNAL error.
func (r *run) execute(ctx context.Context) (paths []string, err error) {
	defer func() {
		if v := recover(); v != nil {
			paths, err = nil, confscan.Errorf(confscan.EINTERNAL, "search panicked: %v", v)
		}
	}()

	r.transition(confscan.StateEnumeratingDirectories)
	r.sendStatus(StatusEnumerating)
	r.sendProgress(0)

	dirs, err := r.enumerator.Enumerate(ctx, r.report.Root)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("directories enumerated", "count", len(dirs))

	for _, format := range confscan.Formats() {
		r.transition(format.Phase())
		found, err := r.phase(ctx, dirs, format)
		if err != nil {
			return r.paths, err
		}
		r.paths = append(r.paths, found...)
	}
	return r.paths, nil
}

// phase lists and classifies the files of one format. Progress restarts
// from zero for the listing and again for the analysis.
func (r *run) phase(ctx context.Context, dirs []string, format confscan.Format) ([]string, error) {
	stats := confscan.PhaseStats{Format: format}

	r.sendStatus(fmt.Sprintf("searching %s files: listing files", format))
	files, err := r.lister.List(ctx, dirs, format.Pattern(), r.newTracker())
	if err != nil {
		return nil, err
	}
	stats.Listed = len(files)
	r.logger.Debug("files listed", "format", format, "count", len(files))

	r.sendStatus(fmt.Sprintf("searching %s files: analysing files", format))
	found, err := r.analyse(ctx, files, format, &stats)
	if err != nil {
		return nil, err
	}

	r.phases = append(r.phases, stats)
	return found, nil
}

// analyse classifies files in order. While it runs, a background goroutine
// counts the files that will actually be inspected and publishes the count
// so the progress increment can be corrected. The count only affects
// progress smoothness, so the loop never waits for it and a panic inside
// it drops the recount instead of the scan.
func (r *run) analyse(ctx context.Context, files []string, format confscan.Format, stats *confscan.PhaseStats) ([]string, error) {
	tracker := r.newTracker()
	tracker.Start(len(files))

	countCtx, cancelCount := context.WithCancel(ctx)
	defer cancelCount()
	g, gctx := errgroup.WithContext(countCtx)
	g.Go(func() error {
		defer func() {
			if v := recover(); v != nil {
				r.logger.Warn("file recount abandoned", "format", format, "panic", v)
			}
		}()
		n := 0
		for _, file := range files {
			if gctx.Err() != nil {
				return nil
			}
			if r.classifier.Eligible(file) {
				n++
			}
		}
		tracker.Publish(n)
		return nil
	})

	var found []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("phase cancelled", "format", format)
			cancelCount()
			_ = g.Wait()
			return nil, err
		}

		verdict := r.classifier.Classify(file, format)
		stats.Record(verdict)
		switch verdict {
		case confscan.VerdictConfidential:
			found = append(found, file)
			tracker.Step()
		case confscan.VerdictClean:
			tracker.Step()
		}
	}

	err := tracker.Finish(ctx)
	_ = g.Wait()
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *run) newTracker() *Tracker {
	t := NewTracker(r.progress, r.logger)
	t.Pacing = r.pacing
	return t
}

func (r *run) transition(to confscan.ScanState) {
	r.logger.Debug("state transition", "from", r.report.State, "to", to)
	r.report.State = to
}

func (r *run) sendStatus(msg string) {
	if r.status != nil {
		r.status(msg)
	}
}

func (r *run) sendProgress(fraction float64) {
	if r.progress != nil {
		r.progress(fraction)
	}
}
