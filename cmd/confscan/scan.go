package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/fwojciec/confscan"
)

// Run executes the scan command. Paths are printed on stdout, everything
// else on stderr. A cancelled scan still prints, exports and saves the
// files found before cancellation.
func (c *ScanCmd) Run(deps *Dependencies) error {
	view := newProgressView(deps.Stderr, deps.Interactive)
	report, err := deps.Searcher.Search(deps.Ctx, c.Root, view.Progress, view.Status)
	view.Done()

	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil && (report == nil || !cancelled) {
		fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(err))
		return err
	}

	for _, p := range report.Paths {
		fmt.Fprintln(deps.Stdout, p)
	}
	printSummary(deps, report)

	// Exports and history writes must not be interrupted by the signal that
	// cancelled the scan.
	ctx := context.WithoutCancel(deps.Ctx)

	if c.Output != "" {
		if werr := deps.NewWriter(c.Output).WriteReport(ctx, report); werr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(werr))
			return werr
		}
		fmt.Fprintf(deps.Stderr, "Exported %d paths to %s\n", len(report.Paths), c.Output)
	}

	if c.Save {
		if serr := deps.Reports.CreateReport(ctx, report); serr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(serr))
			return serr
		}
		fmt.Fprintf(deps.Stderr, "Saved report %s\n", report.ID)
	}

	return err
}

func printSummary(deps *Dependencies, report *confscan.Report) {
	state := color.New(color.FgGreen)
	if report.State != confscan.StateCompleted {
		state = color.New(color.FgYellow)
	}
	if !deps.Interactive {
		state.DisableColor()
	}

	fmt.Fprintf(deps.Stderr, "%s: %d confidential files under %s (%s)\n",
		state.Sprint(report.State), report.Count(), report.Root, report.Duration().Round(time.Millisecond))
	for _, ph := range report.Phases {
		fmt.Fprintf(deps.Stderr, "  %-4s  listed %d  confidential %d  skipped %d  unreadable %d\n",
			ph.Format, ph.Listed, ph.Confidential, ph.Skipped, ph.Unreadable)
	}
}
