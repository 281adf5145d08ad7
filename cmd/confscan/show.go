package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/confscan"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	report, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(err))
		return err
	}

	if c.Details {
		fmt.Fprintf(deps.Stdout, "ID:       %s\n", report.ID)
		fmt.Fprintf(deps.Stdout, "Root:     %s\n", report.Root)
		fmt.Fprintf(deps.Stdout, "State:    %s\n", report.State)
		fmt.Fprintf(deps.Stdout, "Started:  %s\n", report.StartedAt.Local().Format(time.DateTime))
		fmt.Fprintf(deps.Stdout, "Duration: %s\n", report.Duration().Round(time.Millisecond))
		fmt.Fprintf(deps.Stdout, "Digest:   %s\n", report.Digest)
		for _, ph := range report.Phases {
			fmt.Fprintf(deps.Stdout, "%-4s      listed %d, confidential %d, skipped %d, unreadable %d\n",
				ph.Format, ph.Listed, ph.Confidential, ph.Skipped, ph.Unreadable)
		}
		fmt.Fprintln(deps.Stdout)
	}

	for _, p := range report.Paths {
		fmt.Fprintln(deps.Stdout, p)
	}
	return nil
}
