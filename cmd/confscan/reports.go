package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/confscan"
)

// Run executes the reports command.
func (c *ReportsCmd) Run(deps *Dependencies) error {
	filter := confscan.ReportFilter{Limit: c.Limit}
	if c.Root != "" {
		filter.Root = &c.Root
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'confscan scan --save' to create one.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %5d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.State, r.Count(), r.Root)
	}

	return nil
}
