package main

import (
	"fmt"

	"github.com/fwojciec/confscan"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return confscan.Errorf(confscan.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Reports.DeleteReport(deps.Ctx, c.ID); err != nil {
		if confscan.ErrorCode(err) == confscan.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: report %q not found. Use 'confscan reports' to see saved reports.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", confscan.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted report %s\n", c.ID)
	return nil
}
