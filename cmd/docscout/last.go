package main

import (
	"fmt"

	"github.com/fwojciec/docscout"
)

// Run executes the last command.
func (c *LastCmd) Run(deps *Dependencies) error {
	report, err := deps.Store.Get(deps.Ctx)
	if docscout.ErrorCode(err) == docscout.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No documentation browsed yet. Use 'docscout browse' to create a report.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, report)
	}
	fmt.Fprintf(deps.Stdout, "Report %s (%s)\n", report.ID, report.CreatedAt.Format("2006-01-02 15:04:05"))
	printReport(deps.Stdout, report)
	return nil
}
