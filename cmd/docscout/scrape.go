package main

import (
	"fmt"

	"github.com/fwojciec/docscout"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	page, err := deps.Service.ScrapePage(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, page)
	}
	fmt.Fprintf(deps.Stdout, "# %s\n\n%s\n", page.Title, page.Content)
	return nil
}
