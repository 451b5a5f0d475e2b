package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/fs"
)

// Run executes the browse command.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	report, err := deps.Service.Browse(deps.Ctx, docscout.BrowseRequest{
		URLs:        c.URLs,
		UserRequest: c.Request,
		Focus:       c.Focus,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		exp := fs.NewExporter(filepath.Dir(c.Output), filepath.Base(c.Output))
		if err := exp.Export(deps.Ctx, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: export to %s: %v\n", c.Output, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "Exported %d pages to %s\n", report.Summary.Successful, exp.Dir())
	}

	if c.JSON {
		if err := writeJSON(deps.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(deps.Stdout, report)
	}

	if report.Summary.Processed > 0 && report.Summary.Successful == 0 {
		return errors.New("no URL could be analyzed")
	}
	return nil
}

// printReport writes the human-readable form of report.
func printReport(w io.Writer, report *docscout.Report) {
	fmt.Fprintln(w, report.Message)
	for _, res := range report.Results {
		if res.Success {
			page := res.Page
			fmt.Fprintf(w, "  ok   %s (%s, %d words, %d endpoints)\n",
				res.URL, page.AcquiredVia, page.WordCount, len(page.APIEndpoints))
			continue
		}
		fmt.Fprintf(w, "  fail %s: %s: %s\n", res.URL, res.Failure.Kind, res.Failure.Message)
	}
	if report.Summary.ContextTokens > 0 {
		fmt.Fprintf(w, "  context: %d tokens\n", report.Summary.ContextTokens)
	}
	if report.DocumentationContext != "" {
		fmt.Fprintf(w, "\n%s\n", report.DocumentationContext)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
