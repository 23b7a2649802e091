package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jward/crosslink"
)

// printJSON writes a value to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatBuildText(w io.Writer, r *crosslink.BuildResult) {
	fmt.Fprintf(w, "Indexed %d symbols across %d source files\n", r.Symbols, r.SourceFiles)
	fmt.Fprintf(w, "Extracted %d references from %d documents\n", r.Refs, r.Docs)
	fmt.Fprintf(w, "Resolved: %d links, %d broken, %d ambiguous\n", r.Links, r.Broken, r.Errors)
}

func formatCheckText(w io.Writer, r *crosslink.CheckReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOC\tLINE\tREF\tTARGET\tSTATUS")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", row.Doc, row.Line, row.Ref, row.Target, row.Status)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nChecked %d links: %d current, %d stale\n", r.TotalChecked, r.Current, r.Stale)
}

func formatStatusText(w io.Writer, s *crosslink.StatusReport) {
	fmt.Fprintf(w, "Symbols: %d (%d files)\n", s.Symbols, s.SourceFiles)
	fmt.Fprintf(w, "References: %d (%d documents)\n", s.Refs, s.Docs)
	fmt.Fprintf(w, "Links: %d resolved, %d broken, %d ambiguous\n", s.TotalLinks, s.TotalBroken, s.TotalErrors)
	if s.Checked != nil {
		fmt.Fprintf(w, "Last check: %s (%d stale)\n", s.Checked.Format("2006-01-02 15:04:05 MST"), s.Stale)
	} else {
		fmt.Fprintln(w, "Last check: never")
	}

	if len(s.DocRows) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DOC\tLINKS\tBROKEN\tAMBIGUOUS\tSTALE")
		for _, row := range s.DocRows {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", row.Doc, row.Links, row.Broken, row.Errors, row.Stale)
		}
		tw.Flush()
	}
}

func formatFixText(w io.Writer, r *crosslink.FixReport) {
	fmt.Fprintf(w, "%d issue(s): %d stale, %d broken, %d ambiguous\n", r.TotalIssues, r.Stale, r.Broken, r.Errors)
	for _, issue := range r.Issues {
		fmt.Fprintln(w)
		fmt.Fprint(w, issue.Prompt())
	}
}

func formatSymbolsText(w io.Writer, ix *crosslink.SymbolIndex) {
	names := make([]string, 0, len(ix.Symbols))
	for name := range ix.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE\tSIGNATURE")
	for _, name := range names {
		for _, e := range ix.Symbols[name] {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", name, e.Kind, e.File, e.Line, e.Signature)
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d symbols in %d files\n", ix.SymbolCount, ix.FileCount)
}

func formatRefsText(w io.Writer, refs *crosslink.ExtractedRefs) {
	docs := make([]string, 0, len(refs.Docs))
	for doc := range refs.Docs {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOC\tLINE\tKIND\tTEXT")
	for _, doc := range docs {
		for _, ref := range refs.Docs[doc] {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", doc, ref.Line, ref.Kind, ref.Text)
		}
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d references in %d documents\n", refs.RefCount, refs.DocCount)
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
