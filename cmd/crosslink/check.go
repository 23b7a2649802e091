package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Rerun staleness against the existing links index",
	Long:  "Recomputes each resolved link's structural fingerprint or content hash and marks it CURRENT or STALE, updating links.json in place.",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	report, err := engine.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking: %w", err)
	}

	if report.Stale > 0 {
		exitIssues = true
	}
	if flagFormat == "json" {
		return printJSON(report)
	}
	formatCheckText(os.Stdout, report)
	return nil
}
