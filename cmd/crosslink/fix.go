package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Check, then print repair context for every issue",
	Long:  "Runs a staleness check, gathers fix context for every stale, broken, and ambiguous reference, writes fix_report.json, and prints one prompt per issue for a downstream agent or human.",
	Args:  cobra.NoArgs,
	RunE:  runFix,
}

func runFix(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	report, err := engine.Fix(cmd.Context())
	if err != nil {
		return fmt.Errorf("gathering fix context: %w", err)
	}

	if report.TotalIssues > 0 {
		exitIssues = true
	}
	if flagFormat == "json" {
		return printJSON(report)
	}
	formatFixText(os.Stdout, report)
	return nil
}
