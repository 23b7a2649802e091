package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report counts from the persisted artifacts",
	Long:  "Reads symbols.json and links.json and prints aggregate and per-document counts without recomputing anything.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	status, err := engine.Status()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if status.TotalBroken+status.TotalErrors+status.Stale > 0 {
		exitIssues = true
	}
	if flagFormat == "json" {
		return printJSON(status)
	}
	formatStatusText(os.Stdout, status)
	return nil
}
