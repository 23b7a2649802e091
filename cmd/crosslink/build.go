package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagForce bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full pipeline: index, extract, resolve",
	Long:  "Indexes code symbols, extracts documentation references, resolves them, and writes symbols.json, extracted_refs.json, and links.json to the artifacts directory.",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&flagForce, "force", false, "delete the artifacts directory first")
}

func runBuild(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	if flagForce {
		if err := os.RemoveAll(engine.ArtifactsDir()); err != nil {
			return fmt.Errorf("removing artifacts for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared artifacts: %s\n", engine.ArtifactsDir())
	}

	start := time.Now()
	result, err := engine.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("building: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Built %s in %s\n", engine.Root(), time.Since(start).Round(time.Millisecond))

	if result.Broken+result.Errors > 0 {
		exitIssues = true
	}
	if flagFormat == "json" {
		return printJSON(result)
	}
	formatBuildText(os.Stdout, result)
	return nil
}
