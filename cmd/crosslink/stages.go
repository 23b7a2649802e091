package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// symbolsCmd and refsCmd run a single pipeline stage, mainly for debugging
// what the indexer or extractor sees.

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Run only the symbol indexing stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		ix, err := engine.IndexSymbols(cmd.Context())
		if err != nil {
			return fmt.Errorf("indexing symbols: %w", err)
		}
		if flagFormat == "json" {
			return printJSON(ix)
		}
		formatSymbolsText(os.Stdout, ix)
		return nil
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Run only the reference extraction stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		refs, err := engine.ExtractRefs(cmd.Context())
		if err != nil {
			return fmt.Errorf("extracting refs: %w", err)
		}
		if flagFormat == "json" {
			return printJSON(refs)
		}
		formatRefsText(os.Stdout, refs)
		return nil
	},
}
