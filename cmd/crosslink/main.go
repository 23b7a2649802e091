package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/crosslink"
	"github.com/jward/crosslink/internal/config"
)

var (
	flagDir     string
	flagFormat  string
	flagVerbose bool
)

// exitIssues is set by commands that found stale, broken, or ambiguous
// references: the tree is not clean, but nothing failed.
var exitIssues bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if errors.Is(err, crosslink.ErrNoSymbolsIndex) || errors.Is(err, crosslink.ErrNoLinksIndex) {
			os.Exit(1) // missing prerequisite artifact
		}
		os.Exit(2)
	}
	if exitIssues {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "crosslink",
	Short:         "Keep documentation and code cross-referenced and in sync",
	Long:          "Crosslink indexes code symbols with tree-sitter, extracts code references from Markdown, resolves them to exact targets, and detects when a reference has gone stale because the code changed.",
	Version:       crosslink.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "analysis root directory")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log per-file warnings and debug detail")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(refsCmd)
}

var (
	flagSources string
	flagDocs    string
)

func init() {
	for _, cmd := range []*cobra.Command{buildCmd, symbolsCmd, refsCmd, fixCmd} {
		cmd.Flags().StringVar(&flagSources, "sources", "", "comma-separated source subdirectories (overrides config)")
		cmd.Flags().StringVar(&flagDocs, "docs", "", "comma-separated doc dirs/files/globs (overrides config)")
	}
}

// newEngine resolves the analysis root, loads .crosslink.yml, applies flag
// overrides, and constructs the Engine.
func newEngine() (*crosslink.Engine, error) {
	root, err := filepath.Abs(flagDir)
	if err != nil {
		return nil, fmt.Errorf("resolving --dir %q: %w", flagDir, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if flagSources != "" {
		cfg.SourceDirs = splitList(flagSources)
	}
	if flagDocs != "" {
		cfg.Docs = splitList(flagDocs)
	}

	return crosslink.New(root,
		crosslink.WithSourceDirs(cfg.SourceDirs...),
		crosslink.WithDocs(cfg.Docs...),
		crosslink.WithArtifactsDir(cfg.ArtifactsDir),
		crosslink.WithLogger(slog.Default()),
	)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
