// Package config loads the optional .crosslink.yml project file. Every field
// has a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up at the analysis root.
const FileName = ".crosslink.yml"

// Config selects what to scan and where artifacts live.
type Config struct {
	// SourceDirs are the subdirectories indexed for symbols. Default: ["."].
	SourceDirs []string `yaml:"source_dirs"`
	// Docs are the documentation patterns: directories, files, or globs.
	// Default: ["docs", "README.md"].
	Docs []string `yaml:"docs"`
	// ArtifactsDir overrides where JSON artifacts are written.
	// Default: ".crosslink".
	ArtifactsDir string `yaml:"artifacts_dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SourceDirs:   []string{"."},
		Docs:         []string{"docs", "README.md"},
		ArtifactsDir: ".crosslink",
	}
}

// Load reads root/.crosslink.yml, filling unset fields with defaults.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", FileName, err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", FileName, err)
	}

	if len(loaded.SourceDirs) > 0 {
		cfg.SourceDirs = loaded.SourceDirs
	}
	if len(loaded.Docs) > 0 {
		cfg.Docs = loaded.Docs
	}
	if loaded.ArtifactsDir != "" {
		cfg.ArtifactsDir = loaded.ArtifactsDir
	}
	return cfg, nil
}
