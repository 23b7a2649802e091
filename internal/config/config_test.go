package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte("source_dirs:\n  - src\n  - lib\n"), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "lib"}, cfg.SourceDirs)
	assert.Equal(t, Default().Docs, cfg.Docs)
	assert.Equal(t, ".crosslink", cfg.ArtifactsDir)
}

func TestLoad_FullOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(
		"source_dirs: [app]\ndocs: [manual, '*.md']\nartifacts_dir: .cache/crosslink\n"), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, cfg.SourceDirs)
	assert.Equal(t, []string{"manual", "*.md"}, cfg.Docs)
	assert.Equal(t, ".cache/crosslink", cfg.ArtifactsDir)
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(":\tbad"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}
