package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/crosslink"
	"github.com/jward/crosslink/internal/extract"
	"github.com/jward/crosslink/internal/index"
)

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
	assert.Error(t, validateFormat(""))
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"src"}, splitList("src,"))
	assert.Empty(t, splitList(" , "))
}

func TestFormatStatusText_NeverChecked(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	formatStatusText(&b, &crosslink.StatusReport{
		Symbols: 3, SourceFiles: 2, TotalLinks: 1,
		DocRows: []crosslink.DocStatus{{Doc: "docs/guide.md", Links: 1}},
	})
	out := b.String()
	assert.Contains(t, out, "Last check: never")
	assert.Contains(t, out, "docs/guide.md")
}

func TestFormatSymbolsText(t *testing.T) {
	t.Parallel()
	ix := &crosslink.SymbolIndex{
		SymbolCount: 1,
		FileCount:   1,
		Symbols: map[string][]index.Entry{
			"authenticate": {{File: "app/auth.py", Line: 3, Kind: "function", Signature: "authenticate(user)"}},
		},
	}
	var b strings.Builder
	formatSymbolsText(&b, ix)
	out := b.String()
	assert.Contains(t, out, "authenticate")
	assert.Contains(t, out, "app/auth.py")
	assert.Contains(t, out, "1 symbols in 1 files")
}

func TestFormatRefsText(t *testing.T) {
	t.Parallel()
	refs := &crosslink.ExtractedRefs{
		DocCount: 1,
		RefCount: 1,
		Docs: map[string][]extract.Ref{
			"README.md": {{Text: "app/auth.py", Kind: extract.RefFile, Line: 4}},
		},
	}
	var b strings.Builder
	formatRefsText(&b, refs)
	require.Contains(t, b.String(), "README.md")
	assert.Contains(t, b.String(), "app/auth.py")
}
