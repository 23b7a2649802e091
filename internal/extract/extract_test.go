package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		KnownSymbols: map[string]struct{}{
			"authenticate": {},
			"Session":      {},
			"helpers":      {},
		},
		InternalPackages: map[string]struct{}{
			"app": {},
		},
	}
}

func TestScan_InlineFileRefs(t *testing.T) {
	refs := Scan([]byte("See `app/models/user.py` and `config.yml`.\n"), testOptions())
	require.Len(t, refs, 2)
	assert.Equal(t, Ref{Text: "app/models/user.py", Kind: RefFile, Line: 1}, refs[0])
	assert.Equal(t, Ref{Text: "config.yml", Kind: RefFile, Line: 1}, refs[1])
}

func TestScan_InlineSymbolRefs(t *testing.T) {
	doc := "Call `authenticate()` here.\n" +
		"The `app.services.login` module.\n" +
		"Dotted `auth.authenticate` works too.\n" +
		"But `unknown_name` is not extracted.\n" +
		"Nor is `whatever.external.thing`.\n"
	refs := Scan([]byte(doc), testOptions())

	require.Len(t, refs, 3)
	assert.Equal(t, Ref{Text: "authenticate()", Kind: RefSymbol, Line: 1}, refs[0])
	assert.Equal(t, Ref{Text: "app.services.login", Kind: RefSymbol, Line: 2}, refs[1])
	assert.Equal(t, Ref{Text: "auth.authenticate", Kind: RefSymbol, Line: 3}, refs[2])
}

func TestScan_FencedImports(t *testing.T) {
	doc := "Usage:\n" +
		"```python\n" +
		"from app.services import auth\n" +
		"import app.models\n" +
		"import os\n" +
		"from external.helpers import thing\n" +
		"```\n" +
		"Inline `import app.ignored` outside a fence is not an import ref.\n"
	refs := Scan([]byte(doc), testOptions())

	require.Len(t, refs, 3)
	assert.Equal(t, Ref{Text: "app.services", Kind: RefImport, Line: 3}, refs[0])
	assert.Equal(t, Ref{Text: "app.models", Kind: RefImport, Line: 4}, refs[1])
	// external.helpers: final component names a known symbol.
	assert.Equal(t, Ref{Text: "external.helpers", Kind: RefImport, Line: 6}, refs[2])
}

func TestScan_InlineCodeInsideFenceIgnored(t *testing.T) {
	doc := "```\n`app/models/user.py`\n```\n"
	refs := Scan([]byte(doc), testOptions())
	assert.Empty(t, refs)
}

func TestScan_DedupePerLine(t *testing.T) {
	doc := "`authenticate` and `authenticate` again.\n" +
		"And `authenticate` on another line.\n"
	refs := Scan([]byte(doc), testOptions())

	require.Len(t, refs, 2)
	assert.Equal(t, 1, refs[0].Line)
	assert.Equal(t, 2, refs[1].Line)
}

func TestScan_LineNumbersExact(t *testing.T) {
	doc := "# Title\n\nIntro text.\n\nUse `Session` here.\n"
	refs := Scan([]byte(doc), testOptions())
	require.Len(t, refs, 1)
	assert.Equal(t, 5, refs[0].Line)
}

func TestScan_FreeTextNeverMined(t *testing.T) {
	doc := "authenticate is mentioned in prose, app/models/user.py too.\n"
	refs := Scan([]byte(doc), testOptions())
	assert.Empty(t, refs)
}

func TestScan_NoKnownSet(t *testing.T) {
	doc := "`some_name` and `app.thing` and `file.py`\n"
	refs := Scan([]byte(doc), Options{
		InternalPackages: map[string]struct{}{"app": {}},
	})
	require.Len(t, refs, 2)
	assert.Equal(t, RefSymbol, refs[0].Kind)
	assert.Equal(t, "app.thing", refs[0].Text)
	assert.Equal(t, RefFile, refs[1].Kind)
}
