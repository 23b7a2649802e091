package pyparse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `"""Module docstring."""

MAX_RETRIES = 3
TIMEOUT: float = 30.0
lowercase_var = 1

def authenticate(user, password, *, strict=False) -> bool:
    """Check credentials."""
    return user == password

class Session:
    """A login session."""

    def __init__(self, user):
        self.user = user

    @property
    def active(self):
        return True

@decorator
def helper():
    pass
`

func mustParse(t *testing.T, src string) []Symbol {
	t.Helper()
	syms, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return syms
}

func TestParse_ModuleLevelSymbols(t *testing.T) {
	syms := mustParse(t, sampleSource)

	byName := make(map[string]Symbol)
	for _, s := range syms {
		byName[s.Name] = s
	}

	assert.Contains(t, byName, "MAX_RETRIES")
	assert.Contains(t, byName, "TIMEOUT")
	assert.NotContains(t, byName, "lowercase_var")
	assert.Contains(t, byName, "authenticate")
	assert.Contains(t, byName, "Session")
	assert.Contains(t, byName, "Session.__init__")
	assert.Contains(t, byName, "Session.active")
	assert.Contains(t, byName, "helper")

	assert.Equal(t, KindConstant, byName["MAX_RETRIES"].Kind)
	assert.Equal(t, KindFunction, byName["authenticate"].Kind)
	assert.Equal(t, KindClass, byName["Session"].Kind)
	assert.Equal(t, KindMethod, byName["Session.active"].Kind)
}

func TestParse_LinesAndSignatures(t *testing.T) {
	syms := mustParse(t, sampleSource)

	auth := FindSymbol(syms, "authenticate")
	require.NotNil(t, auth)
	assert.Equal(t, 7, auth.Line)
	assert.Equal(t, "authenticate(user, password, *, strict=False) -> bool", auth.Signature)

	sess := FindSymbol(syms, "Session")
	require.NotNil(t, sess)
	assert.Equal(t, "class Session", sess.Signature)

	timeout := FindSymbol(syms, "TIMEOUT")
	require.NotNil(t, timeout)
	assert.Equal(t, "TIMEOUT: float", timeout.Signature)
	assert.Equal(t, 4, timeout.Line)
}

func TestParse_NestedFunctionsNotIndexed(t *testing.T) {
	syms := mustParse(t, `
def outer():
    def inner():
        pass
    return inner
`)
	assert.NotNil(t, FindSymbol(syms, "outer"))
	assert.Nil(t, FindSymbol(syms, "inner"))
}

func TestParse_SyntaxErrorRejected(t *testing.T) {
	_, err := Parse(context.Background(), []byte("def broken(:\n"))
	require.Error(t, err)
}

func TestParse_InvalidUTF8Rejected(t *testing.T) {
	_, err := Parse(context.Background(), []byte{0xff, 0xfe, 'x'})
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0o644))

	syms, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "f", syms[0].Name)

	_, err = ParseFile(context.Background(), filepath.Join(dir, "missing.py"))
	require.Error(t, err)
}

func fingerprintOf(t *testing.T, src, name string) string {
	t.Helper()
	sym := FindSymbol(mustParse(t, src), name)
	require.NotNil(t, sym, "symbol %s not found", name)
	return sym.Fingerprint
}

func TestFingerprint_InsensitiveToCosmeticEdits(t *testing.T) {
	base := fingerprintOf(t, `
def f(a, b):
    """Sum."""
    return a + b
`, "f")

	reformatted := fingerprintOf(t, `
def f(a,   b):
    # a comment
    """A completely different docstring."""
    return a   +   b
`, "f")

	assert.Equal(t, base, reformatted)
}

func TestFingerprint_SensitiveToRealEdits(t *testing.T) {
	base := fingerprintOf(t, `
def f(a, b):
    return a + b
`, "f")

	cases := map[string]string{
		"parameter added": `
def f(a, b, c):
    return a + b
`,
		"body changed": `
def f(a, b):
    return a - b
`,
		"control flow added": `
def f(a, b):
    if a:
        return b
    return a + b
`,
	}
	for label, src := range cases {
		assert.NotEqual(t, base, fingerprintOf(t, src, "f"), label)
	}
}

func TestFingerprint_ClassCoversMethods(t *testing.T) {
	base := fingerprintOf(t, `
class C:
    def m(self):
        pass
`, "C")

	withExtra := fingerprintOf(t, `
class C:
    def m(self):
        pass

    def n(self):
        pass
`, "C")

	assert.NotEqual(t, base, withExtra)
}

func TestFingerprint_PositionIndependent(t *testing.T) {
	// Same definition pushed down by unrelated code must hash identically.
	a := fingerprintOf(t, "def f():\n    return 1\n", "f")
	b := fingerprintOf(t, "X = 9\n\n\ndef f():\n    return 1\n", "f")
	assert.Equal(t, a, b)
}

func TestFingerprint_ConstantValueChange(t *testing.T) {
	a := fingerprintOf(t, "LIMIT = 10\n", "LIMIT")
	b := fingerprintOf(t, "LIMIT = 20\n", "LIMIT")
	c := fingerprintOf(t, "LIMIT =   10\n", "LIMIT")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}
