package resolve

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/crosslink/internal/pyparse"
)

// TargetSep separates the file path from the symbol name in a composite
// link target.
const TargetSep = "::"

// FileHash returns the sha256 hex digest of a file's exact byte content.
func FileHash(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("resolve: read %s: %w", path, err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(content)), nil
}

// SymbolHash returns the structural fingerprint of the named symbol in the
// given file (relative to root). When the fingerprint cannot be computed —
// unparseable file or vanished symbol — it falls back to the enclosing
// file's content hash rather than failing the reference.
func SymbolHash(ctx context.Context, root, file, name string) (string, error) {
	abs := filepath.Join(root, file)
	syms, err := pyparse.ParseFile(ctx, abs)
	if err != nil {
		return FileHash(abs)
	}
	sym := pyparse.FindSymbol(syms, name)
	if sym == nil {
		return FileHash(abs)
	}
	return sym.Fingerprint, nil
}

// LinkHash recomputes a link's current hash using the same method that
// produced its stored hash. The staleness checker and the resolver share
// this so the two can never disagree on method.
func LinkHash(ctx context.Context, root string, l *Link) (string, error) {
	if l.Kind == "symbol" {
		file, name, ok := SplitTarget(l.Target)
		if !ok {
			return "", fmt.Errorf("resolve: malformed symbol target %q", l.Target)
		}
		return SymbolHash(ctx, root, file, name)
	}
	return FileHash(filepath.Join(root, l.Target))
}

// SplitTarget splits a "path::symbol" composite target.
func SplitTarget(target string) (file, name string, ok bool) {
	i := strings.Index(target, TargetSep)
	if i < 0 {
		return "", "", false
	}
	return target[:i], target[i+len(TargetSep):], true
}
