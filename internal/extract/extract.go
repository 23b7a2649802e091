// Package extract scans Markdown documents for code references. The grammar
// is deliberately conservative: inline backtick tokens and import lines
// inside fenced code blocks are the only sources of references, and a token
// must look like a path, a known symbol, or an internal module to count.
// Missing a reference is safe; inventing one is not.
package extract

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// RefKind classifies an extracted reference.
type RefKind string

const (
	RefFile   RefKind = "file"
	RefSymbol RefKind = "symbol"
	RefImport RefKind = "import"
)

// Ref is one raw reference occurrence in a document.
type Ref struct {
	Text string  `json:"text"`
	Kind RefKind `json:"kind"`
	Line int     `json:"line"` // 1-based, exact in the raw file
}

// Refs is the persisted extraction artifact: references grouped per document.
type Refs struct {
	Generated time.Time        `json:"generated"`
	DocCount  int              `json:"doc_count"`
	RefCount  int              `json:"ref_count"`
	Docs      map[string][]Ref `json:"docs"`
}

// Options informs classification. Both sets are optional; with nothing known,
// only path-shaped tokens and internal imports are extracted.
type Options struct {
	// KnownSymbols is the symbol index's name set, used to accept bare and
	// dotted identifiers as symbol references.
	KnownSymbols map[string]struct{}
	// InternalPackages is the set of top-level package/module names inside
	// the analyzed tree.
	InternalPackages map[string]struct{}
}

var (
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	filePathRe   = regexp.MustCompile(`^[\w./\-]+\.(py|md|txt|json|ya?ml|toml|cfg|ini|sh|sql|html|css|js|ts)$`)
	identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	fromImportRe = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\s+`)
	importRe     = regexp.MustCompile(`^\s*import\s+([\w.]+)`)
)

// Scan extracts references from one document's content. Output is ordered by
// line ascending and deduplicated by (text, line).
func Scan(content []byte, opts Options) []Ref {
	var refs []Ref
	seen := make(map[string]struct{})
	add := func(text string, kind RefKind, line int) {
		key := fmt.Sprintf("%s\x00%d", text, line)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		refs = append(refs, Ref{Text: text, Kind: kind, Line: line})
	}

	inFence := false
	for i, line := range strings.Split(string(content), "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}

		if inFence {
			if mod, ok := importLine(line); ok && isInternalModule(mod, opts) {
				add(mod, RefImport, lineNo)
			}
			continue
		}

		for _, m := range inlineCodeRe.FindAllStringSubmatch(line, -1) {
			token := strings.TrimSpace(m[1])
			if kind, ok := classifyInline(token, opts); ok {
				add(token, kind, lineNo)
			}
		}
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Line < refs[j].Line })
	return refs
}

// ScanFile reads and scans a single document.
func ScanFile(path string, opts Options) ([]Ref, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract: read %s: %w", path, err)
	}
	return Scan(content, opts), nil
}

// classifyInline decides whether an inline-code token is a reference. Paths
// with a known extension are file refs; identifiers are symbol refs when they
// name a known symbol (directly or via a dotted component) or when their
// leading component is an internal package.
func classifyInline(token string, opts Options) (RefKind, bool) {
	if token == "" {
		return "", false
	}
	if filePathRe.MatchString(token) {
		return RefFile, true
	}

	name := strings.TrimSuffix(token, "()")
	if !identifierRe.MatchString(name) {
		return "", false
	}

	if _, ok := opts.KnownSymbols[name]; ok {
		return RefSymbol, true
	}
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		for _, part := range parts {
			if _, ok := opts.KnownSymbols[part]; ok {
				return RefSymbol, true
			}
		}
		if _, ok := opts.InternalPackages[parts[0]]; ok {
			return RefSymbol, true
		}
	}
	return "", false
}

// importLine matches the two import statement shapes and returns the module.
func importLine(line string) (string, bool) {
	if m := fromImportRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := importRe.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// isInternalModule judges whether an imported module belongs to the analyzed
// tree: its leading component is an internal top-level package, or its final
// component names a known symbol.
func isInternalModule(mod string, opts Options) bool {
	parts := strings.Split(mod, ".")
	if _, ok := opts.InternalPackages[parts[0]]; ok {
		return true
	}
	if _, ok := opts.KnownSymbols[parts[len(parts)-1]]; ok {
		return true
	}
	return false
}
