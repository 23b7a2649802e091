// Package index builds and queries the symbol index: a snapshot mapping each
// symbol name to every definition site found in the source tree. A name with
// multiple definitions keeps them all; disambiguation is the resolver's job.
package index

import (
	"sort"
	"strings"
	"time"

	"github.com/jward/crosslink/internal/pyparse"
)

// Entry is one definition site for a symbol name.
type Entry struct {
	File      string       `json:"file"`
	Line      int          `json:"line"`
	Kind      pyparse.Kind `json:"kind"`
	Signature string       `json:"signature"`
}

// Index is an immutable snapshot of all symbols in a tree. It is rebuilt
// wholesale on each run, never patched.
type Index struct {
	Generated   time.Time          `json:"generated"`
	SymbolCount int                `json:"symbol_count"`
	FileCount   int                `json:"file_count"`
	Symbols     map[string][]Entry `json:"symbols"`
}

// Lookup returns every definition site for name, or nil.
func (ix *Index) Lookup(name string) []Entry {
	return ix.Symbols[name]
}

// Names returns the set of all indexed symbol names, including both bare
// names and "Class.method" composites.
func (ix *Index) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(ix.Symbols))
	for name := range ix.Symbols {
		names[name] = struct{}{}
	}
	return names
}

// sortEntries makes entry order deterministic: by file, then line.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].File != entries[j].File {
			return entries[i].File < entries[j].File
		}
		return entries[i].Line < entries[j].Line
	})
}

// InternalPackages derives the set of top-level package/module names from the
// indexed file paths: the first path segment of any nested source file, plus
// the stem of any root-level module. The extractor uses this to judge whether
// a dotted reference points inside the tree.
func InternalPackages(files []string) map[string]struct{} {
	pkgs := make(map[string]struct{})
	for _, f := range files {
		if i := strings.IndexByte(f, '/'); i > 0 {
			pkgs[f[:i]] = struct{}{}
		} else if strings.HasSuffix(f, ".py") {
			pkgs[strings.TrimSuffix(f, ".py")] = struct{}{}
		}
	}
	return pkgs
}
