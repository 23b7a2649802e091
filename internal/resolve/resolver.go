package resolve

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jward/crosslink/internal/extract"
	"github.com/jward/crosslink/internal/index"
)

// Resolver maps extracted references onto the source tree and symbol index.
type Resolver struct {
	root string
	idx  *index.Index
}

// New creates a Resolver for the tree at root.
func New(root string, idx *index.Index) *Resolver {
	return &Resolver{root: root, idx: idx}
}

// Resolve produces exactly one outcome for a reference.
func (r *Resolver) Resolve(ctx context.Context, ref extract.Ref) Outcome {
	switch ref.Kind {
	case extract.RefFile:
		return r.resolveFile(ref)
	case extract.RefImport:
		return r.resolveImport(ref)
	case extract.RefSymbol:
		return r.resolveSymbol(ctx, ref)
	default:
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("unknown reference kind %q", ref.Kind)}
	}
}

func (r *Resolver) resolveFile(ref extract.Ref) Outcome {
	rel := filepath.ToSlash(filepath.Clean(ref.Text))
	if !fileExists(filepath.Join(r.root, rel)) {
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("file not found: %s", ref.Text)}
	}
	hash, err := FileHash(filepath.Join(r.root, rel))
	if err != nil {
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("cannot read %s: %v", ref.Text, err)}
	}
	return &Link{Ref: ref.Text, Target: rel, Kind: "file", Hash: hash, Line: ref.Line}
}

func (r *Resolver) resolveImport(ref extract.Ref) Outcome {
	rel, ok := ModuleFile(r.root, ref.Text)
	if !ok {
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("module not found: %s", ref.Text)}
	}
	hash, err := FileHash(filepath.Join(r.root, rel))
	if err != nil {
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("cannot read module %s: %v", ref.Text, err)}
	}
	return &Link{Ref: ref.Text, Target: rel, Kind: "import", Hash: hash, Line: ref.Line}
}

// resolveSymbol implements the disambiguation algorithm. A trailing call
// suffix is stripped before lookup. The full (possibly dotted) name is tried
// first, which is how "Class.method" entries are found; a dotted name that
// is not itself an index key is then split into a module qualifier and a
// base name, and the qualifier narrows the base name's candidates by file
// path. Qualification that narrows to more than one keeps the ambiguity with
// a distinct reason.
func (r *Resolver) resolveSymbol(ctx context.Context, ref extract.Ref) Outcome {
	name := strings.TrimSuffix(ref.Text, "()")

	entries := r.idx.Lookup(name)
	if len(entries) == 1 {
		return r.linkEntry(ctx, ref, entries[0], name)
	}
	if len(entries) > 1 {
		return &Ambiguous{
			Ref:        ref.Text,
			Line:       ref.Line,
			Reason:     fmt.Sprintf("%d definitions found for %s", len(entries), name),
			Candidates: candidates(entries),
		}
	}

	// Not an index key. Dotted references qualify the last segment by the
	// module path formed from the leading segments.
	if i := strings.LastIndex(name, "."); i > 0 {
		qualifier := name[:i]
		base := name[i+1:]
		baseEntries := r.idx.Lookup(base)
		if len(baseEntries) == 0 {
			return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("symbol not found: %s", name)}
		}

		pathFragment := strings.ReplaceAll(qualifier, ".", "/")
		var narrowed []index.Entry
		for _, e := range baseEntries {
			if strings.Contains(e.File, pathFragment) {
				narrowed = append(narrowed, e)
			}
		}
		switch len(narrowed) {
		case 1:
			return r.linkEntry(ctx, ref, narrowed[0], base)
		case 0:
			return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("%s not found in module %s", base, qualifier)}
		default:
			return &Ambiguous{
				Ref:        ref.Text,
				Line:       ref.Line,
				Reason:     fmt.Sprintf("still ambiguous after qualification: %s", name),
				Candidates: candidates(narrowed),
			}
		}
	}

	return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("symbol not found: %s", name)}
}

// linkEntry builds a resolved symbol link, hashing the entry's structural
// fingerprint (with file-hash fallback inside SymbolHash).
func (r *Resolver) linkEntry(ctx context.Context, ref extract.Ref, e index.Entry, name string) Outcome {
	hash, err := SymbolHash(ctx, r.root, e.File, name)
	if err != nil {
		return &Broken{Ref: ref.Text, Line: ref.Line, Reason: fmt.Sprintf("cannot hash %s: %v", e.File, err)}
	}
	return &Link{
		Ref:    ref.Text,
		Target: e.File + TargetSep + name,
		Kind:   "symbol",
		Hash:   hash,
		Line:   ref.Line,
	}
}

func candidates(entries []index.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return out
}
