package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jward/crosslink/internal/pyparse"
)

// Builder produces an Index from a set of source files.
type Builder struct {
	root     string
	logger   *slog.Logger
	parallel bool
}

// NewBuilder creates a Builder for files under root. A nil logger is
// replaced with slog.Default.
func NewBuilder(root string, logger *slog.Logger, parallel bool) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{root: root, logger: logger, parallel: parallel}
}

// Build parses every file and merges the results into a fresh Index. Files
// are parsed in parallel when enabled, but merged in sorted path order so the
// output never depends on completion order. A file that fails to parse or
// decode is logged and skipped; it contributes zero entries.
func (b *Builder) Build(ctx context.Context, files []string) (*Index, error) {
	paths := make([]string, len(files))
	copy(paths, files)
	sort.Strings(paths)

	perFile := make([][]pyparse.Symbol, len(paths))

	if b.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for i, rel := range paths {
			i, rel := i, rel
			g.Go(func() error {
				perFile[i] = b.parseOne(gctx, rel)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, rel := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perFile[i] = b.parseOne(ctx, rel)
		}
	}

	ix := &Index{
		Generated: time.Now().UTC(),
		Symbols:   make(map[string][]Entry),
	}
	for i, rel := range paths {
		syms := perFile[i]
		if syms == nil {
			continue
		}
		ix.FileCount++
		for _, s := range syms {
			ix.Symbols[s.Name] = append(ix.Symbols[s.Name], Entry{
				File:      rel,
				Line:      s.Line,
				Kind:      s.Kind,
				Signature: s.Signature,
			})
			ix.SymbolCount++
		}
	}
	for name := range ix.Symbols {
		sortEntries(ix.Symbols[name])
	}
	return ix, nil
}

// parseOne parses a single file, returning a non-nil (possibly empty) slice
// on success and nil on a skipped file.
func (b *Builder) parseOne(ctx context.Context, rel string) []pyparse.Symbol {
	syms, err := pyparse.ParseFile(ctx, filepath.Join(b.root, rel))
	if err != nil {
		b.logger.Warn("skipping unparseable file", "file", rel, "err", err)
		return nil
	}
	if syms == nil {
		syms = []pyparse.Symbol{}
	}
	return syms
}
