package crosslink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jward/crosslink/internal/artifact"
	"github.com/jward/crosslink/internal/check"
	"github.com/jward/crosslink/internal/discover"
	"github.com/jward/crosslink/internal/extract"
	"github.com/jward/crosslink/internal/fixctx"
	"github.com/jward/crosslink/internal/index"
	"github.com/jward/crosslink/internal/resolve"
)

// Sentinel errors for missing prerequisite artifacts. The CLI maps these to
// exit code 1.
var (
	ErrNoSymbolsIndex = errors.New("crosslink: symbols.json not found (run build first)")
	ErrNoLinksIndex   = errors.New("crosslink: links.json not found (run build first)")
)

// Engine orchestrates the crosslink pipeline: symbol indexing, reference
// extraction, resolution, staleness checking, and fix-context gathering.
// Each stage reads immutable inputs and writes one owned JSON artifact.
type Engine struct {
	root         string
	artifactsDir string
	sourceDirs   []string
	docPatterns  []string
	parallel     bool
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSourceDirs restricts symbol indexing to the given subdirectories of
// the root. Default: the whole root.
func WithSourceDirs(dirs ...string) Option {
	return func(e *Engine) { e.sourceDirs = dirs }
}

// WithDocs sets the documentation patterns: directories (recursed for .md),
// files, or globs, relative to root. Default: docs and README.md.
func WithDocs(patterns ...string) Option {
	return func(e *Engine) { e.docPatterns = patterns }
}

// WithArtifactsDir overrides where JSON artifacts are written. Relative
// paths are taken under root. Default: .crosslink.
func WithArtifactsDir(dir string) Option {
	return func(e *Engine) { e.artifactsDir = dir }
}

// WithParallel controls the per-file worker pool used for parsing and
// hashing. Results are merged in path order, so output never depends on
// completion order. Default: true.
func WithParallel(parallel bool) Option {
	return func(e *Engine) { e.parallel = parallel }
}

// WithLogger sets the logger used for per-file skip warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine rooted at the given directory.
func New(root string, opts ...Option) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("crosslink: resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("crosslink: root not found: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("crosslink: root is not a directory: %s", abs)
	}

	e := &Engine{
		root:         abs,
		artifactsDir: ".crosslink",
		sourceDirs:   []string{"."},
		docPatterns:  []string{"docs", "README.md"},
		parallel:     true,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !filepath.IsAbs(e.artifactsDir) {
		e.artifactsDir = filepath.Join(abs, e.artifactsDir)
	}
	return e, nil
}

// Root returns the absolute analysis root.
func (e *Engine) Root() string { return e.root }

// ArtifactsDir returns the absolute artifacts directory.
func (e *Engine) ArtifactsDir() string { return e.artifactsDir }

func (e *Engine) artifactPath(name string) string {
	return filepath.Join(e.artifactsDir, name)
}

// BuildResult aggregates counts from a full build pass.
type BuildResult struct {
	SourceFiles int `json:"source_files"`
	Docs        int `json:"docs"`
	Symbols     int `json:"symbols"`
	Refs        int `json:"refs"`
	Links       int `json:"links"`
	Broken      int `json:"broken"`
	Errors      int `json:"errors"`
}

// Build runs all four pipeline stages in order and persists symbols.json,
// extracted_refs.json, and links.json. Artifacts are rebuilt wholesale; no
// partial merge.
func (e *Engine) Build(ctx context.Context) (*BuildResult, error) {
	files, ix, err := e.buildSymbols(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := e.extractRefs(ix, files)
	if err != nil {
		return nil, err
	}
	links, err := e.resolveRefs(ctx, ix, refs)
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		SourceFiles: len(files),
		Docs:        refs.DocCount,
		Symbols:     ix.SymbolCount,
		Refs:        refs.RefCount,
		Links:       links.TotalLinks,
		Broken:      links.TotalBroken,
		Errors:      links.TotalErrors,
	}, nil
}

// IndexSymbols runs only the symbol indexing stage and persists symbols.json.
func (e *Engine) IndexSymbols(ctx context.Context) (*SymbolIndex, error) {
	_, ix, err := e.buildSymbols(ctx)
	return ix, err
}

func (e *Engine) buildSymbols(ctx context.Context) ([]string, *SymbolIndex, error) {
	files, err := discover.SourceFiles(e.root, e.sourceDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("crosslink: discover sources: %w", err)
	}
	ix, err := index.NewBuilder(e.root, e.logger, e.parallel).Build(ctx, files)
	if err != nil {
		return nil, nil, fmt.Errorf("crosslink: index symbols: %w", err)
	}
	if err := artifact.Save(e.artifactPath(artifact.SymbolsFile), ix); err != nil {
		return nil, nil, err
	}
	return files, ix, nil
}

// ExtractRefs runs only the reference extraction stage against a previously
// built symbol index, persisting extracted_refs.json.
func (e *Engine) ExtractRefs(ctx context.Context) (*ExtractedRefs, error) {
	ix, err := e.loadSymbols()
	if err != nil {
		return nil, err
	}
	files, err := discover.SourceFiles(e.root, e.sourceDirs)
	if err != nil {
		return nil, fmt.Errorf("crosslink: discover sources: %w", err)
	}
	return e.extractRefs(ix, files)
}

func (e *Engine) extractRefs(ix *SymbolIndex, files []string) (*ExtractedRefs, error) {
	docs, err := discover.DocFiles(e.root, e.docPatterns)
	if err != nil {
		return nil, fmt.Errorf("crosslink: discover docs: %w", err)
	}

	opts := extract.Options{
		KnownSymbols:     ix.Names(),
		InternalPackages: index.InternalPackages(files),
	}
	refs := &extract.Refs{
		Generated: time.Now().UTC(),
		Docs:      make(map[string][]extract.Ref),
	}
	for _, doc := range docs {
		rs, err := extract.ScanFile(filepath.Join(e.root, doc), opts)
		if err != nil {
			e.logger.Warn("skipping unreadable document", "doc", doc, "err", err)
			continue
		}
		refs.Docs[doc] = rs
		refs.DocCount++
		refs.RefCount += len(rs)
	}

	if err := artifact.Save(e.artifactPath(artifact.RefsFile), refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (e *Engine) resolveRefs(ctx context.Context, ix *SymbolIndex, refs *ExtractedRefs) (*LinksIndex, error) {
	r := resolve.New(e.root, ix)

	links := &resolve.LinksIndex{
		Generated: time.Now().UTC(),
		Docs:      make(map[string]*resolve.DocLinks),
	}
	docs := make([]string, 0, len(refs.Docs))
	for doc := range refs.Docs {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	for _, doc := range docs {
		dl := &resolve.DocLinks{}
		for _, ref := range refs.Docs[doc] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			dl.Add(r.Resolve(ctx, ref))
		}
		links.Docs[doc] = dl
	}
	links.Recount()

	if err := artifact.Save(e.artifactPath(artifact.LinksFile), links); err != nil {
		return nil, err
	}
	return links, nil
}

// Check reruns staleness against the existing links index: every link's
// current hash is recomputed and compared to the stored one, the index is
// updated in place with statuses and a checked timestamp, and rewritten
// whole for atomicity.
func (e *Engine) Check(ctx context.Context) (*CheckReport, error) {
	links, err := e.loadLinks()
	if err != nil {
		return nil, err
	}
	report, err := check.Run(ctx, e.root, links)
	if err != nil {
		return nil, fmt.Errorf("crosslink: check links: %w", err)
	}
	if err := artifact.Save(e.artifactPath(artifact.LinksFile), links); err != nil {
		return nil, err
	}
	return report, nil
}

// Fix runs a check pass and then gathers repair context for every stale
// link, broken ref, and ambiguous ref, persisting fix_report.json.
func (e *Engine) Fix(ctx context.Context) (*FixReport, error) {
	links, err := e.loadLinks()
	if err != nil {
		return nil, err
	}
	if _, err := check.Run(ctx, e.root, links); err != nil {
		return nil, fmt.Errorf("crosslink: check links: %w", err)
	}
	if err := artifact.Save(e.artifactPath(artifact.LinksFile), links); err != nil {
		return nil, err
	}

	ix, err := e.loadSymbols()
	if err != nil {
		return nil, err
	}
	files, err := discover.SourceFiles(e.root, e.sourceDirs)
	if err != nil {
		return nil, fmt.Errorf("crosslink: discover sources: %w", err)
	}

	report, err := fixctx.NewGatherer(e.root, ix, files).Gather(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("crosslink: gather fix context: %w", err)
	}
	if err := artifact.Save(e.artifactPath(artifact.FixFile), report); err != nil {
		return nil, err
	}
	return report, nil
}

// StatusReport summarizes the persisted artifacts without recomputation.
type StatusReport struct {
	Symbols     int         `json:"symbols"`
	SourceFiles int         `json:"source_files"`
	Docs        int         `json:"docs"`
	Refs        int         `json:"refs"`
	TotalLinks  int         `json:"total_links"`
	TotalBroken int         `json:"total_broken"`
	TotalErrors int         `json:"total_errors"`
	Stale       int         `json:"stale"`
	Checked     *time.Time  `json:"checked,omitempty"`
	DocRows     []DocStatus `json:"doc_rows"`
}

// DocStatus is one document's per-artifact counts.
type DocStatus struct {
	Doc    string `json:"doc"`
	Links  int    `json:"links"`
	Broken int    `json:"broken"`
	Errors int    `json:"errors"`
	Stale  int    `json:"stale"`
}

// Status reads the persisted artifacts and reports their counts. Stale
// counts are zero until a check pass has stamped statuses.
func (e *Engine) Status() (*StatusReport, error) {
	ix, err := e.loadSymbols()
	if err != nil {
		return nil, err
	}
	links, err := e.loadLinks()
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Symbols:     ix.SymbolCount,
		SourceFiles: ix.FileCount,
		TotalLinks:  links.TotalLinks,
		TotalBroken: links.TotalBroken,
		TotalErrors: links.TotalErrors,
		Checked:     links.Checked,
	}

	var refs extract.Refs
	if err := artifact.Load(e.artifactPath(artifact.RefsFile), &refs); err == nil {
		report.Docs = refs.DocCount
		report.Refs = refs.RefCount
	}

	docs := make([]string, 0, len(links.Docs))
	for doc := range links.Docs {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	for _, doc := range docs {
		dl := links.Docs[doc]
		row := DocStatus{
			Doc:    doc,
			Links:  len(dl.Links),
			Broken: len(dl.Broken),
			Errors: len(dl.Ambiguous),
		}
		for _, l := range dl.Links {
			if l.Status == resolve.StatusStale {
				row.Stale++
			}
		}
		report.Stale += row.Stale
		report.DocRows = append(report.DocRows, row)
	}
	return report, nil
}

func (e *Engine) loadSymbols() (*SymbolIndex, error) {
	var ix index.Index
	if err := artifact.Load(e.artifactPath(artifact.SymbolsFile), &ix); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSymbolsIndex
		}
		return nil, err
	}
	return &ix, nil
}

func (e *Engine) loadLinks() (*LinksIndex, error) {
	var links resolve.LinksIndex
	if err := artifact.Load(e.artifactPath(artifact.LinksFile), &links); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoLinksIndex
		}
		return nil, err
	}
	if links.Docs == nil {
		links.Docs = make(map[string]*resolve.DocLinks)
	}
	return &links, nil
}
