package crosslink

import (
	"github.com/jward/crosslink/internal/check"
	"github.com/jward/crosslink/internal/extract"
	"github.com/jward/crosslink/internal/fixctx"
	"github.com/jward/crosslink/internal/index"
	"github.com/jward/crosslink/internal/resolve"
)

// Aliases exposing the pipeline's artifact types through the root package,
// so Engine callers never import internal packages. Aliases, not wrappers:
// values flow through without conversion.

type SymbolIndex = index.Index
type SymbolEntry = index.Entry
type ExtractedRef = extract.Ref
type ExtractedRefs = extract.Refs
type ResolvedLink = resolve.Link
type BrokenRef = resolve.Broken
type AmbiguousRef = resolve.Ambiguous
type LinksIndex = resolve.LinksIndex
type CheckReport = check.Report
type CheckRow = check.Row
type FixReport = fixctx.Report
type FixIssue = fixctx.Issue
