// Package crosslink keeps narrative documentation and source code verifiably
// in sync. It indexes every named symbol in a Python tree, extracts code
// references from Markdown prose, resolves each reference to an exact file or
// symbol, and detects when a resolved reference has gone stale because the
// underlying code changed.
//
// # Pipeline
//
// Four stages run bottom-up, each persisting a versioned JSON artifact:
//
//  1. Index: parse every source file with tree-sitter and record each
//     module-level function, class, method, and constant (symbols.json).
//
//  2. Extract: scan each document for inline-code tokens and fenced import
//     lines, keeping only references that name a path, a known symbol, or an
//     internal module (extracted_refs.json).
//
//  3. Resolve: map each reference to exactly one of a resolved link, a
//     broken reference, or an ambiguous reference with candidate locations
//     (links.json). Resolved symbol links carry a structural fingerprint —
//     a hash over the parse tree with positions stripped — so reformatting
//     never looks like a code change.
//
//  4. Check + fix context: recompute every link's fingerprint, classify it
//     CURRENT or STALE, and assemble repair context for every stale, broken,
//     or ambiguous entry (fix_report.json).
//
// # Usage
//
// Create an Engine rooted at the tree to analyze, build, then check:
//
//	e, err := crosslink.New("path/to/repo")
//	if err != nil { ... }
//
//	ctx := context.Background()
//	result, err := e.Build(ctx)
//	report, err := e.Check(ctx)
//
// The crosslink command wraps the same four operations as the build, check,
// status, and fix subcommands.
package crosslink
