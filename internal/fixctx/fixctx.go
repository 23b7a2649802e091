// Package fixctx assembles repair context for every stale, broken, or
// ambiguous reference found by a check pass. It never touches code or
// documentation; it only emits a structured report plus a human-readable
// prompt per issue for a downstream agent or human to act on.
package fixctx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jward/crosslink/internal/index"
	"github.com/jward/crosslink/internal/pyparse"
	"github.com/jward/crosslink/internal/resolve"
)

// IssueKind classifies why a reference needs repair.
type IssueKind string

const (
	IssueStale     IssueKind = "stale"
	IssueBroken    IssueKind = "broken"
	IssueAmbiguous IssueKind = "ambiguous"
)

// maxCandidates caps the suggestion list for broken references.
const maxCandidates = 5

// Issue is the repair context for one problem reference.
type Issue struct {
	Doc     string    `json:"doc"`
	Ref     string    `json:"ref"`
	Line    int       `json:"line"`
	Kind    IssueKind `json:"kind"`
	Reason  string    `json:"reason"`
	Section string    `json:"section,omitempty"` // nearest preceding heading
	// CurrentSource is the exact current source text of a stale symbol.
	CurrentSource string `json:"current_source,omitempty"`
	// Candidates are repair suggestions: the resolver's ambiguity candidates,
	// or same-stem files and symbols for broken references.
	Candidates []string `json:"candidates,omitempty"`
}

// Report is the persisted fix_report.json artifact. TotalIssues always equals
// Stale+Broken+Errors and len(Issues).
type Report struct {
	Generated   time.Time `json:"generated"`
	TotalIssues int       `json:"total_issues"`
	Stale       int       `json:"stale"`
	Broken      int       `json:"broken"`
	Errors      int       `json:"errors"`
	Issues      []Issue   `json:"issues"`
}

// Gatherer builds fix contexts from a checked links index.
type Gatherer struct {
	root    string
	idx     *index.Index
	sources []string
}

// NewGatherer creates a Gatherer. sources is the relative source file list
// used for broken-reference candidate search.
func NewGatherer(root string, idx *index.Index, sources []string) *Gatherer {
	return &Gatherer{root: root, idx: idx, sources: sources}
}

// Gather produces one Issue per stale link, broken ref, and ambiguous ref.
// Documents are processed in sorted order; within a document issues are
// ordered by line.
func (g *Gatherer) Gather(ctx context.Context, li *resolve.LinksIndex) (*Report, error) {
	docs := make([]string, 0, len(li.Docs))
	for doc := range li.Docs {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	report := &Report{Generated: time.Now().UTC()}
	for _, doc := range docs {
		dl := li.Docs[doc]
		headings := newHeadingFinder(filepath.Join(g.root, doc))

		var issues []Issue
		for _, link := range dl.Links {
			if link.Status != resolve.StatusStale {
				continue
			}
			issues = append(issues, Issue{
				Doc:           doc,
				Ref:           link.Ref,
				Line:          link.Line,
				Kind:          IssueStale,
				Reason:        fmt.Sprintf("target %s has changed since the link was recorded", link.Target),
				Section:       headings.before(link.Line),
				CurrentSource: g.currentSource(ctx, link),
			})
		}
		for _, b := range dl.Broken {
			issues = append(issues, Issue{
				Doc:        doc,
				Ref:        b.Ref,
				Line:       b.Line,
				Kind:       IssueBroken,
				Reason:     b.Reason,
				Section:    headings.before(b.Line),
				Candidates: g.brokenCandidates(b.Ref),
			})
		}
		for _, a := range dl.Ambiguous {
			issues = append(issues, Issue{
				Doc:        doc,
				Ref:        a.Ref,
				Line:       a.Line,
				Kind:       IssueAmbiguous,
				Reason:     a.Reason,
				Section:    headings.before(a.Line),
				Candidates: a.Candidates,
			})
		}
		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })

		for _, is := range issues {
			report.Issues = append(report.Issues, is)
			switch is.Kind {
			case IssueStale:
				report.Stale++
			case IssueBroken:
				report.Broken++
			case IssueAmbiguous:
				report.Errors++
			}
		}
	}

	report.TotalIssues = report.Stale + report.Broken + report.Errors
	return report, nil
}

// currentSource slices the exact current text of a stale symbol target by
// line range. File and import targets have no symbol to slice; the empty
// string means "no snippet available".
func (g *Gatherer) currentSource(ctx context.Context, link resolve.Link) string {
	if link.Kind != "symbol" {
		return ""
	}
	file, name, ok := resolve.SplitTarget(link.Target)
	if !ok {
		return ""
	}
	abs := filepath.Join(g.root, file)
	syms, err := pyparse.ParseFile(ctx, abs)
	if err != nil {
		return ""
	}
	sym := pyparse.FindSymbol(syms, name)
	if sym == nil {
		return ""
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(content), "\n")
	if sym.Line < 1 || sym.EndLine > len(lines) {
		return ""
	}
	return strings.Join(lines[sym.Line-1:sym.EndLine], "\n")
}

// brokenCandidates suggests up to maxCandidates same-stem files and symbols
// via case-insensitive substring search over file names and the symbol index.
func (g *Gatherer) brokenCandidates(ref string) []string {
	stem := refStem(ref)
	if stem == "" {
		return nil
	}
	var out []string

	for _, f := range g.sources {
		if len(out) >= maxCandidates {
			return out
		}
		base := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if strings.Contains(strings.ToLower(base), stem) {
			out = append(out, f)
		}
	}

	names := make([]string, 0, len(g.idx.Symbols))
	for name := range g.idx.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(out) >= maxCandidates {
			return out
		}
		if strings.Contains(strings.ToLower(name), stem) {
			out = append(out, name)
		}
	}
	return out
}

// refStem extracts the searchable stem of a reference: the base name without
// extension for paths, the last dotted segment without call parens for
// symbols and imports.
func refStem(ref string) string {
	s := strings.TrimSuffix(ref, "()")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	// "user.py" sheds its extension; "app.services.login" keeps its last
	// dotted segment.
	if ext := filepath.Ext(s); ext != "" && !strings.Contains(strings.TrimSuffix(s, ext), ".") && len(ext) <= 5 {
		s = strings.TrimSuffix(s, ext)
	} else if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}

// headingFinder maps a line number to the nearest preceding ATX heading.
type headingFinder struct {
	lines []string
}

func newHeadingFinder(path string) *headingFinder {
	content, err := os.ReadFile(path)
	if err != nil {
		return &headingFinder{}
	}
	return &headingFinder{lines: strings.Split(string(content), "\n")}
}

// before walks backward from line (1-based) to the closest heading line and
// returns its text without the marker. Returns "" when no heading precedes.
func (h *headingFinder) before(line int) string {
	if line > len(h.lines) {
		line = len(h.lines)
	}
	for i := line - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(h.lines[i])
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
