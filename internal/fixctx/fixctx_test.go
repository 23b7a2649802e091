package fixctx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/crosslink/internal/extract"
	"github.com/jward/crosslink/internal/index"
	"github.com/jward/crosslink/internal/resolve"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixture builds a root with one doc and links that, after the edits below,
// yield one stale link, one broken ref, and one ambiguous ref.
func fixture(t *testing.T) (*Gatherer, *resolve.LinksIndex) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "app/auth.py", "def authenticate(user):\n    return True\n")
	writeFile(t, root, "a/util.py", "def helper():\n    pass\n")
	writeFile(t, root, "b/util.py", "def helper():\n    return 1\n")
	writeFile(t, root, "docs/guide.md", strings.Join([]string{
		"# Guide",            // 1
		"",                   // 2
		"## Authentication",  // 3
		"",                   // 4
		"Call `authenticate` to log in.",   // 5
		"Use `helper` for the rest.",       // 6
		"See `app/missing.py` for config.", // 7
	}, "\n"))

	files := []string{"a/util.py", "app/auth.py", "b/util.py"}
	ix, err := index.NewBuilder(root, nil, false).Build(context.Background(), files)
	require.NoError(t, err)
	r := resolve.New(root, ix)

	dl := &resolve.DocLinks{}
	for _, ref := range []extract.Ref{
		{Text: "authenticate", Kind: extract.RefSymbol, Line: 5},
		{Text: "helper", Kind: extract.RefSymbol, Line: 6},
		{Text: "app/missing.py", Kind: extract.RefFile, Line: 7},
	} {
		dl.Add(r.Resolve(context.Background(), ref))
	}
	li := &resolve.LinksIndex{Docs: map[string]*resolve.DocLinks{"docs/guide.md": dl}}
	li.Recount()

	// Change the function signature so the link goes stale on check.
	writeFile(t, root, "app/auth.py", "def authenticate(user, password):\n    return True\n")
	for i := range dl.Links {
		current, err := resolve.LinkHash(context.Background(), root, &dl.Links[i])
		require.NoError(t, err)
		if current != dl.Links[i].Hash {
			dl.Links[i].Status = resolve.StatusStale
		} else {
			dl.Links[i].Status = resolve.StatusCurrent
		}
	}

	return NewGatherer(root, ix, files), li
}

func TestGather_CountsMatchIssues(t *testing.T) {
	g, li := fixture(t)

	report, err := g.Gather(context.Background(), li)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stale)
	assert.Equal(t, 1, report.Broken)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, report.Stale+report.Broken+report.Errors, report.TotalIssues)
	assert.Len(t, report.Issues, report.TotalIssues)
}

func TestGather_SectionHeadings(t *testing.T) {
	g, li := fixture(t)

	report, err := g.Gather(context.Background(), li)
	require.NoError(t, err)

	for _, is := range report.Issues {
		assert.Equal(t, "Authentication", is.Section, "ref %s", is.Ref)
	}
}

func TestGather_StaleCarriesCurrentSource(t *testing.T) {
	g, li := fixture(t)

	report, err := g.Gather(context.Background(), li)
	require.NoError(t, err)

	var stale *Issue
	for i := range report.Issues {
		if report.Issues[i].Kind == IssueStale {
			stale = &report.Issues[i]
		}
	}
	require.NotNil(t, stale)
	assert.Contains(t, stale.CurrentSource, "def authenticate(user, password):")
}

func TestGather_AmbiguousKeepsResolverCandidates(t *testing.T) {
	g, li := fixture(t)

	report, err := g.Gather(context.Background(), li)
	require.NoError(t, err)

	var amb *Issue
	for i := range report.Issues {
		if report.Issues[i].Kind == IssueAmbiguous {
			amb = &report.Issues[i]
		}
	}
	require.NotNil(t, amb)
	assert.Equal(t, []string{"a/util.py:1", "b/util.py:1"}, amb.Candidates)
}

func TestGather_BrokenCandidatesBySubstring(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/user_model.py", "class User:\n    pass\n")
	writeFile(t, root, "docs/g.md", "`app/user.py` is gone.\n")

	files := []string{"app/user_model.py"}
	ix, err := index.NewBuilder(root, nil, false).Build(context.Background(), files)
	require.NoError(t, err)

	dl := &resolve.DocLinks{
		Broken: []resolve.Broken{{Ref: "app/user.py", Line: 1, Reason: "file not found: app/user.py"}},
	}
	li := &resolve.LinksIndex{Docs: map[string]*resolve.DocLinks{"docs/g.md": dl}}

	report, err := NewGatherer(root, ix, files).Gather(context.Background(), li)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)

	cands := report.Issues[0].Candidates
	assert.Contains(t, cands, "app/user_model.py")
	assert.Contains(t, cands, "User")
	assert.LessOrEqual(t, len(cands), 5)
}

func TestPrompt_RendersPerKind(t *testing.T) {
	g, li := fixture(t)
	report, err := g.Gather(context.Background(), li)
	require.NoError(t, err)

	for _, is := range report.Issues {
		p := is.Prompt()
		assert.Contains(t, p, is.Doc)
		assert.Contains(t, p, is.Ref)
		switch is.Kind {
		case IssueStale:
			assert.Contains(t, p, "```python")
		case IssueAmbiguous:
			assert.Contains(t, p, "a/util.py:1")
		case IssueBroken:
			assert.Contains(t, p, "does not resolve")
		}
	}
}
