// Package check re-derives the current hash of every resolved link and
// classifies it CURRENT or STALE. A target that no longer exists or cannot
// be re-hashed is conservatively STALE, never dropped.
package check

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jward/crosslink/internal/resolve"
)

// Row is one audit line: a link with both its stored and current hash.
type Row struct {
	Doc     string         `json:"doc"`
	Ref     string         `json:"ref"`
	Line    int            `json:"line"`
	Target  string         `json:"target"`
	Stored  string         `json:"stored_hash"`
	Current string         `json:"current_hash"`
	Status  resolve.Status `json:"status"`
}

// Report summarizes one staleness pass.
type Report struct {
	TotalChecked int   `json:"total_checked"`
	Current      int   `json:"current"`
	Stale        int   `json:"stale"`
	Rows         []Row `json:"rows"`
}

// Run checks every link in the index against the tree at root, mutating each
// link's Status in place and stamping Checked. Documents are checked in
// parallel; rows are assembled in sorted document order so the report is
// deterministic.
func Run(ctx context.Context, root string, li *resolve.LinksIndex) (*Report, error) {
	docs := make([]string, 0, len(li.Docs))
	for doc := range li.Docs {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	perDoc := make([][]Row, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			perDoc[i] = checkDoc(gctx, root, doc, li.Docs[doc])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, rows := range perDoc {
		for _, row := range rows {
			report.TotalChecked++
			if row.Status == resolve.StatusCurrent {
				report.Current++
			} else {
				report.Stale++
			}
			report.Rows = append(report.Rows, row)
		}
	}

	now := time.Now().UTC()
	li.Checked = &now
	return report, nil
}

func checkDoc(ctx context.Context, root, doc string, dl *resolve.DocLinks) []Row {
	rows := make([]Row, 0, len(dl.Links))
	for i := range dl.Links {
		link := &dl.Links[i]
		current, err := resolve.LinkHash(ctx, root, link)
		status := resolve.StatusCurrent
		if err != nil || current != link.Hash {
			status = resolve.StatusStale
		}
		link.Status = status
		rows = append(rows, Row{
			Doc:     doc,
			Ref:     link.Ref,
			Line:    link.Line,
			Target:  link.Target,
			Stored:  link.Hash,
			Current: current,
			Status:  status,
		})
	}
	return rows
}
