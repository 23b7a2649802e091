// Package resolve maps extracted references onto exact targets. Every
// reference produces exactly one of three outcomes — a resolved link, a
// broken reference, or an ambiguous reference with candidates — so callers
// must handle all three and can never silently follow a wrong link.
package resolve

import "time"

// Status is a link's staleness classification after a check pass.
type Status string

const (
	StatusCurrent Status = "CURRENT"
	StatusStale   Status = "STALE"
)

// Link is a reference resolved to an exact target. Target is either a bare
// file path or a "path::symbol" composite. Hash is a whole-file content hash
// for file and import links, and a structural fingerprint for symbol links.
type Link struct {
	Ref    string `json:"ref"`
	Target string `json:"target"`
	Kind   string `json:"kind"` // file | import | symbol
	Hash   string `json:"hash"`
	Line   int    `json:"line"`
	Status Status `json:"status,omitempty"` // set by a check pass
}

// Broken is a reference with no resolvable target.
type Broken struct {
	Ref    string `json:"ref"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Ambiguous is a reference matching more than one definition site. Candidates
// always holds at least two "file:line" locations.
type Ambiguous struct {
	Ref        string   `json:"ref"`
	Line       int      `json:"line"`
	Reason     string   `json:"reason"`
	Candidates []string `json:"candidates"`
}

// Outcome is the resolver's result sum type: exactly one of *Link, *Broken,
// or *Ambiguous.
type Outcome interface {
	outcome()
}

func (*Link) outcome()      {}
func (*Broken) outcome()    {}
func (*Ambiguous) outcome() {}

// DocLinks groups one document's outcomes. Ambiguous entries serialize under
// "errors" to match the artifact schema.
type DocLinks struct {
	Links     []Link      `json:"links"`
	Broken    []Broken    `json:"broken"`
	Ambiguous []Ambiguous `json:"errors"`
}

// Add routes an outcome into the right bucket.
func (d *DocLinks) Add(o Outcome) {
	switch v := o.(type) {
	case *Link:
		d.Links = append(d.Links, *v)
	case *Broken:
		d.Broken = append(d.Broken, *v)
	case *Ambiguous:
		d.Ambiguous = append(d.Ambiguous, *v)
	}
}

// LinksIndex is the persisted resolution artifact. Checked is set once a
// staleness pass has run at least once.
type LinksIndex struct {
	Generated   time.Time            `json:"generated"`
	Checked     *time.Time           `json:"checked,omitempty"`
	TotalLinks  int                  `json:"total_links"`
	TotalBroken int                  `json:"total_broken"`
	TotalErrors int                  `json:"total_errors"`
	Docs        map[string]*DocLinks `json:"docs"`
}

// Recount recomputes the aggregate counters from the per-doc buckets.
func (li *LinksIndex) Recount() {
	li.TotalLinks, li.TotalBroken, li.TotalErrors = 0, 0, 0
	for _, d := range li.Docs {
		li.TotalLinks += len(d.Links)
		li.TotalBroken += len(d.Broken)
		li.TotalErrors += len(d.Ambiguous)
	}
}
