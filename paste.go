package domundo

import (
	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/domtree"
)

// InsertHTML parses rawHTML (sanitized against a paste-safety policy by
// internal/domtree) and inserts the resulting nodes at the current
// selection's start boundary (SPEC_FULL.md §5 "Supplemented Features").
// Each parsed root lands as its own node rather than merging into an
// adjacent text run; normalized indexing treats consecutive text nodes as
// one run regardless, so nothing downstream sees the difference.
func (c *Context) InsertHTML(rawHTML string) (ChangeSet, error) {
	nodes, err := domtree.ParseFragment(rawHTML)
	if err != nil {
		return ChangeSet{}, err
	}

	cs := c.Do(change.Meta{Type: "paste"}, func() {
		boundary := c.selection.Start
		live := c.liveObserver()
		for _, n := range nodes {
			boundary = domtree.InsertNodeAtBoundary(boundary, n, false, c.ranges)
			if live != nil {
				live.NotifyInsert(n)
			}
		}
	})
	return cs, nil
}
