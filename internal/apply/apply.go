// Package apply implements the Applier (spec.md §4.F): turning Change and
// ChangeSet values back into tree mutations, in either direction (undo
// applies an inverted ChangeSet through the same code path as redo).
package apply

import (
	"fmt"

	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/path"
)

// Change applies a single Change to the live tree rooted at container,
// keeping every boundary in ranges valid across the edit.
func Change(container *domtree.Node, c change.Change, ranges domtree.Ranges) {
	switch c.Kind {
	case change.KindInsert:
		b := path.ToBoundary(container, c.Path)
		for _, n := range c.Content {
			b = domtree.InsertNodeAtBoundary(b, change.Materialize(n), true, ranges)
		}

	case change.KindDelete:
		b := path.ToBoundary(container, c.Path)
		for range c.Content {
			n := domtree.NodeAfter(b)
			if n == nil {
				panic("apply: delete Change's content outruns the live tree")
			}
			domtree.RemovePreservingRanges(n, ranges)
		}

	case change.KindUpdateAttr:
		b := path.ToBoundary(container, c.Path)
		n := domtree.NodeAfter(b)
		if n == nil {
			panic("apply: update-attr Change targets no live node")
		}
		for _, a := range c.Attrs {
			// An empty value stands for an absent attribute (the observers
			// record an added or removed attribute's missing side as "").
			if a.NewValue == "" {
				domtree.RemoveAttrNS(n, a.NS, a.Name)
				continue
			}
			domtree.SetAttrNS(n, a.NS, a.Name, a.NewValue)
		}

	case change.KindUpdateRange:
		// Selection changes carry no tree mutation; ChangeSet (below) handles
		// cs.Selection against the caller's own live Range.

	default:
		panic(fmt.Sprintf("apply: unrecognized Change Kind %d", c.Kind))
	}
}

// Changes applies cs in order, then re-joins any text-node run left split
// or fragmented by the edits (spec.md §4.F's closing joinTextNode pass).
// The touch points are each change's own boundary and its element parent's
// neighbor, which is every place a join could newly apply.
func Changes(container *domtree.Node, changes []change.Change, ranges domtree.Ranges) {
	var touched []*domtree.Node

	for _, c := range changes {
		if c.Kind == change.KindUpdateRange {
			continue
		}
		b := path.ToBoundary(container, c.Path)
		Change(container, c, ranges)
		if domtree.IsTextNode(b.Node) {
			touched = append(touched, b.Node)
			continue
		}
		if n := domtree.NodeAfter(b); n != nil {
			touched = append(touched, n)
		}
		if n := domtree.NodeBefore(b); n != nil {
			touched = append(touched, n)
		}
	}

	for _, n := range touched {
		domtree.JoinTextNode(n, ranges)
	}
}

// ChangeSet applies cs's changes and, if cs carries a selection update,
// repoints selection at the new range.
func ChangeSet(container *domtree.Node, cs change.ChangeSet, ranges domtree.Ranges, selection *domtree.Range) {
	Changes(container, cs.Changes, ranges)
	if cs.Selection == nil || selection == nil {
		return
	}
	nr := cs.Selection.NewRange
	if nr == nil {
		return
	}
	start := path.ToBoundary(container, nr.Start)
	end := path.ToBoundary(container, nr.End)
	domtree.SetRangeFromBoundaries(selection, start, end)
}
