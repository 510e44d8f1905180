package normalize

import (
	"sort"

	"github.com/hazyhaar/domundo/internal/domtree"
)

// position is a record's sort key: the parent it sits under and the real
// child index within that parent it occupies (for a delete, the slot right
// after its live prevSibling, or 0).
type position struct {
	parent *domtree.Node
	index  int
}

func positionOf(r *Record) position {
	switch r.Kind {
	case RDelete, RCompoundDelete:
		if r.PrevSibling != nil {
			return position{parent: r.Target, index: domtree.NodeIndex(r.PrevSibling) + 1}
		}
		return position{parent: r.Target, index: 0}
	default:
		return position{parent: r.Node.Parent, index: domtree.NodeIndex(r.Node)}
	}
}

func isDeleteKind(k RecordKind) bool {
	return k == RDelete || k == RCompoundDelete
}

// less orders a before b in document order; when both land on the same
// slot (a delete's anchor position equal to an insert arriving right
// after it) the delete sorts first, since its removal happens before the
// insert takes that slot (spec.md §4.D stage 4).
func less(a, b *Record) bool {
	pa, pb := positionOf(a), positionOf(b)
	if pa.parent == pb.parent {
		if pa.index != pb.index {
			return pa.index < pb.index
		}
		return isDeleteKind(a.Kind) && !isDeleteKind(b.Kind)
	}
	// Anchors under different parents (possible once stage 3 has nested
	// records several levels deep and two sibling groups at this level
	// sit under different containers): fall back to full document order.
	return domtree.Follows(anchor(b), anchor(a))
}

// sortTree sorts level and recurses into every Contained list (including
// compound-delete members' Contained lists), matching stage 4's full
// recursive ordering pass.
func sortTree(level []*Record) {
	sort.SliceStable(level, func(i, j int) bool { return less(level[i], level[j]) })
	for _, r := range level {
		switch r.Kind {
		case RCompoundDelete:
			for _, m := range r.Members {
				sortTree(m.Contained)
			}
			sortTree(r.Contained)
		default:
			sortTree(r.Contained)
		}
	}
}
