package normalize

import "github.com/hazyhaar/domundo/internal/domtree"

// Batch is everything an observer captured before normalization: the
// structural moves plus the coalesced attribute/text updates, keyed by
// live node (spec.md §3).
type Batch struct {
	Moves      []Move
	UpdateAttr map[*domtree.Node]UpdateAttrs
	UpdateText map[*domtree.Node]string
}

// Normalize runs the full four-stage pipeline (spec.md §4.D): pairs
// insert/delete sequences by anchor identity, folds contiguous sibling
// deletions into compound deletes, builds a containment tree out of
// deletes-then-inserts-then-updates, and sorts every level into document
// order. The result is the sorted record tree the change generator
// (internal/generate) walks to produce Changes.
func Normalize(container *domtree.Node, b Batch) []*Record {
	delsByPrevSibling, delsByTarget, inserts := stage1(b.Moves)

	updateAttr := cloneAttrMap(b.UpdateAttr)
	updateText := cloneTextMap(b.UpdateText)

	compounds := stage2(delsByPrevSibling, delsByTarget, updateAttr, updateText)

	var updates []*Record
	for n, attrs := range updateAttr {
		updates = append(updates, &Record{Kind: RUpdateAttr, Node: n, Attrs: map[string]AttrChange(attrs)})
	}
	for n, old := range updateText {
		updates = append(updates, &Record{Kind: RUpdateText, Node: n, OldText: old, HasOldText: true})
	}

	level := buildTree(compounds, inserts, updates)
	level = filterToContainer(level, container)
	sortTree(level)
	return level
}

func cloneAttrMap(m map[*domtree.Node]UpdateAttrs) map[*domtree.Node]UpdateAttrs {
	out := make(map[*domtree.Node]UpdateAttrs, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneTextMap(m map[*domtree.Node]string) map[*domtree.Node]string {
	out := make(map[*domtree.Node]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
