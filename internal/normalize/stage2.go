package normalize

import "github.com/hazyhaar/domundo/internal/domtree"

// UpdateAttrs is one node's coalesced attribute changes, keyed "ns|name"
// (the observer's batch already collapses repeats to oldest-old/newest-new,
// matching the teacher's compress()-style record coalescing).
type UpdateAttrs map[string]AttrChange

// stage2 folds each non-empty delete bucket into one COMPOUND_DELETE,
// consuming any pending attribute/text update for a member node so it
// travels with the delete instead of surfacing as a separate record
// (spec.md §4.D stage 2). Leftover entries in updateAttr/updateText
// belong to nodes that survived the batch and are returned for stage 3
// to place as standalone update records.
func stage2(
	delsByPrevSibling, delsByTarget map[nodeID][]*Record,
	updateAttr map[*domtree.Node]UpdateAttrs,
	updateText map[*domtree.Node]string,
) (compounds []*Record) {
	consume := func(rec *Record) {
		if attrs, ok := updateAttr[rec.Node]; ok {
			rec.Attrs = map[string]AttrChange(attrs)
			delete(updateAttr, rec.Node)
		}
		if old, ok := updateText[rec.Node]; ok {
			rec.OldText, rec.HasOldText = old, true
			delete(updateText, rec.Node)
		}
	}

	fold := func(m map[nodeID][]*Record) {
		for _, list := range m {
			if len(list) == 0 {
				continue
			}
			for _, member := range list {
				consume(member)
			}
			first := list[0]
			compounds = append(compounds, &Record{
				Kind:        RCompoundDelete,
				Target:      first.Target,
				PrevSibling: first.PrevSibling,
				Members:     list,
			})
		}
	}

	fold(delsByPrevSibling)
	fold(delsByTarget)
	return compounds
}
