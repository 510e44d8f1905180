package normalize

import "github.com/hazyhaar/domundo/internal/domtree"

type nodeID = uint64

// stage1 pairs insert/delete sequences by anchor identity: a node
// inserted and later deleted within the same batch cancels out entirely
// (spec.md §4.D stage 1), and surviving deletes are bucketed by anchor
// (prevSibling, falling back to target) so stage 2 can fold contiguous
// sibling deletions into one compound delete.
func stage1(moves []Move) (delsByPrevSibling, delsByTarget map[nodeID][]*Record, inserts []*Record) {
	inserted := map[nodeID]*Record{}
	var insertOrder []nodeID
	delsByPrevSibling = map[nodeID][]*Record{}
	delsByTarget = map[nodeID][]*Record{}

	for _, mv := range moves {
		id := domtree.EnsureExpandoID(mv.Node)

		switch mv.Kind {
		case MoveInsert:
			if _, exists := inserted[id]; exists {
				panic("normalize: duplicate INSERT for the same node in one batch")
			}
			inserted[id] = &Record{Kind: RInsert, Node: mv.Node}
			insertOrder = append(insertOrder, id)
			parentID := nodeID(0)
			if mv.Node.Parent != nil {
				parentID = domtree.EnsureExpandoID(mv.Node.Parent)
			}
			strand(delsByPrevSibling, delsByTarget, id, parentID)

		case MoveDelete:
			ref, refMap := mv.PrevSibling, delsByPrevSibling
			if ref == nil {
				ref, refMap = mv.Target, delsByTarget
			}
			refID := domtree.EnsureExpandoID(ref)

			if _, wasInserted := inserted[id]; wasInserted {
				// insert-then-delete: the node never stuck, drop both halves.
				delete(inserted, id)
			} else {
				rec := &Record{Kind: RDelete, Node: mv.Node, Target: mv.Target, PrevSibling: mv.PrevSibling}
				refMap[refID] = append(refMap[refID], rec)
			}
			// id's own former anchor bucket (if anything was stranded on
			// it) now shares id's just-used anchor: id is gone, so
			// whatever was keyed on it folds into the same bucket id's own
			// delete record just joined.
			strand(delsByPrevSibling, refMap, id, refID)
		}
	}

	for _, id := range insertOrder {
		if rec, ok := inserted[id]; ok {
			inserts = append(inserts, rec)
		}
	}
	return delsByPrevSibling, delsByTarget, inserts
}

// strand reattaches a delete list that was keyed on id (because some
// earlier-processed delete used this node as its anchor) onto
// fallbackMap[fallbackID], the bucket representing the node's new
// structural anchor now that id itself has been inserted or deleted
// within this same batch. Without this, a run of sibling deletes whose
// shared anchor is itself later removed would be split across two
// unrelated buckets instead of folding into one compound delete in
// stage 2.
func strand(delsByPrevSibling, fallbackMap map[nodeID][]*Record, id, fallbackID nodeID) {
	stranded, ok := delsByPrevSibling[id]
	if !ok || len(stranded) == 0 {
		return
	}
	delete(delsByPrevSibling, id)
	fallbackMap[fallbackID] = append(fallbackMap[fallbackID], stranded...)
}
