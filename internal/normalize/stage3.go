package normalize

import "github.com/hazyhaar/domundo/internal/domtree"

// place inserts rec into level according to the containment algebra
// (spec.md §4.D stage 3): if rec's anchor already falls within an
// existing delete or compound delete at this level, rec nests under it;
// if it falls within an existing insert, rec is discarded (its content is
// already captured by the insert); otherwise rec joins level itself, and
// any existing entries now nested within rec's own subtree are swept
// into it.
func place(level *[]*Record, rec *Record) {
	a := anchor(rec)

	for _, existing := range *level {
		if !subjectContains(existing, a) {
			continue
		}
		switch existing.Kind {
		case RDelete, RCompoundDelete:
			nestInto(existing, rec)
		case RInsert:
			// already covered by the insert's own content
		}
		return
	}

	*level = append(*level, rec)
	if rec.Kind == RInsert || rec.Kind == RDelete || rec.Kind == RCompoundDelete {
		sweep(level, rec)
	}
}

// sweep moves (or discards) every other entry at level that rec's
// placement now subsumes.
func sweep(level *[]*Record, rec *Record) {
	kept := (*level)[:0:0]
	for _, existing := range *level {
		if existing == rec || !subjectContains(rec, anchor(existing)) {
			kept = append(kept, existing)
			continue
		}
		if rec.Kind == RInsert {
			continue // subsumed by the insert's own content, drop
		}
		nestInto(rec, existing)
	}
	*level = kept
}

// nestInto places rec within container's Contained list (or, for a
// compound delete, within the specific member whose subtree holds rec's
// anchor), recursing through the same containment algebra one level down.
func nestInto(container *Record, rec *Record) {
	switch container.Kind {
	case RDelete:
		place(&container.Contained, rec)
	case RCompoundDelete:
		a := anchor(rec)
		for _, m := range container.Members {
			if domtree.Contains(m.Node, a) {
				place(&m.Contained, rec)
				return
			}
		}
		// Anchor doesn't fall under any single member (can happen for a
		// record anchored on the compound delete's own prevSibling/target);
		// keep it alongside the compound delete instead of dropping it.
		container.Contained = append(container.Contained, rec)
	}
}

// buildTree runs stage 3 in full: deletes first, then inserts, then
// remaining pure updates, each placed via place(). Order matters only in
// that later-placed categories may nest under earlier ones, never the
// reverse, per spec.md §4.D.
func buildTree(compounds []*Record, inserts []*Record, updates []*Record) []*Record {
	var level []*Record
	for _, r := range compounds {
		place(&level, r)
	}
	for _, r := range inserts {
		place(&level, r)
	}
	for _, r := range updates {
		place(&level, r)
	}
	return level
}

// filterToContainer drops top-level records whose anchor doesn't actually
// fall within the observed container, per spec.md §4.D's closing filter
// step (records anchored entirely outside the watched subtree never
// surface).
func filterToContainer(level []*Record, container *domtree.Node) []*Record {
	kept := level[:0:0]
	for _, r := range level {
		if domtree.Contains(container, anchor(r)) || anchor(r) == container {
			kept = append(kept, r)
		}
	}
	return kept
}
