// Package generate implements the change generator (spec.md §4.E): it
// walks the Normalizer's sorted record tree and emits the Change values
// that make up a ChangeSet.
package generate

import (
	"sort"

	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/normalize"
	"github.com/hazyhaar/domundo/internal/path"
)

// Generate walks records (container-relative, already sorted into
// document order by internal/normalize) and produces the Changes that
// describe the batch: one delete per compound delete, one insert per run
// of document-adjacent sibling inserts, one update-attr per surviving
// attribute change, and a delete+insert pair per surviving text change.
func Generate(container *domtree.Node, records []*normalize.Record) []change.Change {
	var out []change.Change

	for i := 0; i < len(records); {
		rec := records[i]
		switch rec.Kind {
		case normalize.RCompoundDelete:
			out = append(out, deleteChange(container, rec))
			i++

		case normalize.RInsert:
			j := i + 1
			for j < len(records) && records[j].Kind == normalize.RInsert && adjacent(records[j-1].Node, records[j].Node) {
				j++
			}
			out = append(out, insertChange(container, records[i:j]))
			i = j

		case normalize.RUpdateAttr:
			out = append(out, updateAttrChange(container, rec))
			i++

		case normalize.RUpdateText:
			out = append(out, updateTextChanges(container, rec)...)
			i++

		default:
			i++
		}
	}

	return out
}

// adjacent reports whether b is a directly follows a among its siblings,
// the condition under which two inserts coalesce into one Change.
func adjacent(a, b *domtree.Node) bool {
	return a.Parent == b.Parent && a.NextSibling == b
}

func deleteChange(container *domtree.Node, rec *normalize.Record) change.Change {
	var boundary domtree.Boundary
	if rec.PrevSibling != nil {
		boundary = domtree.AfterNode(rec.PrevSibling)
	} else {
		boundary = domtree.Boundary{Node: rec.Target, Offset: 0}
	}
	p := path.FromBoundary(container, boundary)

	content := make([]change.Node, len(rec.Members))
	for i, m := range rec.Members {
		content[i] = change.FromLiveNode(m.Node)
	}
	return change.Delete(p, content)
}

func insertChange(container *domtree.Node, recs []*normalize.Record) change.Change {
	p := path.BeforeNode(container, recs[0].Node)

	content := make([]change.Node, len(recs))
	for i, r := range recs {
		content[i] = change.FromLiveNode(r.Node)
	}
	return change.Insert(p, content)
}

func updateAttrChange(container *domtree.Node, rec *normalize.Record) change.Change {
	p := path.BeforeNode(container, rec.Node)

	names := make([]string, 0, len(rec.Attrs))
	for k := range rec.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)

	attrs := make([]change.AttrUpdate, 0, len(names))
	for _, k := range names {
		a := rec.Attrs[k]
		attrs = append(attrs, change.AttrUpdate{Name: a.Name, NS: a.NS, OldValue: a.OldValue, NewValue: a.NewValue})
	}
	return change.UpdateAttr(p, attrs)
}

// updateTextChanges represents a surviving text mutation as a delete of
// the old content followed by an insert of the new, both anchored at the
// text node's own position (spec.md §4.E); the Change model has no
// dedicated update-text variant.
func updateTextChanges(container *domtree.Node, rec *normalize.Record) []change.Change {
	p := path.BeforeNode(container, rec.Node)
	oldNode := change.Node{IsText: true, Name: domtree.TextNodeName, Text: rec.OldText}
	newNode := change.Node{IsText: true, Name: domtree.TextNodeName, Text: rec.Node.Text}
	return []change.Change{
		change.Delete(p, []change.Node{oldNode}),
		change.Insert(p, []change.Node{newNode}),
	}
}
