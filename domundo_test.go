package domundo_test

import (
	"testing"

	"github.com/hazyhaar/domundo"
	"github.com/hazyhaar/domundo/internal/domtree"
)

func newDoc() (*domundo.Context, *domtree.Node) {
	root := domtree.NewElement("div")
	ctx := domundo.NewContext(root, domundo.Options{})
	return ctx, root
}

func TestTypeTextCoalescesIntoOneHistoryEntry(t *testing.T) {
	ctx, root := newDoc()
	defer ctx.Close()

	at := func() domtree.Boundary {
		return domtree.Boundary{Node: root, Offset: domtree.NodeLength(root)}
	}

	ctx.TypeText(at(), "h")
	ctx.TypeText(at(), "i")

	if got := domtree.RenderHTML(root); got != "<div>hi</div>" {
		t.Fatalf("after typing: got %q", got)
	}

	// Both keystrokes coalesced into a single entry: one Undo removes both.
	if !ctx.Undo() {
		t.Fatal("expected an undoable entry")
	}
	if got := domtree.RenderHTML(root); got != "<div></div>" {
		t.Fatalf("after undo: got %q, want empty div", got)
	}
	if ctx.Undo() {
		t.Fatal("expected no further undoable entries")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	ctx, root := newDoc()
	defer ctx.Close()

	if _, err := ctx.InsertHTML("<p></p>"); err != nil {
		t.Fatalf("InsertHTML: %v", err)
	}
	if got := domtree.RenderHTML(root); got != "<div><p></p></div>" {
		t.Fatalf("after insert: got %q", got)
	}

	if !ctx.Undo() {
		t.Fatal("expected an undoable entry")
	}
	if got := domtree.RenderHTML(root); got != "<div></div>" {
		t.Fatalf("after undo: got %q", got)
	}

	if !ctx.Redo() {
		t.Fatal("expected a redoable entry")
	}
	if got := domtree.RenderHTML(root); got != "<div><p></p></div>" {
		t.Fatalf("after redo: got %q", got)
	}
}

func TestSetAttributeUndo(t *testing.T) {
	ctx, root := newDoc()
	defer ctx.Close()

	p := domtree.NewElement("p")
	domtree.AppendChild(root, p) // direct mutation, outside any frame: never reaches the Live observer

	ctx.SetAttribute(p, "", "class", "big")
	if v, _ := domtree.GetAttrNS(p, "", "class"); v != "big" {
		t.Fatalf("expected class=big, got %q", v)
	}

	if !ctx.Undo() {
		t.Fatal("expected an undoable entry")
	}
	if _, ok := domtree.GetAttrNS(p, "", "class"); ok {
		t.Fatal("expected class attribute removed after undo")
	}
}

func TestDeleteRangeUndo(t *testing.T) {
	ctx, root := newDoc()
	defer ctx.Close()

	a := domtree.NewElement("a")
	b := domtree.NewElement("b")
	domtree.AppendChild(root, a)
	domtree.AppendChild(root, b)

	start := domtree.Boundary{Node: root, Offset: 0}
	end := domtree.Boundary{Node: root, Offset: 2}
	ctx.DeleteRange(start, end)

	if got := domtree.RenderHTML(root); got != "<div></div>" {
		t.Fatalf("after delete: got %q", got)
	}

	if !ctx.Undo() {
		t.Fatal("expected an undoable entry")
	}
	if got := domtree.RenderHTML(root); got != "<div><a></a><b></b></div>" {
		t.Fatalf("after undo: got %q", got)
	}
}

func TestInsertHTMLSanitizesAndInserts(t *testing.T) {
	ctx, root := newDoc()
	defer ctx.Close()

	cs, err := ctx.InsertHTML(`<b>bold</b><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("InsertHTML: %v", err)
	}
	if len(cs.Changes) == 0 {
		t.Fatal("expected at least one recorded change")
	}
	got := domtree.RenderHTML(root)
	if got != "<div><b>bold</b></div>" {
		t.Fatalf("expected sanitized insert, got %q", got)
	}
}
