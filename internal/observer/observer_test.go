package observer_test

import (
	"testing"

	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/domtree/domtreetest"
	"github.com/hazyhaar/domundo/internal/normalize"
	"github.com/hazyhaar/domundo/internal/observer"
)

func TestLiveIgnoresNotificationsUntilObserving(t *testing.T) {
	live := observer.NewLive()
	n := domtreetest.Elem("a")

	live.NotifyInsert(n) // not observing yet: dropped

	live.ObserveAll()
	batch := live.TakeChanges()
	if len(batch.Moves) != 0 {
		t.Fatalf("expected no moves recorded before ObserveAll, got %+v", batch.Moves)
	}
}

func TestLiveCoalescesRepeatedAttrUpdates(t *testing.T) {
	live := observer.NewLive()
	live.ObserveAll()
	n := domtreetest.Elem("a")

	live.NotifyUpdateAttr(n, "class", "", "old", "mid")
	live.NotifyUpdateAttr(n, "class", "", "mid", "new")

	batch := live.TakeChanges()
	attrs, ok := batch.UpdateAttr[n]
	if !ok {
		t.Fatal("expected an attr update recorded for n")
	}
	change := attrs["|class"]
	if change.OldValue != "old" || change.NewValue != "new" {
		t.Fatalf("expected coalesced oldest-old/newest-new, got %+v", change)
	}
}

func TestLiveKeepsFirstOldTextOnRepeatedUpdates(t *testing.T) {
	live := observer.NewLive()
	live.ObserveAll()
	n := domtreetest.Text("v1")

	live.NotifyUpdateText(n, "v0")
	live.NotifyUpdateText(n, "v1") // second call within the batch: ignored

	batch := live.TakeChanges()
	if batch.UpdateText[n] != "v0" {
		t.Fatalf("expected the first old value to stick, got %q", batch.UpdateText[n])
	}
}

func TestLiveDiscardChangesClearsPendingState(t *testing.T) {
	live := observer.NewLive()
	live.ObserveAll()
	live.NotifyInsert(domtreetest.Elem("a"))

	live.DiscardChanges()

	batch := live.TakeChanges()
	if len(batch.Moves) != 0 {
		t.Fatalf("expected no moves after DiscardChanges, got %+v", batch.Moves)
	}
}

func TestSnapshotDiffDetectsInsertAndAttrChange(t *testing.T) {
	root := domtreetest.Elem("div", domtreetest.Attr(domtreetest.Elem("p"), "class", "old"))
	snap := observer.NewSnapshot(root)
	snap.ObserveAll()

	p := root.FirstChild
	domtree.SetAttrNS(p, "", "class", "new")
	n := domtreetest.Elem("span")
	domtree.AppendChild(root, n)

	batch := snap.TakeChanges()
	if len(batch.Moves) != 1 || batch.Moves[0].Node != n {
		t.Fatalf("expected one insert move for the new span, got %+v", batch.Moves)
	}
	attrs, ok := batch.UpdateAttr[p]
	if !ok || attrs["|class"].OldValue != "old" || attrs["|class"].NewValue != "new" {
		t.Fatalf("expected class old->new recorded for p, got %+v", batch.UpdateAttr)
	}
}

func TestSnapshotHashShortCircuitsWhenNothingChanged(t *testing.T) {
	root := domtreetest.Elem("div", domtreetest.Elem("p"))
	snap := observer.NewSnapshot(root)
	snap.ObserveAll()

	batch := snap.TakeChanges()
	if len(batch.Moves) != 0 || len(batch.UpdateAttr) != 0 || len(batch.UpdateText) != 0 {
		t.Fatalf("expected an empty batch when nothing changed, got %+v", batch)
	}
}

func TestSnapshotDetectsDeleteWithPrevSibling(t *testing.T) {
	a := domtreetest.Elem("a")
	b := domtreetest.Elem("b")
	c := domtreetest.Elem("c")
	root := domtreetest.Elem("div", a, b, c)
	snap := observer.NewSnapshot(root)
	snap.ObserveAll()

	domtree.RemoveChild(root, b)

	batch := snap.TakeChanges()
	if len(batch.Moves) != 1 {
		t.Fatalf("expected one delete move, got %+v", batch.Moves)
	}
	mv := batch.Moves[0]
	if mv.Kind != normalize.MoveDelete {
		t.Fatalf("expected a delete move, got kind %v", mv.Kind)
	}
	if mv.PrevSibling != a {
		t.Fatalf("expected prevSibling a (still live), got %+v", mv.PrevSibling)
	}
}
