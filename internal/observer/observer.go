// Package observer implements the Observer abstraction (spec.md §4.C): a
// uniform interface over how a batch of raw mutations is captured, with
// two concrete strategies — a live, instrumented variant and a
// snapshot-diff variant — behind the same surface the Frame stack drives.
package observer

import "github.com/hazyhaar/domundo/internal/normalize"

// Observer captures raw mutations within a watched subtree and hands them
// to the Normalizer as a normalize.Batch.
type Observer interface {
	// ObserveAll begins (or resumes) capturing mutations.
	ObserveAll()
	// TakeChanges returns everything captured since the last TakeChanges
	// or DiscardChanges call, and resets the capture buffer.
	TakeChanges() normalize.Batch
	// DiscardChanges resets the capture buffer without returning it.
	DiscardChanges()
	// Disconnect stops capturing until ObserveAll is called again.
	Disconnect()
}
