// Package domundo is an in-memory undo/redo engine for a tree-structured
// document: it watches (or diffs) a subtree, turns raw mutations into
// invertible, path-addressed Changes, and maintains a bounded, coalescing
// history of them (spec.md §1).
package domundo

import (
	"log/slog"

	"github.com/hazyhaar/domundo/idgen"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/internal/observer"
)

// Options configures a Context (spec.md §3, expanded per SPEC_FULL.md §3).
type Options struct {
	// NoMutationObserver selects the snapshot-diff Observer instead of the
	// live/instrumented one, for hosts that mutate the tree directly
	// without routing edits through Context's own helpers.
	NoMutationObserver bool
	// MaxCombineChars stops typing coalescing once a history entry's text
	// has reached this many characters. Only the existing entry's length is
	// checked, so a single multi-character insert can carry it past the
	// limit.
	MaxCombineChars int
	// MaxHistory bounds how many entries the undo stack retains.
	MaxHistory int
	// Logger receives structured engine diagnostics; defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.MaxCombineChars <= 0 {
		o.MaxCombineChars = 20
	}
	if o.MaxHistory <= 0 {
		o.MaxHistory = 1000
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Context is domundo's handle on one editable subtree: its observer,
// frame stack, selection, and undo/redo history.
type Context struct {
	container *domtree.Node
	opts      Options
	log       *slog.Logger

	obs            observer.Observer
	frames         []*frame
	noObserveDepth int

	selection domtree.Range
	ranges    domtree.Ranges

	hist history
	ids  idgen.Generator
}

// NewContext builds a Context watching container and immediately begins
// observing.
func NewContext(container *domtree.Node, opts Options) *Context {
	opts.applyDefaults()

	c := &Context{container: container, opts: opts, log: opts.Logger, ids: idgen.UUIDv7()}
	start := domtree.Boundary{Node: container, Offset: 0}
	c.selection = domtree.Range{Start: start, End: start}
	c.ranges = domtree.Ranges{&c.selection}
	c.hist = newHistory(opts.MaxHistory, opts.MaxCombineChars)

	if opts.NoMutationObserver {
		c.obs = observer.NewSnapshot(container)
	} else {
		c.obs = observer.NewLive()
	}
	c.obs.ObserveAll()

	c.log.Debug("domundo: context created", "noMutationObserver", opts.NoMutationObserver, "maxHistory", opts.MaxHistory)
	return c
}

// Close stops observing. A closed Context's history and tree remain
// readable but no further edits are tracked.
func (c *Context) Close() {
	c.obs.Disconnect()
}

// Selection returns the current selection range.
func (c *Context) Selection() domtree.Range {
	return c.selection
}

// liveObserver returns the Live observer if that's the active variant, so
// mutation helpers can report edits to it directly.
func (c *Context) liveObserver() *observer.Live {
	l, _ := c.obs.(*observer.Live)
	return l
}
