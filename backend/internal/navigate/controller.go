// Package navigate coordinates re-centering and filtering across
// asynchronous, possibly out-of-order neighborhood fetches.
package navigate

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"graphscope/backend/internal/filter"
	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/render"
)

// Controller status values
const (
	StatusIdle    = "idle"
	StatusLoading = "loading"
	StatusReady   = "ready"
)

// ErrSuperseded is returned when a recenter completed but a newer
// request had already been issued; its response was discarded and the
// navigation state is whatever the newer request produced
var ErrSuperseded = errors.New("recenter superseded by a newer request")

// Snapshot is an immutable copy of the navigation state handed to
// subscribers. Never a live reference into the controller.
type Snapshot struct {
	Centered *graph.GraphNode     `json:"centered"`
	Adjacent []graph.AdjacentNode `json:"adjacent"`
}

// Subscriber receives a snapshot after every successful recenter
type Subscriber func(Snapshot)

// NavigationHandle is the renderer-owned callable through which the
// controller asks the visual camera to re-focus on a node. Injected
// once the renderer has initialized; the controller knows nothing else
// about the renderer.
type NavigationHandle func(nodeURI string)

// Controller owns the navigation state: the centered node, its
// adjacency, and the active filters. All mutation flows through
// Recenter/SetFilters under the sequence discipline.
type Controller struct {
	provider graph.NeighborhoodProvider
	logger   *zap.Logger
	seq      sequence

	mu          sync.Mutex
	centered    *graph.GraphNode
	adjacent    []graph.AdjacentNode
	filters     graph.Filters
	tree        *render.RenderTree
	subscribers []Subscriber
	handle      NavigationHandle

	// notifyMu serializes subscriber and handle delivery so snapshots
	// arrive in apply order; delivered tracks the newest sequence
	// already handed out, letting an overtaken delivery be dropped
	notifyMu  sync.Mutex
	delivered uint64
}

// NewController creates a controller in the idle state with no
// centered node. The provider and logger are explicit parameters, not
// ambient lookups.
func NewController(provider graph.NeighborhoodProvider, log *zap.Logger) *Controller {
	return &Controller{
		provider: provider,
		logger:   log,
	}
}

// Subscribe registers a callback for (centered, adjacent) changes
func (c *Controller) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// BindNavigationHandle injects the renderer's re-focus callable
func (c *Controller) BindNavigationHandle(h NavigationHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = h
}

// Recenter makes nodeURI the focal point. It fetches the node's
// neighborhood under the current filters, and applies the result only
// if no newer recenter has been issued in the meantime: last request
// wins, stale responses are dropped, never applied out of order.
//
// On fetch failure the previous navigation state is left untouched and
// the error is returned for the UI layer to surface.
func (c *Controller) Recenter(ctx context.Context, nodeURI string) (*render.RenderTree, error) {
	seq := c.seq.Issue()
	filters := c.Filters()

	n, err := c.provider.FetchNeighborhood(ctx, nodeURI)
	if err != nil {
		c.seq.Settle(seq)
		c.logger.Warn("Recenter fetch failed",
			zap.String("uri", nodeURI),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return nil, err
	}

	tree := render.Transform(n, filters)
	adjacent := graph.Adjacent(n.Center, filter.Select(n.Relationships, filters))

	c.mu.Lock()
	if !c.seq.Apply(seq) {
		c.mu.Unlock()
		c.logger.Debug("Stale recenter response dropped",
			zap.String("uri", nodeURI),
			zap.Uint64("seq", seq),
		)
		return nil, ErrSuperseded
	}
	center := n.Center
	c.centered = &center
	c.adjacent = adjacent
	c.tree = tree
	subs := append([]Subscriber(nil), c.subscribers...)
	handle := c.handle
	c.mu.Unlock()

	c.logger.Info("Recentered",
		zap.String("uri", nodeURI),
		zap.Uint64("seq", seq),
		zap.Int("adjacent", len(adjacent)),
	)

	c.notifyMu.Lock()
	if seq > c.delivered {
		c.delivered = seq
		for _, fn := range subs {
			fn(snapshotOf(center, adjacent))
		}
		if handle != nil {
			handle(nodeURI)
		}
	}
	c.notifyMu.Unlock()
	return tree, nil
}

// SetFilters stores the new filters and refetches the current center
// under them, with the same sequence/discard discipline as Recenter.
// Before the first recenter there is no center to refetch; the filters
// are stored and take effect on the first recenter.
func (c *Controller) SetFilters(ctx context.Context, f graph.Filters) (*render.RenderTree, error) {
	c.mu.Lock()
	c.filters = copyFilters(f)
	centered := c.centered
	c.mu.Unlock()

	if centered == nil {
		return nil, nil
	}
	return c.Recenter(ctx, centered.URI)
}

// State returns a snapshot of the current navigation state. Copies
// only; callers never see the controller's own slices.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.centered == nil {
		return Snapshot{}
	}
	return snapshotOf(*c.centered, c.adjacent)
}

// Filters returns a copy of the active filters
func (c *Controller) Filters() graph.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyFilters(c.filters)
}

// CurrentTree returns the tree built by the last applied recenter, or
// nil before the first one. Trees are rebuilt from scratch on every
// transform and never mutated, so sharing the pointer is safe.
func (c *Controller) CurrentTree() *render.RenderTree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// Status reports idle (nothing applied yet), loading (a request is in
// flight), or ready
func (c *Controller) Status() string {
	issued, applied, settled := c.seq.counts()
	switch {
	case issued > settled:
		return StatusLoading
	case applied > 0:
		return StatusReady
	default:
		return StatusIdle
	}
}

func snapshotOf(center graph.GraphNode, adjacent []graph.AdjacentNode) Snapshot {
	adj := make([]graph.AdjacentNode, len(adjacent))
	copy(adj, adjacent)
	return Snapshot{Centered: &center, Adjacent: adj}
}

func copyFilters(f graph.Filters) graph.Filters {
	out := graph.Filters{MinImportance: f.MinImportance}
	if len(f.RelationTypes) > 0 {
		out.RelationTypes = append([]string(nil), f.RelationTypes...)
	}
	if len(f.SourceSubtypes) > 0 {
		out.SourceSubtypes = append([]graph.SourceSubtype(nil), f.SourceSubtypes...)
	}
	return out
}
