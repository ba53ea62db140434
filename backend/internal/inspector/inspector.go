// Package inspector projects navigation state into the read-only
// sidebar: the centered node first, then its adjacent nodes in order.
package inspector

import (
	"context"
	"sync"

	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/navigate"
)

// Entry is one sidebar row
type Entry struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Kind         string `json:"kind"`
	RelationType string `json:"relation_type,omitempty"`
}

// Rows builds the ordered sidebar rows for a snapshot: centered node
// (no relation type) followed by its adjacency
func Rows(centered *graph.GraphNode, adjacent []graph.AdjacentNode) []Entry {
	if centered == nil {
		return []Entry{}
	}
	rows := make([]Entry, 0, len(adjacent)+1)
	rows = append(rows, Entry{
		ID:    centered.URI,
		Label: centered.Label,
		Kind:  string(centered.Kind),
	})
	for _, a := range adjacent {
		rows = append(rows, Entry{
			ID:           a.URI,
			Label:        a.Label,
			Kind:         string(a.Kind),
			RelationType: a.RelationType,
		})
	}
	return rows
}

// Sync keeps the sidebar's rows current. Propagation is one-way in
// both directions: snapshots flow controller -> inspector, and a node
// click flows back as a recenter call and nothing else. No shared
// mutable state.
type Sync struct {
	controller *navigate.Controller

	mu   sync.RWMutex
	rows []Entry
}

// NewSync subscribes to the controller and starts tracking its state
func NewSync(c *navigate.Controller) *Sync {
	s := &Sync{controller: c, rows: []Entry{}}
	c.Subscribe(func(snap navigate.Snapshot) {
		rows := Rows(snap.Centered, snap.Adjacent)
		s.mu.Lock()
		s.rows = rows
		s.mu.Unlock()
	})
	return s
}

// Rows returns a copy of the current sidebar rows
func (s *Sync) Rows() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.rows))
	copy(out, s.rows)
	return out
}

// SelectNode handles a sidebar click by recentering on the clicked
// node. The sidebar never mutates navigation state directly.
func (s *Sync) SelectNode(ctx context.Context, nodeURI string) error {
	_, err := s.controller.Recenter(ctx, nodeURI)
	return err
}
