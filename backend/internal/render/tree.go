// Package render converts a one-hop neighborhood into the strictly
// shaped rooted tree the hyperbolic-tree renderer consumes.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"graphscope/backend/internal/filter"
	"graphscope/backend/internal/graph"
)

// RenderTree is the renderer's input: one root with a flat list of leaf
// children (depth exactly 1, or a single placeholder child when the
// filtered neighborhood is empty). Rebuilt from scratch on every
// transform, never mutated in place.
type RenderTree struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Style    Style         `json:"style"`
	Children []*RenderTree `json:"children"`
}

// PlaceholderLabel is shown when a center has no visible relationships
const PlaceholderLabel = "No concepts yet"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Transform builds a RenderTree from a neighborhood under the given
// filters. Pure and deterministic: the same input always yields the
// same tree, including synthesized leaf ids, so callers may do
// identity-based diffing across calls.
func Transform(n *graph.Neighborhood, f graph.Filters) *RenderTree {
	root := &RenderTree{
		ID:       n.Center.URI,
		Name:     n.Center.Label,
		Style:    styleFor(TagRoot, n.Center.Importance),
		Children: []*RenderTree{},
	}

	// Filter first so displayed counts reflect the filtered view
	bag := filter.Select(n.Relationships, f)

	// ordinal is the 0-based occurrence index of each exact
	// (relationType, label) pair, which keeps ids unique when the same
	// label repeats under one relation type
	type pair struct {
		relType string
		label   string
	}
	ordinals := make(map[pair]int)

	for _, rel := range bag.Relations() {
		for _, t := range rel.Targets {
			if graph.IsSelfReference(n.Center, t) {
				continue
			}
			key := pair{relType: rel.Type, label: t.Label}
			ordinal := ordinals[key]
			ordinals[key] = ordinal + 1

			root.Children = append(root.Children, &RenderTree{
				ID:       fmt.Sprintf("%s_%s_%d", rel.Type, sanitizeLabel(t.Label), ordinal),
				Name:     t.Label,
				Style:    styleFor(tagFor(t.Kind, t.Subtype), t.Importance),
				Children: []*RenderTree{},
			})
		}
	}

	// The renderer contract requires at least one child
	if len(root.Children) == 0 {
		root.Children = append(root.Children, &RenderTree{
			ID:       "placeholder_0",
			Name:     PlaceholderLabel,
			Style:    styleFor(TagPlaceholder, nil),
			Children: []*RenderTree{},
		})
	}

	return root
}

// sanitizeLabel collapses non-alphanumeric runs to underscores so
// synthesized ids stay stable and renderer-safe
func sanitizeLabel(label string) string {
	s := nonAlphanumeric.ReplaceAllString(label, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "node"
	}
	return s
}
