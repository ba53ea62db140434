// Package filter narrows a relationship bag by relation type, source
// subtype, and importance. Selection only: the input bag is never
// mutated and surviving entries keep their relative order.
package filter

import (
	"graphscope/backend/internal/graph"
)

// Select returns a new bag holding the targets that pass every filter
// dimension. A dimension with an empty allow-set passes everything on
// that dimension, so zero filters reproduce the input bag.
func Select(bag *graph.RelationshipBag, f graph.Filters) *graph.RelationshipBag {
	out := graph.NewRelationshipBag()
	if bag == nil {
		return out
	}

	relTypes := toSet(f.RelationTypes)
	subtypes := make(map[graph.SourceSubtype]struct{}, len(f.SourceSubtypes))
	for _, s := range f.SourceSubtypes {
		subtypes[s] = struct{}{}
	}

	for _, rel := range bag.Relations() {
		if len(relTypes) > 0 {
			if _, ok := relTypes[rel.Type]; !ok {
				continue
			}
		}
		for _, t := range rel.Targets {
			if !passesSubtype(t, subtypes) {
				continue
			}
			if !passesImportance(t, f.MinImportance) {
				continue
			}
			out.Add(rel.Type, t)
		}
	}
	return out
}

// passesSubtype applies the subtype allow-set. Only source-kind targets
// carry a subtype; everything else is unaffected by this dimension.
func passesSubtype(t graph.Target, allowed map[graph.SourceSubtype]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	if t.Kind != graph.KindSource {
		return true
	}
	_, ok := allowed[t.Subtype]
	return ok
}

// passesImportance drops targets strictly below the threshold. A target
// with no importance score passes; absent data never fails the filter.
func passesImportance(t graph.Target, min *float64) bool {
	if min == nil || t.Importance == nil {
		return true
	}
	return *t.Importance >= *min
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
