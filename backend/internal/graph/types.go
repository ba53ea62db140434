package graph

// NodeKind classifies a node in the knowledge graph
type NodeKind string

const (
	KindConcept    NodeKind = "concept"
	KindDefinition NodeKind = "definition"
	KindSource     NodeKind = "source"
)

// SourceSubtype classifies a source node by where its content came from
type SourceSubtype string

const (
	SubtypeYouTube    SourceSubtype = "youtube"
	SubtypeWebArticle SourceSubtype = "web_article"
	SubtypeNote       SourceSubtype = "note"
	SubtypePDF        SourceSubtype = "pdf"
)

// GraphNode is one node of the knowledge graph. Immutable once received.
type GraphNode struct {
	URI           string        `json:"uri"`
	Label         string        `json:"label"`
	Definition    string        `json:"definition,omitempty"`
	Kind          NodeKind      `json:"kind"`
	SourceSubtype SourceSubtype `json:"source_subtype,omitempty"`
	Importance    *float64      `json:"importance,omitempty"`
}

// Target is one endpoint of a typed relationship out of a center node
type Target struct {
	URI        string        `json:"uri,omitempty"`
	Label      string        `json:"label"`
	Kind       NodeKind      `json:"kind,omitempty"`
	Subtype    SourceSubtype `json:"subtype,omitempty"`
	Importance *float64      `json:"importance,omitempty"`
}

// Relation is one relation type with its targets in insertion order
type Relation struct {
	Type    string   `json:"type"`
	Targets []Target `json:"targets"`
}

// RelationshipBag maps relation-type names to ordered targets.
// Insertion order is significant on both levels and survives every
// transform: first-seen order of relation types, then per-type order
// of targets.
type RelationshipBag struct {
	relations []Relation
	index     map[string]int
}

// NewRelationshipBag creates an empty bag
func NewRelationshipBag() *RelationshipBag {
	return &RelationshipBag{index: make(map[string]int)}
}

// Add appends a target under the given relation type, registering the
// type at the end of the order if it is new
func (b *RelationshipBag) Add(relType string, t Target) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	i, ok := b.index[relType]
	if !ok {
		i = len(b.relations)
		b.index[relType] = i
		b.relations = append(b.relations, Relation{Type: relType})
	}
	b.relations[i].Targets = append(b.relations[i].Targets, t)
}

// Relations returns the relations in insertion order. The outer slice
// is a copy so callers cannot reorder the bag.
func (b *RelationshipBag) Relations() []Relation {
	if b == nil {
		return nil
	}
	out := make([]Relation, len(b.relations))
	copy(out, b.relations)
	return out
}

// Len returns the number of relation types in the bag
func (b *RelationshipBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.relations)
}

// TargetCount returns the total number of targets across all relation types
func (b *RelationshipBag) TargetCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, rel := range b.relations {
		n += len(rel.Targets)
	}
	return n
}

// Neighborhood is a one-hop star: a center node plus its typed
// relationships. Nothing beyond depth 1 is modeled.
type Neighborhood struct {
	Center        GraphNode
	Relationships *RelationshipBag
}

// AdjacentNode is a target promoted to a full node for navigation
// state, annotated with the relation type it was reached through
type AdjacentNode struct {
	GraphNode
	RelationType string `json:"relation_type"`
}

// IsSelfReference reports whether a target points back at the center.
// URIs are compared when the target carries one; graphs that key nodes
// by label alone fall back to the label.
func IsSelfReference(center GraphNode, t Target) bool {
	if t.URI != "" && t.URI == center.URI {
		return true
	}
	return t.Label == center.Label
}

// Adjacent flattens a bag into the ordered adjacency list: relation
// types in bag order, targets in per-type order. Self-referential
// targets are dropped; the center is never its own neighbor.
func Adjacent(center GraphNode, bag *RelationshipBag) []AdjacentNode {
	if bag == nil {
		return nil
	}
	out := make([]AdjacentNode, 0, bag.TargetCount())
	for _, rel := range bag.relations {
		for _, t := range rel.Targets {
			if IsSelfReference(center, t) {
				continue
			}
			out = append(out, AdjacentNode{
				GraphNode: GraphNode{
					URI:           t.URI,
					Label:         t.Label,
					Kind:          t.Kind,
					SourceSubtype: t.Subtype,
					Importance:    t.Importance,
				},
				RelationType: rel.Type,
			})
		}
	}
	return out
}

// Filters narrows which targets of a neighborhood are shown. Each
// dimension with an empty allow-set passes everything on that
// dimension; filters select, they never mutate.
type Filters struct {
	RelationTypes  []string        `json:"relation_types,omitempty"`
	SourceSubtypes []SourceSubtype `json:"source_subtypes,omitempty"`
	MinImportance  *float64        `json:"min_importance,omitempty"`
}

// IsZero reports whether every dimension is unset
func (f Filters) IsZero() bool {
	return len(f.RelationTypes) == 0 && len(f.SourceSubtypes) == 0 && f.MinImportance == nil
}
