package render

import (
	"graphscope/backend/internal/graph"
)

// Style tells the hyperbolic-tree renderer how to draw one node
type Style struct {
	ColorTag string `json:"colorTag"`
	ShapeTag string `json:"shapeTag"`
	SizeHint string `json:"sizeHint"`
}

// Palette tags, one per node kind/subtype the renderer knows about
const (
	TagRoot        = "root"
	TagConcept     = "concept"
	TagDefinition  = "definition"
	TagSource      = "source"
	TagYouTube     = "youtube"
	TagWebArticle  = "web_article"
	TagNote        = "note"
	TagPDF         = "pdf"
	TagPlaceholder = "placeholder"
)

// Size hints
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

type paletteEntry struct {
	color string
	shape string
}

// palette is the fixed tag -> color/shape mapping shared with the
// renderer. One constant per tag, never derived at runtime.
var palette = map[string]paletteEntry{
	TagRoot:        {color: "#7c3aed", shape: "circle"},
	TagConcept:     {color: "#2563eb", shape: "circle"},
	TagDefinition:  {color: "#059669", shape: "square"},
	TagSource:      {color: "#d97706", shape: "diamond"},
	TagYouTube:     {color: "#dc2626", shape: "diamond"},
	TagWebArticle:  {color: "#0891b2", shape: "diamond"},
	TagNote:        {color: "#ca8a04", shape: "diamond"},
	TagPDF:         {color: "#b91c1c", shape: "diamond"},
	TagPlaceholder: {color: "#9ca3af", shape: "circle"},
}

// PaletteColor returns the color constant for a tag, falling back to
// the placeholder entry for anything unknown
func PaletteColor(tag string) string {
	if e, ok := palette[tag]; ok {
		return e.color
	}
	return palette[TagPlaceholder].color
}

// PaletteShape returns the shape constant for a tag with the same
// placeholder fallback
func PaletteShape(tag string) string {
	if e, ok := palette[tag]; ok {
		return e.shape
	}
	return palette[TagPlaceholder].shape
}

// PaletteEntry is one renderer-facing palette row
type PaletteEntry struct {
	Tag   string `json:"tag"`
	Color string `json:"color"`
	Shape string `json:"shape"`
}

// Palette returns the full palette enumeration handed to the renderer
// at initialization, in a fixed order
func Palette() []PaletteEntry {
	tags := []string{TagRoot, TagConcept, TagDefinition, TagSource, TagYouTube, TagWebArticle, TagNote, TagPDF, TagPlaceholder}
	out := make([]PaletteEntry, 0, len(tags))
	for _, tag := range tags {
		e := palette[tag]
		out = append(out, PaletteEntry{Tag: tag, Color: e.color, Shape: e.shape})
	}
	return out
}

// tagFor maps a node kind (and, for sources, subtype) to its palette
// tag. Unrecognized kinds fall back to the neutral placeholder tag
// rather than failing.
func tagFor(kind graph.NodeKind, subtype graph.SourceSubtype) string {
	switch kind {
	case graph.KindConcept:
		return TagConcept
	case graph.KindDefinition:
		return TagDefinition
	case graph.KindSource:
		switch subtype {
		case graph.SubtypeYouTube:
			return TagYouTube
		case graph.SubtypeWebArticle:
			return TagWebArticle
		case graph.SubtypeNote:
			return TagNote
		case graph.SubtypePDF:
			return TagPDF
		}
		return TagSource
	}
	return TagPlaceholder
}

// sizeFor buckets an importance score into a display size hint.
// Unscored nodes render medium.
func sizeFor(importance *float64) string {
	if importance == nil {
		return SizeMedium
	}
	switch {
	case *importance < 0.35:
		return SizeSmall
	case *importance < 0.7:
		return SizeMedium
	default:
		return SizeLarge
	}
}

func styleFor(tag string, importance *float64) Style {
	return Style{
		ColorTag: tag,
		ShapeTag: PaletteShape(tag),
		SizeHint: sizeFor(importance),
	}
}
