// Package sources classifies source nodes and fetches lightweight
// previews for the inspector sidebar.
package sources

import (
	"net/url"
	"strings"

	"graphscope/backend/internal/graph"
)

// Classify maps a source location to its subtype. Anything that is not
// a URL is treated as a local note.
func Classify(location string) graph.SourceSubtype {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return graph.SubtypeNote
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "youtube.com" || host == "youtu.be" || host == "m.youtube.com" {
		return graph.SubtypeYouTube
	}

	if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		return graph.SubtypePDF
	}

	return graph.SubtypeWebArticle
}
