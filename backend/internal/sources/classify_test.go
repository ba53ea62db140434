package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
)

func TestClassify(t *testing.T) {
	cases := map[string]graph.SourceSubtype{
		"https://www.youtube.com/watch?v=abc":   graph.SubtypeYouTube,
		"https://youtu.be/abc":                  graph.SubtypeYouTube,
		"https://m.youtube.com/watch?v=abc":     graph.SubtypeYouTube,
		"https://arxiv.org/pdf/1706.03762.pdf":  graph.SubtypePDF,
		"https://example.com/papers/intro.PDF":  graph.SubtypePDF,
		"https://example.com/blog/transformers": graph.SubtypeWebArticle,
		"http://example.com":                    graph.SubtypeWebArticle,
		"my-scratch-note":                       graph.SubtypeNote,
		"":                                      graph.SubtypeNote,
		"file:///home/notes.txt":                graph.SubtypeNote,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Errorf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreviewer_FetchWebArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Fallback Title</title>
			<meta property="og:title" content="Attention Is All You Need">
			<meta name="description" content="The transformer paper.">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	p := NewPreviewer(2*time.Second, zap.NewNop())
	preview := p.Fetch(context.Background(), srv.URL+"/article")

	if preview.Subtype != string(graph.SubtypeWebArticle) {
		t.Errorf("unexpected subtype: %s", preview.Subtype)
	}
	if preview.Title != "Attention Is All You Need" {
		t.Errorf("og:title should win: %q", preview.Title)
	}
	if preview.Description != "The transformer paper." {
		t.Errorf("unexpected description: %q", preview.Description)
	}
}

func TestPreviewer_NonArticleSkipsFetch(t *testing.T) {
	p := NewPreviewer(time.Second, zap.NewNop())
	preview := p.Fetch(context.Background(), "https://youtu.be/abc")
	if preview.Subtype != string(graph.SubtypeYouTube) || preview.Title != "" {
		t.Errorf("non-article should classify only: %+v", preview)
	}
}

func TestPreviewer_FetchFailureDegradesToEmptyPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPreviewer(time.Second, zap.NewNop())
	preview := p.Fetch(context.Background(), srv.URL)
	if preview.Title != "" || preview.Description != "" {
		t.Errorf("failure should degrade to classification only: %+v", preview)
	}
}
