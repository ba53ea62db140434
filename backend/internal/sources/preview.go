package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Preview is the metadata shown next to a source node in the sidebar
type Preview struct {
	URL         string `json:"url"`
	Subtype     string `json:"subtype"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Previewer fetches titles and descriptions for web-article sources.
// Failures degrade to an empty preview; a broken source page must never
// break navigation.
type Previewer struct {
	client *http.Client
	logger *zap.Logger
}

// NewPreviewer creates a previewer with the given HTTP budget
func NewPreviewer(timeout time.Duration, log *zap.Logger) *Previewer {
	return &Previewer{
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

// Fetch returns a preview for the source at url. Only web articles are
// fetched; other subtypes come back with classification only.
func (p *Previewer) Fetch(ctx context.Context, rawURL string) Preview {
	preview := Preview{URL: rawURL, Subtype: string(Classify(rawURL))}
	if preview.Subtype != "web_article" {
		return preview
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		p.logger.Debug("Preview request build failed", zap.String("url", rawURL), zap.Error(err))
		return preview
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Preview fetch failed", zap.String("url", rawURL), zap.Error(err))
		return preview
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("Preview fetch non-200", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return preview
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		p.logger.Debug("Preview parse failed", zap.String("url", rawURL), zap.Error(err))
		return preview
	}

	preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		preview.Title = strings.TrimSpace(og)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		preview.Description = strings.TrimSpace(desc)
	}

	const maxDescription = 300
	if len(preview.Description) > maxDescription {
		preview.Description = fmt.Sprintf("%s...", preview.Description[:maxDescription])
	}
	return preview
}
