package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yttranscript/internal/transcript"
	"yttranscript/internal/videoid"

	"github.com/PuerkitoBio/goquery"
)

// The manual extraction method is the last resort: it loads only the watch
// page's title and description as a degraded substitute payload. It fails only
// when the page itself cannot be loaded.

const manualNote = "This is fallback content from video title and description, not actual transcript"

type manualFetcher struct {
	http    *http.Client
	pageURL func(videoID string) string
}

func newManualFetcher(timeout time.Duration) *manualFetcher {
	return &manualFetcher{
		http:    &http.Client{Timeout: timeout},
		pageURL: videoid.WatchURL,
	}
}

func (m *manualFetcher) transcript(ctx context.Context, videoID string) (*transcript.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.pageURL(videoID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loading watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loading watch page: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing watch page: %w", err)
	}

	title, description := pageSummary(doc)
	content := fmt.Sprintf("Title: %s\n\nDescription: %s", title, description)

	return &transcript.Result{
		Success:         true,
		Transcript:      []transcript.Segment{{Text: content, Start: 0, Duration: 0}},
		FullText:        content,
		Language:        "unknown",
		TotalSegments:   1,
		Duration:        0,
		FallbackContent: true,
		Note:            manualNote,
	}, nil
}

// pageSummary pulls the title and description out of the static page, trying
// OpenGraph tags before generic fallbacks. Missing fields come back empty;
// a blank summary is still a valid degraded payload.
func pageSummary(doc *goquery.Document) (title, description string) {
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		title = strings.TrimSpace(v)
	}
	if title == "" {
		title = strings.TrimSpace(strings.TrimSuffix(doc.Find("title").First().Text(), " - YouTube"))
	}

	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		description = strings.TrimSpace(v)
	}
	if description == "" {
		if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
			description = strings.TrimSpace(v)
		}
	}
	return title, description
}
