package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"yttranscript/internal/transcript"
	"yttranscript/internal/videoid"

	"github.com/chromedp/chromedp"
)

// The browser fallback drives headless Chrome against the live watch page.
// It depends on YouTube's UI structure, so every selector lives here and
// nowhere else; the orchestrator only sees a method that succeeds or fails.

// transcriptPanelSelectors are tried in preference order. The first selector
// with a matching element opens the transcript panel.
var transcriptPanelSelectors = []string{
	`button[aria-label*="transcript"]`,
	`button[aria-label*="Show transcript"]`,
	`[aria-label*="Open transcript"]`,
	`ytd-transcript-section-renderer`,
}

const (
	playerSelector  = `#movie_player`
	segmentSelector = `ytd-transcript-segment-renderer`
)

var (
	errNoTranscriptButton = errors.New("no transcript button found")
	errNoSegments         = errors.New("no transcript segments found")
)

type browserFetcher struct {
	headless        bool
	navTimeout      time.Duration
	selectorTimeout time.Duration
	log             *slog.Logger
}

func newBrowserFetcher(headless bool, navTimeout, selectorTimeout time.Duration, log *slog.Logger) *browserFetcher {
	return &browserFetcher{
		headless:        headless,
		navTimeout:      navTimeout,
		selectorTimeout: selectorTimeout,
		log:             log,
	}
}

// newTab starts a fresh browser tab bounded by the navigation timeout. The
// returned cancel func tears down the tab and the browser process.
func (b *browserFetcher) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !b.headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, b.navTimeout)

	cancel := func() {
		cancelTimeout()
		cancelTab()
		cancelAlloc()
	}
	return timeoutCtx, cancel
}

type scrapedSegment struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

const scrapeSegmentsJS = `Array.from(document.querySelectorAll('ytd-transcript-segment-renderer')).map(el => {
	const textEl = el.querySelector('.segment-text');
	const buttonEl = el.querySelector('[role="button"]');
	return {
		text: textEl ? textEl.innerText : '',
		label: buttonEl ? (buttonEl.getAttribute('aria-label') || '') : ''
	};
})`

// transcript scrapes rendered transcript segments from the watch page DOM.
func (b *browserFetcher) transcript(ctx context.Context, videoID, language string) (*transcript.Result, error) {
	tabCtx, cancel := b.newTab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(videoid.WatchURL(videoID)),
		chromedp.WaitReady(playerSelector, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("loading watch page: %w", err)
	}

	selector, err := b.findTranscriptButton(tabCtx)
	if err != nil {
		return nil, err
	}

	if err := chromedp.Run(tabCtx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("opening transcript panel: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, b.selectorTimeout)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(segmentSelector, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("waiting for transcript segments: %w", err)
	}

	var scraped []scrapedSegment
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(scrapeSegmentsJS, &scraped)); err != nil {
		return nil, fmt.Errorf("scraping transcript segments: %w", err)
	}

	segments := buildSegments(scraped)
	if len(segments) == 0 {
		return nil, errNoSegments
	}

	return &transcript.Result{
		Success:       true,
		Transcript:    segments,
		FullText:      joinSegments(segments),
		Language:      language,
		TotalSegments: len(segments),
		Duration:      totalDuration(segments),
	}, nil
}

// findTranscriptButton probes the preference-ordered selectors and returns
// the first one present in the DOM.
func (b *browserFetcher) findTranscriptButton(ctx context.Context) (string, error) {
	for _, sel := range transcriptPanelSelectors {
		var found bool
		js := fmt.Sprintf("document.querySelector(%s) !== null", strconv.Quote(sel))
		if err := chromedp.Run(ctx, chromedp.Evaluate(js, &found)); err != nil {
			b.log.Warn("selector probe failed", "selector", sel, "error", err)
			continue
		}
		if found {
			return sel, nil
		}
	}
	return "", errNoTranscriptButton
}

func buildSegments(scraped []scrapedSegment) []transcript.Segment {
	var segments []transcript.Segment
	for _, s := range scraped {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Text:  text,
			Start: parseTimestamp(s.Label),
			// The rendered panel exposes no per-segment duration.
			Duration: 0,
		})
	}
	return segments
}

var timestampRe = regexp.MustCompile(`(?:(\d+):)?(\d+):(\d+)`)

// parseTimestamp extracts a start offset in seconds from an aria-label like
// "3 minutes, 12 seconds 3:12". Returns 0 when no time pattern is present.
func parseTimestamp(label string) float64 {
	m := timestampRe.FindStringSubmatch(label)
	if m == nil {
		return 0
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return float64(hours*3600 + minutes*60 + seconds)
}

const scrapeMetadataJS = `(() => {
	const text = sel => {
		const el = document.querySelector(sel);
		return el ? el.innerText.trim() : '';
	};
	return {
		title: text('h1.ytd-watch-metadata'),
		channel: text('ytd-channel-name a'),
		description: text('#description-text'),
		duration: text('.ytp-time-duration'),
		views: text('#count .view-count')
	};
})()`

type scrapedMetadata struct {
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Views       string `json:"views"`
}

// metadata scrapes title, channel, description, duration, and view count from
// the watch page. Fields other than the title are best-effort.
func (b *browserFetcher) metadata(ctx context.Context, videoID string) (*transcript.Metadata, error) {
	tabCtx, cancel := b.newTab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(videoid.WatchURL(videoID)),
		chromedp.WaitReady("h1.ytd-watch-metadata", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("loading watch page: %w", err)
	}

	var scraped scrapedMetadata
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(scrapeMetadataJS, &scraped)); err != nil {
		return nil, fmt.Errorf("scraping metadata: %w", err)
	}

	return &transcript.Metadata{
		Success:     true,
		VideoID:     videoID,
		Title:       scraped.Title,
		Channel:     scraped.Channel,
		Description: scraped.Description,
		Duration:    scraped.Duration,
		Views:       scraped.Views,
		URL:         videoid.WatchURL(videoID),
	}, nil
}
