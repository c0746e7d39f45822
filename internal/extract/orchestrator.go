// Package extract implements the server-side fallback orchestrator: given a
// raw video reference it tries the primary caption API, then a headless
// browser scrape, then a degraded title/description fetch, in that fixed
// order, and returns the first success stamped with the method that produced
// it.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yttranscript/internal/transcript"
	"yttranscript/internal/videoid"
)

// Options configures the extraction methods.
type Options struct {
	// Timeout bounds the primary API and manual HTTP calls.
	Timeout time.Duration

	// Headless, NavTimeout, and SelectorTimeout configure the browser method.
	Headless        bool
	NavTimeout      time.Duration
	SelectorTimeout time.Duration

	Logger *slog.Logger
}

// Orchestrator runs the fallback chain. The three methods are strictly
// sequential per request: each is progressively more expensive, so a success
// from a cheaper method pre-empts the costlier ones. No method runs twice for
// the same request.
type Orchestrator struct {
	log *slog.Logger

	// Method seams, replaceable in tests.
	apiTranscript     func(ctx context.Context, videoID, language string) (*transcript.Result, error)
	browserTranscript func(ctx context.Context, videoID, language string) (*transcript.Result, error)
	manualTranscript  func(ctx context.Context, videoID string) (*transcript.Result, error)
	browserMetadata   func(ctx context.Context, videoID string) (*transcript.Metadata, error)
	apiAvailability   func(ctx context.Context, videoID string) (*transcript.Availability, error)
}

// New builds an orchestrator with the real extraction methods.
func New(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.SelectorTimeout <= 0 {
		opts.SelectorTimeout = 10 * time.Second
	}

	api := newAPIClient(opts.Timeout)
	browser := newBrowserFetcher(opts.Headless, opts.NavTimeout, opts.SelectorTimeout, log)
	manual := newManualFetcher(opts.Timeout)

	return &Orchestrator{
		log:               log,
		apiTranscript:     api.transcript,
		browserTranscript: browser.transcript,
		manualTranscript:  manual.transcript,
		browserMetadata:   browser.metadata,
		apiAvailability:   api.availability,
	}
}

// Transcript resolves a raw video reference and runs the fallback chain.
// It always returns a structured result: normalization failure and full
// method exhaustion both come back as failure records tagged
// failed_all_methods, never as a panic or raw error.
func (o *Orchestrator) Transcript(ctx context.Context, rawURL, language string) *transcript.Result {
	videoID, err := videoid.Parse(rawURL)
	if err != nil {
		return &transcript.Result{
			Success:  false,
			Err:      fmt.Sprintf("unparseable identifier: %v", err),
			Method:   transcript.MethodFailed,
			VideoURL: rawURL,
		}
	}

	var failures []string

	res, err := o.runTranscriptMethod(transcript.MethodAPI, func() (*transcript.Result, error) {
		return o.apiTranscript(ctx, videoID, language)
	})
	if err == nil {
		return stamp(res, transcript.MethodAPI, videoID)
	}
	o.log.Warn("primary API method failed", "video_id", videoID, "error", err)
	failures = append(failures, transcript.MethodAPI+": "+err.Error())

	res, err = o.runTranscriptMethod(transcript.MethodBrowser, func() (*transcript.Result, error) {
		return o.browserTranscript(ctx, videoID, language)
	})
	if err == nil {
		return stamp(res, transcript.MethodBrowser, videoID)
	}
	o.log.Error("browser method failed", "video_id", videoID, "error", err)
	failures = append(failures, transcript.MethodBrowser+": "+err.Error())

	res, err = o.runTranscriptMethod(transcript.MethodManual, func() (*transcript.Result, error) {
		return o.manualTranscript(ctx, videoID)
	})
	if err == nil {
		return stamp(res, transcript.MethodManual, videoID)
	}
	o.log.Error("manual method failed", "video_id", videoID, "error", err)
	failures = append(failures, transcript.MethodManual+": "+err.Error())

	return &transcript.Result{
		Success:  false,
		Err:      "all extraction methods failed: " + strings.Join(failures, "; "),
		Method:   transcript.MethodFailed,
		VideoID:  videoID,
		VideoURL: rawURL,
	}
}

// runTranscriptMethod executes one method, converting panics into method
// failures so a broken method never takes down the request. Only a non-nil
// result marked Success counts as a success; anything else is normalized into
// a method failure so the chain keeps progressing.
func (o *Orchestrator) runTranscriptMethod(method string, fn func() (*transcript.Result, error)) (res *transcript.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("extraction method panicked", "method", method, "panic", r)
			res, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()

	res, err = fn()
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("method returned no result")
	}
	if !res.Success {
		if res.Err != "" {
			return nil, errors.New(res.Err)
		}
		return nil, errors.New("method reported failure")
	}
	return res, nil
}

func stamp(res *transcript.Result, method, videoID string) *transcript.Result {
	res.Method = method
	res.VideoID = videoID
	return res
}

// Metadata resolves a raw reference and scrapes video metadata. Failures are
// returned as structured records, never raw errors.
func (o *Orchestrator) Metadata(ctx context.Context, rawURL string) *transcript.Metadata {
	videoID, err := videoid.Parse(rawURL)
	if err != nil {
		return &transcript.Metadata{
			Success:  false,
			Err:      fmt.Sprintf("unparseable identifier: %v", err),
			VideoURL: rawURL,
		}
	}

	meta, err := o.runMetadata(ctx, videoID)
	if err != nil {
		o.log.Error("metadata extraction failed", "video_id", videoID, "error", err)
		return &transcript.Metadata{
			Success:  false,
			Err:      err.Error(),
			VideoID:  videoID,
			VideoURL: rawURL,
		}
	}
	return meta
}

func (o *Orchestrator) runMetadata(ctx context.Context, videoID string) (meta *transcript.Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("metadata method panicked", "video_id", videoID, "panic", r)
			meta, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return o.browserMetadata(ctx, videoID)
}

// Availability resolves a raw reference and reports available transcript
// languages from the caption API.
func (o *Orchestrator) Availability(ctx context.Context, rawURL string) *transcript.Availability {
	videoID, err := videoid.Parse(rawURL)
	if err != nil {
		return &transcript.Availability{
			Success:            false,
			Err:                fmt.Sprintf("unparseable identifier: %v", err),
			VideoURL:           rawURL,
			AvailableLanguages: []transcript.Language{},
		}
	}

	avail, err := o.runAvailability(ctx, videoID)
	if err != nil {
		o.log.Error("availability check failed", "video_id", videoID, "error", err)
		return &transcript.Availability{
			Success:            false,
			Err:                err.Error(),
			VideoID:            videoID,
			VideoURL:           rawURL,
			AvailableLanguages: []transcript.Language{},
		}
	}
	return avail
}

func (o *Orchestrator) runAvailability(ctx context.Context, videoID string) (avail *transcript.Availability, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("availability method panicked", "video_id", videoID, "panic", r)
			avail, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return o.apiAvailability(ctx, videoID)
}
