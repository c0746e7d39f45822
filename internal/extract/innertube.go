package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"yttranscript/internal/transcript"
)

// The primary extraction method talks to YouTube's Innertube player endpoint
// as the ANDROID client, which returns caption track URLs without requiring an
// API key, then fetches the chosen track in json3 format.

const (
	defaultPlayerURL     = "https://www.youtube.com/youtubei/v1/player"
	androidClientVersion = "20.10.38"
)

var (
	errNoCaptions          = errors.New("video has no caption tracks")
	errLanguageUnavailable = errors.New("no caption track for requested language")
)

type apiClient struct {
	http      *http.Client
	playerURL string
}

func newAPIClient(timeout time.Duration) *apiClient {
	return &apiClient{
		http:      &http.Client{Timeout: timeout},
		playerURL: defaultPlayerURL,
	}
}

type captionTrack struct {
	BaseURL        string `json:"baseUrl"`
	LanguageCode   string `json:"languageCode"`
	Kind           string `json:"kind"` // "asr" marks auto-generated tracks
	IsTranslatable bool   `json:"isTranslatable"`
	Name           struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var b strings.Builder
	for _, run := range t.Name.Runs {
		b.WriteString(run.Text)
	}
	if b.Len() > 0 {
		return b.String()
	}
	return t.LanguageCode
}

type playerResponse struct {
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// listTracks fetches the caption track list for a video. A playable video
// without tracks returns errNoCaptions; an unplayable video returns an error
// carrying YouTube's reason.
func (a *apiClient) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":        "ANDROID",
				"clientVersion":     androidClientVersion,
				"androidSdkVersion": 30,
				"hl":                "en",
			},
		},
		"videoId": videoID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.playerURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("player request: HTTP %d: %s", resp.StatusCode, data)
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}

	if status := pr.PlayabilityStatus.Status; status != "" && status != "OK" {
		reason := pr.PlayabilityStatus.Reason
		if reason == "" {
			reason = status
		}
		return nil, fmt.Errorf("video unavailable: %s", reason)
	}

	tracks := pr.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errNoCaptions
	}
	return tracks, nil
}

// json3 track format: a list of timed events, each with utf8 text segments.
type trackEvents struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (a *apiClient) fetchTrack(ctx context.Context, track captionTrack) ([]transcript.Segment, error) {
	url := track.BaseURL
	if !strings.Contains(url, "fmt=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption track request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption track request: HTTP %d", resp.StatusCode)
	}

	var events trackEvents
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding caption track: %w", err)
	}

	var segments []transcript.Segment
	for _, ev := range events.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Text:     text,
			Start:    float64(ev.StartMs) / 1000,
			Duration: float64(ev.DurationMs) / 1000,
		})
	}

	if len(segments) == 0 {
		return nil, errors.New("caption track contained no segments")
	}
	return segments, nil
}

func pickTrack(tracks []captionTrack, language string) (captionTrack, bool) {
	// Exact language match first, preferring human captions over generated.
	var generated *captionTrack
	for i := range tracks {
		t := tracks[i]
		if t.LanguageCode != language && !strings.HasPrefix(t.LanguageCode, language+"-") {
			continue
		}
		if t.Kind != "asr" {
			return t, true
		}
		if generated == nil {
			generated = &tracks[i]
		}
	}
	if generated != nil {
		return *generated, true
	}
	return captionTrack{}, false
}

// transcript fetches the transcript in the requested language, retrying in
// English when the requested language has no track. An English result served
// that way is flagged FallbackLanguage.
func (a *apiClient) transcript(ctx context.Context, videoID, language string) (*transcript.Result, error) {
	tracks, err := a.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	lang := language
	fallbackLanguage := false
	track, ok := pickTrack(tracks, lang)
	if !ok && language != "en" {
		track, ok = pickTrack(tracks, "en")
		if ok {
			lang = "en"
			fallbackLanguage = true
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errLanguageUnavailable, language)
	}

	segments, err := a.fetchTrack(ctx, track)
	if err != nil {
		return nil, err
	}

	return &transcript.Result{
		Success:          true,
		Transcript:       segments,
		FullText:         joinSegments(segments),
		Language:         lang,
		TotalSegments:    len(segments),
		Duration:         totalDuration(segments),
		FallbackLanguage: fallbackLanguage,
	}, nil
}

// availability lists the caption languages for a video. Missing captions are
// a successful "not available" report, not an error; only transport-level
// failures return an error.
func (a *apiClient) availability(ctx context.Context, videoID string) (*transcript.Availability, error) {
	tracks, err := a.listTracks(ctx, videoID)
	if err != nil {
		if errors.Is(err, errNoCaptions) {
			return &transcript.Availability{
				Success:              true,
				VideoID:              videoID,
				TranscriptsAvailable: false,
				AvailableLanguages:   []transcript.Language{},
			}, nil
		}
		return nil, err
	}

	languages := make([]transcript.Language, 0, len(tracks))
	for _, t := range tracks {
		languages = append(languages, transcript.Language{
			Language:       t.displayName(),
			LanguageCode:   t.LanguageCode,
			IsGenerated:    t.Kind == "asr",
			IsTranslatable: t.IsTranslatable,
		})
	}

	return &transcript.Availability{
		Success:              true,
		VideoID:              videoID,
		TranscriptsAvailable: true,
		AvailableLanguages:   languages,
		TotalLanguages:       len(languages),
	}, nil
}

func joinSegments(segments []transcript.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

func totalDuration(segments []transcript.Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	last := segments[len(segments)-1]
	return last.Start + last.Duration
}
