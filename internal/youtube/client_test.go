package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"yttranscript/internal/endpoint"
	"yttranscript/internal/transcript"
)

// fakeCaller is a scripted toolCaller.
type fakeCaller struct {
	fn func(tool string, params map[string]any) endpoint.ToolResult
}

func (f *fakeCaller) CallTool(ctx context.Context, tool string, params map[string]any) endpoint.ToolResult {
	return f.fn(tool, params)
}

func clientWith(fn func(tool string, params map[string]any) endpoint.ToolResult) *Client {
	return &Client{caller: &fakeCaller{fn: fn}}
}

func successResult(t *testing.T, tool string, payload any) endpoint.ToolResult {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshalling payload: %v", err)
	}
	return endpoint.ToolResult{Success: true, Data: data, Tool: tool}
}

func TestFetchTranscript(t *testing.T) {
	c := clientWith(func(tool string, params map[string]any) endpoint.ToolResult {
		if tool != ToolFetchTranscript {
			t.Errorf("tool = %q", tool)
		}
		if params["video_url"] != "dQw4w9WgXcQ" || params["language"] != "en" {
			t.Errorf("params = %v", params)
		}
		return successResult(t, tool, transcript.Result{
			Success:       true,
			Method:        transcript.MethodAPI,
			VideoID:       "dQw4w9WgXcQ",
			FullText:      "never gonna give you up",
			TotalSegments: 1,
		})
	})

	res, err := c.FetchTranscript(context.Background(), "dQw4w9WgXcQ", "en")
	if err != nil {
		t.Fatalf("FetchTranscript() error = %v", err)
	}
	if res.Method != transcript.MethodAPI || res.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("result = %+v", res)
	}
}

func TestFetchTranscriptFailureRaisesTypedError(t *testing.T) {
	c := clientWith(func(tool string, params map[string]any) endpoint.ToolResult {
		return endpoint.ToolResult{Success: false, Err: "network error after 3 retries: boom", Tool: tool}
	})

	_, err := c.FetchTranscript(context.Background(), "dQw4w9WgXcQ", "en")
	if err == nil {
		t.Fatal("FetchTranscript() error = nil, want ToolExecutionError")
	}

	var terr *ToolExecutionError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *ToolExecutionError", err)
	}
	if terr.Tool != ToolFetchTranscript {
		t.Errorf("Tool = %q", terr.Tool)
	}
	if !strings.Contains(terr.Reason, "network error after 3 retries") {
		t.Errorf("Reason = %q, want invoker error preserved", terr.Reason)
	}
}

func TestVideoMetadata(t *testing.T) {
	c := clientWith(func(tool string, params map[string]any) endpoint.ToolResult {
		if tool != ToolVideoMetadata {
			t.Errorf("tool = %q", tool)
		}
		return successResult(t, tool, transcript.Metadata{
			Success: true,
			VideoID: "dQw4w9WgXcQ",
			Title:   "Never Gonna Give You Up",
			Channel: "Rick Astley",
		})
	})

	meta, err := c.VideoMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("VideoMetadata() error = %v", err)
	}
	if meta.Title != "Never Gonna Give You Up" || meta.Channel != "Rick Astley" {
		t.Fatalf("metadata = %+v", meta)
	}
}

func TestCheckAvailability(t *testing.T) {
	c := clientWith(func(tool string, params map[string]any) endpoint.ToolResult {
		if tool != ToolAvailability {
			t.Errorf("tool = %q", tool)
		}
		return successResult(t, tool, transcript.Availability{
			Success:              true,
			VideoID:              "dQw4w9WgXcQ",
			TranscriptsAvailable: true,
			AvailableLanguages: []transcript.Language{
				{Language: "English", LanguageCode: "en", IsGenerated: true, IsTranslatable: true},
			},
			TotalLanguages: 1,
		})
	})

	avail, err := c.CheckAvailability(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("CheckAvailability() error = %v", err)
	}
	if !avail.TranscriptsAvailable || avail.TotalLanguages != 1 {
		t.Fatalf("availability = %+v", avail)
	}
	if avail.AvailableLanguages[0].LanguageCode != "en" {
		t.Fatalf("languages = %+v", avail.AvailableLanguages)
	}
}

func TestMalformedPayloadBecomesTypedError(t *testing.T) {
	c := clientWith(func(tool string, params map[string]any) endpoint.ToolResult {
		return endpoint.ToolResult{Success: true, Data: []byte("not json"), Tool: tool}
	})

	if _, err := c.VideoMetadata(context.Background(), "dQw4w9WgXcQ"); err == nil {
		t.Fatal("VideoMetadata() error = nil for malformed payload, want error")
	}
}
