package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCallToolSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/info":
			json.NewEncoder(w).Encode(Info{Name: "yt", Status: "active", Tools: []string{"get_video_metadata"}})
		case "/tools/get_video_metadata":
			var req callRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			if req.Tool != "get_video_metadata" {
				t.Errorf("request tool = %q", req.Tool)
			}
			if req.Parameters["video_url"] != "dQw4w9WgXcQ" {
				t.Errorf("request parameters = %v", req.Parameters)
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "title": "Never Gonna Give You Up"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL, 3)
	res := c.CallTool(context.Background(), "get_video_metadata", map[string]any{"video_url": "dQw4w9WgXcQ"})

	if !res.Success {
		t.Fatalf("CallTool() failure: %s", res.Err)
	}
	if res.Tool != "get_video_metadata" {
		t.Errorf("Tool = %q", res.Tool)
	}
	if res.Elapsed <= 0 {
		t.Error("Elapsed not recorded")
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		t.Fatalf("unmarshalling data: %v", err)
	}
	if payload.Title != "Never Gonna Give You Up" {
		t.Errorf("payload title = %q", payload.Title)
	}
}

func TestCallToolAutoConnects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tools/") {
			w.Write([]byte(`{"success":true}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL, 0)
	if c.State() != Disconnected {
		t.Fatal("expected fresh client to be disconnected")
	}

	res := c.CallTool(context.Background(), "fetch_youtube_transcript", nil)
	if !res.Success {
		t.Fatalf("CallTool() failure: %s", res.Err)
	}
	if c.State() != Connected {
		t.Fatal("expected client to be connected after auto-connect")
	}
}

func TestCallToolNotConnectedPrecondition(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, delays := testClient(t, srv.URL, 3)
	res := c.CallTool(ctx, "fetch_youtube_transcript", nil)

	if res.Success {
		t.Fatal("CallTool() success with failed connect, want failure")
	}
	if res.Err != "not connected to endpoint" {
		t.Fatalf("Err = %q, want not connected to endpoint", res.Err)
	}
	if len(*delays) != 0 {
		t.Fatalf("precondition failure slept %d times, want 0 (no retry)", len(*delays))
	}
}

func TestCallToolNon2xxNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tools/") {
			calls.Add(1)
			http.Error(w, "tool rejected", http.StatusBadRequest)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, delays := testClient(t, srv.URL, 3)
	res := c.CallTool(context.Background(), "fetch_youtube_transcript", nil)

	if res.Success {
		t.Fatal("CallTool() success for HTTP 400, want failure")
	}
	if !strings.Contains(res.Err, "HTTP 400") || !strings.Contains(res.Err, "tool rejected") {
		t.Fatalf("Err = %q, want status and body", res.Err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("tool endpoint hit %d times, want 1 (semantic errors are not retried)", got)
	}
	if len(*delays) != 0 {
		t.Fatalf("slept %d times, want 0", len(*delays))
	}
}

func TestCallToolRetriesTransportFailuresWithBackoff(t *testing.T) {
	const maxRetries = 3

	// A server that drops every tool connection produces a transport-level
	// failure on each attempt.
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tools/") {
			attempts.Add(1)
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijacking connection: %v", err)
			}
			conn.Close()
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, delays := testClient(t, srv.URL, maxRetries)
	res := c.CallTool(context.Background(), "fetch_youtube_transcript", map[string]any{"video_url": "x"})

	if res.Success {
		t.Fatal("CallTool() success against failing transport, want failure")
	}
	if !strings.Contains(res.Err, "network error after 3 retries") {
		t.Fatalf("Err = %q, want exhaustion message", res.Err)
	}
	if got := attempts.Load(); got != maxRetries+1 {
		t.Fatalf("attempts = %d, want %d", got, maxRetries+1)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("slept %d times, want %d", len(*delays), len(want))
	}
	for i, d := range *delays {
		if d != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
		}
		if i > 0 && d <= (*delays)[i-1] {
			t.Errorf("delay[%d] = %v not strictly greater than delay[%d] = %v", i, d, i-1, (*delays)[i-1])
		}
	}
}

func TestCallToolRecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/tools/") {
			http.NotFound(w, r)
			return
		}
		if attempts.Add(1) == 1 {
			hj := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, delays := testClient(t, srv.URL, 3)
	res := c.CallTool(context.Background(), "fetch_youtube_transcript", nil)

	if !res.Success {
		t.Fatalf("CallTool() failure after recovery: %s", res.Err)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
	if len(*delays) != 1 || (*delays)[0] != time.Second {
		t.Fatalf("delays = %v, want single 1s backoff", *delays)
	}
}

func TestCallToolUnknownToolIsAdvisoryOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/info":
			json.NewEncoder(w).Encode(Info{Name: "yt", Status: "active", Tools: []string{"something_else"}})
		case strings.HasPrefix(r.URL.Path, "/tools/"):
			w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL, 0)
	c.Connect(context.Background())

	res := c.CallTool(context.Background(), "fetch_youtube_transcript", nil)
	if !res.Success {
		t.Fatalf("CallTool() for unadvertised tool failed: %s", res.Err)
	}
}

func TestBackoffDelayGrowsAndNeverOverflows(t *testing.T) {
	if got := backoffDelay(0); got != time.Second {
		t.Errorf("backoffDelay(0) = %v, want 1s", got)
	}
	if got := backoffDelay(2); got != 4*time.Second {
		t.Errorf("backoffDelay(2) = %v, want 4s", got)
	}
	if backoffDelay(3) <= backoffDelay(2) {
		t.Error("backoffDelay not increasing")
	}
	for _, attempt := range []int{30, 63, 100} {
		if got := backoffDelay(attempt); got <= 0 {
			t.Errorf("backoffDelay(%d) = %v, want positive", attempt, got)
		}
	}
}
