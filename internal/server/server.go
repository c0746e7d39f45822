// Package server exposes the extraction pipeline over the endpoint's HTTP
// contract: POST /tools/{name} for tool calls, GET /info for the capability
// descriptor, and GET /health for liveness. Tool-level failures are structured
// JSON bodies, not HTTP errors; only malformed requests and unknown tools get
// non-2xx statuses.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"yttranscript/internal/cache"
	"yttranscript/internal/store"
	"yttranscript/internal/transcript"
	"yttranscript/internal/videoid"
)

// Tool names served by this endpoint.
var toolNames = []string{
	"fetch_youtube_transcript",
	"get_video_metadata",
	"check_transcript_availability",
}

// Extractor is the orchestrator seam: every method returns a structured
// record, never an error.
type Extractor interface {
	Transcript(ctx context.Context, rawURL, language string) *transcript.Result
	Metadata(ctx context.Context, rawURL string) *transcript.Metadata
	Availability(ctx context.Context, rawURL string) *transcript.Availability
}

// Options wires the server's collaborators. Cache and Store are optional.
type Options struct {
	Name      string
	Extractor Extractor
	Cache     *cache.Cache
	Store     store.Store
	Logger    *slog.Logger
}

// Server handles the endpoint's HTTP surface.
type Server struct {
	name      string
	extractor Extractor
	cache     *cache.Cache
	store     store.Store
	log       *slog.Logger
}

// New creates a server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = "youtube-transcript-server"
	}
	return &Server{
		name:      name,
		extractor: opts.Extractor,
		cache:     opts.Cache,
		store:     opts.Store,
		log:       log,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /tools/{tool}", s.handleTool)
	return mux
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":   s.name,
		"status": "active",
		"tools":  toolNames,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// toolRequest is the wire shape POSTed to /tools/{name}.
type toolRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	tool := r.PathValue("tool")

	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("malformed request body: %v", err)})
		return
	}

	videoURL, ok := stringParam(req.Parameters, "video_url")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required parameter: video_url"})
		return
	}

	start := time.Now()
	var payload []byte
	switch tool {
	case "fetch_youtube_transcript":
		language, ok := stringParam(req.Parameters, "language")
		if !ok || language == "" {
			language = "en"
		}
		payload = s.fetchTranscript(r.Context(), videoURL, language)
	case "get_video_metadata":
		payload = s.fetchMetadata(r.Context(), videoURL)
	case "check_transcript_availability":
		payload = s.checkAvailability(r.Context(), videoURL)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tool: " + tool})
		return
	}

	s.log.Info("tool call served", "tool", tool, "elapsed", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) fetchTranscript(ctx context.Context, videoURL, language string) []byte {
	cacheID := cacheKeyID(videoURL)

	if s.cache != nil && cacheID != "" {
		if content, ok := s.cache.Get("fetch_youtube_transcript", cacheID, language); ok {
			s.log.Info("cache hit", "tool", "fetch_youtube_transcript", "video_id", cacheID)
			return content
		}
	}

	res := s.extractor.Transcript(ctx, videoURL, language)
	payload := mustJSON(s.log, res)

	// Degraded manual content is never cached: a later request should get
	// another chance at the real transcript.
	if s.cache != nil && cacheID != "" && res.Success && !res.FallbackContent {
		if err := s.cache.Put("fetch_youtube_transcript", cacheID, language, payload); err != nil {
			s.log.Warn("cache store failed", "video_id", cacheID, "error", err)
		}
	}

	s.saveRecord(ctx, &store.Record{
		VideoID:  res.VideoID,
		Kind:     store.KindTranscript,
		Method:   res.Method,
		Language: language,
		Success:  res.Success,
		Payload:  string(payload),
	})
	return payload
}

func (s *Server) fetchMetadata(ctx context.Context, videoURL string) []byte {
	cacheID := cacheKeyID(videoURL)

	if s.cache != nil && cacheID != "" {
		if content, ok := s.cache.Get("get_video_metadata", cacheID, ""); ok {
			s.log.Info("cache hit", "tool", "get_video_metadata", "video_id", cacheID)
			return content
		}
	}

	meta := s.extractor.Metadata(ctx, videoURL)
	payload := mustJSON(s.log, meta)

	if s.cache != nil && cacheID != "" && meta.Success {
		if err := s.cache.Put("get_video_metadata", cacheID, "", payload); err != nil {
			s.log.Warn("cache store failed", "video_id", cacheID, "error", err)
		}
	}

	s.saveRecord(ctx, &store.Record{
		VideoID: meta.VideoID,
		Kind:    store.KindMetadata,
		Success: meta.Success,
		Payload: string(payload),
	})
	return payload
}

func (s *Server) checkAvailability(ctx context.Context, videoURL string) []byte {
	avail := s.extractor.Availability(ctx, videoURL)
	payload := mustJSON(s.log, avail)

	s.saveRecord(ctx, &store.Record{
		VideoID: avail.VideoID,
		Kind:    store.KindAvailability,
		Success: avail.Success,
		Payload: string(payload),
	})
	return payload
}

// saveRecord persists a result best-effort; storage failures never affect the
// response.
func (s *Server) saveRecord(ctx context.Context, rec *store.Record) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Save(ctx, rec); err != nil {
		s.log.Warn("record store failed", "video_id", rec.VideoID, "kind", rec.Kind, "error", err)
	}
}

// cacheKeyID normalizes the raw reference for cache keying. Unparseable
// references bypass the cache and go straight to the extractor, which will
// produce the structured failure.
func cacheKeyID(videoURL string) string {
	id, err := videoid.Parse(videoURL)
	if err != nil {
		return ""
	}
	return id
}

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", false
	}
	return str, true
}

func mustJSON(log *slog.Logger, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding result failed", "error", err)
		return []byte(`{"success":false,"error":"internal encoding error"}`)
	}
	return data
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
