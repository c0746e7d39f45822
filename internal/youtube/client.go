// Package youtube is the high-level resource client: a domain facade over one
// endpoint.Client exposing transcript fetch, metadata, availability, and a
// concurrency-bounded batch variant.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yttranscript/internal/endpoint"
	"yttranscript/internal/transcript"
)

// Tool names exposed by the transcript endpoint.
const (
	ToolFetchTranscript = "fetch_youtube_transcript"
	ToolVideoMetadata   = "get_video_metadata"
	ToolAvailability    = "check_transcript_availability"
)

// ToolExecutionError is returned when the endpoint reports a failed tool call.
// It carries the invoker's error string unchanged.
type ToolExecutionError struct {
	Tool   string
	Reason string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Reason)
}

// toolCaller is the seam between the facade and the endpoint client.
type toolCaller interface {
	CallTool(ctx context.Context, tool string, params map[string]any) endpoint.ToolResult
}

// Client is the high-level YouTube transcript client.
type Client struct {
	endpoint *endpoint.Client
	caller   toolCaller
}

// New creates a client for a transcript endpoint at host:port with default
// timeout and retry settings.
func New(host string, port int) *Client {
	return NewWithEndpoint(endpoint.New(endpoint.Config{
		Name:       "youtube-transcript-server",
		Host:       host,
		Port:       port,
		Protocol:   "http",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}))
}

// NewWithEndpoint wraps an existing endpoint client.
func NewWithEndpoint(ec *endpoint.Client) *Client {
	return &Client{endpoint: ec, caller: ec}
}

// Connect establishes the underlying endpoint connection.
func (c *Client) Connect(ctx context.Context) bool {
	return c.endpoint.Connect(ctx)
}

// Disconnect releases the underlying endpoint connection.
func (c *Client) Disconnect() {
	c.endpoint.Disconnect()
}

// IsConnected reports whether the underlying endpoint client is connected.
func (c *Client) IsConnected() bool {
	return c.endpoint.IsConnected()
}

// AvailableTools returns the tool names advertised by the endpoint.
func (c *Client) AvailableTools() []string {
	return c.endpoint.AvailableTools()
}

// HealthCheck probes the endpoint's health route.
func (c *Client) HealthCheck(ctx context.Context) bool {
	return c.endpoint.HealthCheck(ctx)
}

// FetchTranscript fetches the transcript for a video URL or bare id. The
// invoker has already applied retry/backoff; a failed result is converted into
// a ToolExecutionError here and not retried again.
func (c *Client) FetchTranscript(ctx context.Context, videoURL, language string) (*transcript.Result, error) {
	res := c.caller.CallTool(ctx, ToolFetchTranscript, map[string]any{
		"video_url": videoURL,
		"language":  language,
	})
	if !res.Success {
		return nil, &ToolExecutionError{Tool: ToolFetchTranscript, Reason: res.Err}
	}

	var out transcript.Result
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return nil, &ToolExecutionError{Tool: ToolFetchTranscript, Reason: fmt.Sprintf("decoding response: %v", err)}
	}
	return &out, nil
}

// VideoMetadata fetches title, channel, description, duration and view count
// for a video.
func (c *Client) VideoMetadata(ctx context.Context, videoURL string) (*transcript.Metadata, error) {
	res := c.caller.CallTool(ctx, ToolVideoMetadata, map[string]any{
		"video_url": videoURL,
	})
	if !res.Success {
		return nil, &ToolExecutionError{Tool: ToolVideoMetadata, Reason: res.Err}
	}

	var out transcript.Metadata
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return nil, &ToolExecutionError{Tool: ToolVideoMetadata, Reason: fmt.Sprintf("decoding response: %v", err)}
	}
	return &out, nil
}

// CheckAvailability reports whether transcripts exist for a video and lists
// the available languages.
func (c *Client) CheckAvailability(ctx context.Context, videoURL string) (*transcript.Availability, error) {
	res := c.caller.CallTool(ctx, ToolAvailability, map[string]any{
		"video_url": videoURL,
	})
	if !res.Success {
		return nil, &ToolExecutionError{Tool: ToolAvailability, Reason: res.Err}
	}

	var out transcript.Availability
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return nil, &ToolExecutionError{Tool: ToolAvailability, Reason: fmt.Sprintf("decoding response: %v", err)}
	}
	return &out, nil
}
