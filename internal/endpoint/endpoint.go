// Package endpoint implements the connection lifecycle and retrying tool
// invoker for one remote transcript endpoint. A Client owns one pooled HTTP
// session, tracks its connection state, and exposes named tool calls over the
// endpoint's /tools/{name} contract.
package endpoint

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config identifies one remote endpoint. Immutable once constructed.
type Config struct {
	Name       string
	Host       string
	Port       int
	Protocol   string
	Timeout    time.Duration
	MaxRetries int
}

// BaseURL derives the endpoint's base address.
func (c Config) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// State is the connection state of a Client. Transitions are serialized by the
// owning Client; Disconnected and Error are both re-enterable, so a failed
// client may retry Connect.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Error
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ToolResult is the outcome of one tool invocation. It is constructed once per
// call and never mutated after return. Errors embedded inside Data are the
// caller's concern; Success only reflects transport-level outcome.
type ToolResult struct {
	Success bool
	Data    json.RawMessage
	Err     string
	Tool    string
	Elapsed time.Duration
}

// Info is the capability descriptor served at /info.
type Info struct {
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Tools  []string `json:"tools"`
}

// DefaultTools is the hardcoded capability set substituted when the descriptor
// request fails. The endpoint is assumed minimally compatible.
var DefaultTools = []string{
	"fetch_youtube_transcript",
	"get_video_metadata",
	"check_transcript_availability",
}
