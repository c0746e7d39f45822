package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"
)

// callRequest is the wire shape POSTed to /tools/{name}.
type callRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// CallTool invokes a named tool on the endpoint.
//
// If the client is not Connected it attempts one connect; failure of that
// precondition returns immediately without retry. Transport-level failures are
// retried with exponential backoff (2^attempt seconds) up to MaxRetries, so a
// call performs at most MaxRetries+1 attempts. Non-2xx responses are semantic
// rejections and are surfaced immediately. CallTool never panics and never
// returns an error: every fault is folded into the ToolResult.
func (c *Client) CallTool(ctx context.Context, tool string, params map[string]any) (result ToolResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("tool call panicked", "tool", tool, "panic", r)
			result = ToolResult{
				Success: false,
				Err:     fmt.Sprintf("unexpected error: %v", r),
				Tool:    tool,
				Elapsed: time.Since(start),
			}
		}
	}()

	c.mu.Lock()
	if c.state != Connected {
		if !c.connectLocked(ctx) {
			c.mu.Unlock()
			return ToolResult{Success: false, Err: "not connected to endpoint", Tool: tool}
		}
	}
	httpClient := c.http
	known := slices.Contains(c.tools, tool)
	advertised := len(c.tools)
	c.mu.Unlock()

	// The capability list is advisory: the descriptor may be incomplete, so an
	// unknown tool is logged and the call proceeds anyway.
	if !known {
		c.log.Warn("tool not in advertised capability set",
			"tool", tool, "advertised", advertised)
	}

	body, err := json.Marshal(callRequest{Tool: tool, Parameters: params})
	if err != nil {
		return ToolResult{
			Success: false,
			Err:     fmt.Sprintf("encoding parameters: %v", err),
			Tool:    tool,
			Elapsed: time.Since(start),
		}
	}

	url := c.cfg.BaseURL() + "/tools/" + tool

	for attempt := 0; ; attempt++ {
		resp, err := c.post(ctx, httpClient, url, body)
		if err != nil {
			if attempt < c.cfg.MaxRetries {
				delay := backoffDelay(attempt)
				c.log.Warn("tool call failed, retrying",
					"tool", tool, "attempt", attempt+1, "max_retries", c.cfg.MaxRetries,
					"delay", delay, "error", err)
				c.sleep(ctx, delay)
				continue
			}
			return ToolResult{
				Success: false,
				Err:     fmt.Sprintf("network error after %d retries: %v", c.cfg.MaxRetries, err),
				Tool:    tool,
				Elapsed: time.Since(start),
			}
		}

		data, status, err := drainResponse(resp)
		if err != nil {
			// Reading the body is part of the transport; treat it like any
			// other network failure.
			if attempt < c.cfg.MaxRetries {
				delay := backoffDelay(attempt)
				c.log.Warn("tool response read failed, retrying",
					"tool", tool, "attempt", attempt+1, "delay", delay, "error", err)
				c.sleep(ctx, delay)
				continue
			}
			return ToolResult{
				Success: false,
				Err:     fmt.Sprintf("network error after %d retries: %v", c.cfg.MaxRetries, err),
				Tool:    tool,
				Elapsed: time.Since(start),
			}
		}

		if status < 200 || status >= 300 {
			return ToolResult{
				Success: false,
				Err:     fmt.Sprintf("HTTP %d: %s", status, data),
				Tool:    tool,
				Elapsed: time.Since(start),
			}
		}

		return ToolResult{
			Success: true,
			Data:    data,
			Tool:    tool,
			Elapsed: time.Since(start),
		}
	}
}

// backoffDelay is 2^attempt seconds. The shift is capped so a pathological
// retry count cannot overflow time.Duration into a zero or negative delay.
func backoffDelay(attempt int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return httpClient.Do(req)
}

func drainResponse(resp *http.Response) ([]byte, int, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}
