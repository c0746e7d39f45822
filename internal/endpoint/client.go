package endpoint

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Client is the connection-state machine for one endpoint. It is safe for
// concurrent tool calls (batch fetches share one client); state transitions
// are serialized internally.
type Client struct {
	cfg Config
	log *slog.Logger

	mu    sync.Mutex
	state State
	http  *http.Client
	tools []string
	info  *Info

	// sleep is a test seam for the backoff delay. It must respect ctx.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a disconnected client for the given endpoint.
func New(cfg Config) *Client {
	return &Client{
		cfg:   cfg,
		log:   slog.Default(),
		state: Disconnected,
		sleep: sleepCtx,
	}
}

// SetLogger replaces the client's logger. Call before first use.
func (c *Client) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// Config returns the endpoint configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Connect establishes the HTTP session and queries the capability descriptor.
// A failed descriptor request substitutes DefaultTools rather than failing the
// connection. Returns true when the client ends up Connected.
func (c *Client) Connect(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) bool {
	if c.state == Connected {
		return true
	}

	c.state = Connecting
	c.http = &http.Client{Timeout: c.cfg.Timeout}

	info, err := c.fetchInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			c.log.Error("connect aborted", "endpoint", c.cfg.Name, "error", ctx.Err())
			c.http = nil
			c.state = Error
			return false
		}
		// Descriptor endpoint missing or unreachable: assume the endpoint is
		// minimally compatible and carry on with the default tool set.
		c.log.Warn("could not get endpoint info, using default tool set",
			"endpoint", c.cfg.Name, "error", err)
		info = &Info{Name: c.cfg.Name, Status: "active", Tools: DefaultTools}
	}

	c.info = info
	c.tools = append([]string(nil), info.Tools...)
	c.state = Connected
	c.log.Info("connected to endpoint", "endpoint", c.cfg.Name, "url", c.cfg.BaseURL())
	return true
}

func (c *Client) fetchInfo(ctx context.Context) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL()+"/info", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("info request failed", "endpoint", c.cfg.Name, "status", resp.StatusCode)
		return &Info{Name: c.cfg.Name, Status: "active", Tools: DefaultTools}, nil
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Disconnect releases the transport session, resets state to Disconnected and
// clears cached capabilities. Best-effort: it always succeeds.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http != nil {
		c.http.CloseIdleConnections()
		c.http = nil
	}
	c.state = Disconnected
	c.tools = nil
	c.info = nil
	c.log.Info("disconnected from endpoint", "endpoint", c.cfg.Name)
}

// HealthCheck probes /health. It returns false immediately when not Connected
// and never returns an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	c.mu.Lock()
	httpClient := c.http
	connected := c.state == Connected
	c.mu.Unlock()

	if !connected || httpClient == nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL()+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.log.Warn("health check failed", "endpoint", c.cfg.Name, "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// IsConnected reports whether the client is currently Connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Connected
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AvailableTools returns a copy of the advertised tool names. The list is
// informational only; it never gates a call.
func (c *Client) AvailableTools() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tools...)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
