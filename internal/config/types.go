package config

// Config is the top-level yttranscript configuration, shared by the client CLI
// and the server daemon. Zero values are filled in by Load via applyDefaults.
type Config struct {
	Endpoint EndpointConfig `toml:"endpoint"`
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Browser  BrowserConfig  `toml:"browser"`
	Cache    CacheConfig    `toml:"cache"`
}

// EndpointConfig describes how the client reaches one transcript endpoint.
type EndpointConfig struct {
	Name       string `toml:"name"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Protocol   string `toml:"protocol"`
	Timeout    string `toml:"timeout"`
	MaxRetries int    `toml:"max_retries"`
}

// ServerConfig holds the daemon's listen settings.
type ServerConfig struct {
	Name   string `toml:"name"`
	Listen string `toml:"listen"`

	// ServeMCP additionally mounts the tools as an MCP streamable HTTP
	// endpoint under /mcp.
	ServeMCP bool `toml:"serve_mcp"`
}

// StorageConfig configures the optional record store. An empty URI disables
// persistence entirely.
type StorageConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// BrowserConfig bounds the headless-browser fallback.
type BrowserConfig struct {
	Headless        *bool  `toml:"headless"`
	NavTimeout      string `toml:"nav_timeout"`
	SelectorTimeout string `toml:"selector_timeout"`
}

// CacheConfig configures the server-side result cache. An empty TTL disables
// caching.
type CacheConfig struct {
	Dir string `toml:"dir"`
	TTL string `toml:"ttl"`
}

// HeadlessEnabled reports whether the fallback browser runs headless
// (the default when unset).
func (b BrowserConfig) HeadlessEnabled() bool {
	return b.Headless == nil || *b.Headless
}
