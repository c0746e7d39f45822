package config

import (
	"fmt"
	"os"
	"regexp"

	"yttranscript/internal/paths"

	"github.com/BurntSushi/toml"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the config file and returns the parsed Config with defaults
// applied. If the config file does not exist, it returns a default Config
// (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	expandConfigEnvVars(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Endpoint.Name == "" {
		cfg.Endpoint.Name = "youtube-transcript-server"
	}
	if cfg.Endpoint.Host == "" {
		cfg.Endpoint.Host = "localhost"
	}
	if cfg.Endpoint.Port == 0 {
		cfg.Endpoint.Port = 8000
	}
	if cfg.Endpoint.Protocol == "" {
		cfg.Endpoint.Protocol = "http"
	}
	if cfg.Endpoint.Timeout == "" {
		cfg.Endpoint.Timeout = "30s"
	}
	if cfg.Endpoint.MaxRetries == 0 {
		cfg.Endpoint.MaxRetries = 3
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = cfg.Endpoint.Name
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = fmt.Sprintf(":%d", cfg.Endpoint.Port)
	}

	if cfg.Storage.Database == "" {
		cfg.Storage.Database = "yttranscript"
	}
	if cfg.Storage.Collection == "" {
		cfg.Storage.Collection = "records"
	}

	if cfg.Browser.NavTimeout == "" {
		cfg.Browser.NavTimeout = "30s"
	}
	if cfg.Browser.SelectorTimeout == "" {
		cfg.Browser.SelectorTimeout = "10s"
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = paths.CacheDir()
	}
}

func expandConfigEnvVars(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Endpoint.Name = expandEnvVars(cfg.Endpoint.Name)
	cfg.Endpoint.Host = expandEnvVars(cfg.Endpoint.Host)
	cfg.Endpoint.Protocol = expandEnvVars(cfg.Endpoint.Protocol)
	cfg.Endpoint.Timeout = expandEnvVars(cfg.Endpoint.Timeout)
	cfg.Server.Listen = expandEnvVars(cfg.Server.Listen)
	cfg.Storage.URI = expandEnvVars(cfg.Storage.URI)
	cfg.Storage.Database = expandEnvVars(cfg.Storage.Database)
	cfg.Storage.Collection = expandEnvVars(cfg.Storage.Collection)
	cfg.Browser.NavTimeout = expandEnvVars(cfg.Browser.NavTimeout)
	cfg.Browser.SelectorTimeout = expandEnvVars(cfg.Browser.SelectorTimeout)
	cfg.Cache.Dir = expandEnvVars(cfg.Cache.Dir)
	cfg.Cache.TTL = expandEnvVars(cfg.Cache.TTL)
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
