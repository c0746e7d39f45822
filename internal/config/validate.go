package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// maxRetryLimit bounds endpoint.max_retries. With exponential backoff the
// tenth retry already waits over 17 minutes; anything larger is a config typo.
const maxRetryLimit = 10

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if strings.TrimSpace(cfg.Endpoint.Host) == "" {
		errs = append(errs, errors.New("endpoint.host: must not be empty"))
	}
	if cfg.Endpoint.Port < 1 || cfg.Endpoint.Port > 65535 {
		errs = append(errs, fmt.Errorf("endpoint.port: out of range: %d", cfg.Endpoint.Port))
	}
	switch cfg.Endpoint.Protocol {
	case "http", "https":
	default:
		errs = append(errs, fmt.Errorf("endpoint.protocol: must be http or https, got %q", cfg.Endpoint.Protocol))
	}
	if err := validateDuration("endpoint.timeout", cfg.Endpoint.Timeout, true); err != nil {
		errs = append(errs, err)
	}
	if cfg.Endpoint.MaxRetries < 0 || cfg.Endpoint.MaxRetries > maxRetryLimit {
		errs = append(errs, fmt.Errorf("endpoint.max_retries: must be between 0 and %d, got %d", maxRetryLimit, cfg.Endpoint.MaxRetries))
	}

	if err := validateDuration("browser.nav_timeout", cfg.Browser.NavTimeout, true); err != nil {
		errs = append(errs, err)
	}
	if err := validateDuration("browser.selector_timeout", cfg.Browser.SelectorTimeout, true); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.TTL != "" {
		if err := validateDuration("cache.ttl", cfg.Cache.TTL, false); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.Storage.URI != "" {
		if strings.TrimSpace(cfg.Storage.Database) == "" {
			errs = append(errs, errors.New("storage.database: required when storage.uri is set"))
		}
		if strings.TrimSpace(cfg.Storage.Collection) == "" {
			errs = append(errs, errors.New("storage.collection: required when storage.uri is set"))
		}
	}

	return errors.Join(errs...)
}

func validateDuration(field, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s: must not be empty", field)
		}
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be > 0, got %q", field, value)
	}
	return nil
}

// EndpointTimeout returns the parsed per-call timeout. Call Validate first;
// an unparseable value falls back to 30 seconds.
func (c *Config) EndpointTimeout() time.Duration {
	return durationOr(c.Endpoint.Timeout, 30*time.Second)
}

// BrowserNavTimeout returns the parsed page-navigation timeout.
func (c *Config) BrowserNavTimeout() time.Duration {
	return durationOr(c.Browser.NavTimeout, 30*time.Second)
}

// BrowserSelectorTimeout returns the parsed element-wait timeout.
func (c *Config) BrowserSelectorTimeout() time.Duration {
	return durationOr(c.Browser.SelectorTimeout, 10*time.Second)
}

// CacheTTL returns the parsed cache TTL and whether caching is enabled.
func (c *Config) CacheTTL() (time.Duration, bool) {
	if c.Cache.TTL == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func durationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
