package paths

import (
	"os"
	"path/filepath"
)

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func xdgDir(envVar, fallbackSuffix string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, "yttranscript")
	}
	return filepath.Join(homeDir(), fallbackSuffix, "yttranscript")
}

// ConfigDir returns the yttranscript config directory ($XDG_CONFIG_HOME/yttranscript).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns the yttranscript cache directory ($XDG_CACHE_HOME/yttranscript).
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// ConfigFile returns the path to config.toml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// EnsureDir creates a directory and parents if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
