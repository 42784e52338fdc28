// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "tuitrate", "config.toml")
}

// DefaultLabelsDir returns the directory searched for custom label files.
func DefaultLabelsDir() string {
	return filepath.Join(XDGConfigHome(), "tuitrate", "labels")
}

// ResolveLabelsPath expands a bare label file name against DefaultLabelsDir.
// Absolute paths and paths with a directory part are returned unchanged.
func ResolveLabelsPath(path string) string {
	if path == "" || filepath.IsAbs(path) || filepath.Base(path) != path {
		return path
	}
	return filepath.Join(DefaultLabelsDir(), path)
}
