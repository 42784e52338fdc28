// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Titration TitrationConfig `toml:"titration"`
	Display   DisplayConfig   `toml:"display"`
}

// TitrationConfig maps the starting titration parameters.
type TitrationConfig struct {
	AcidConcentration *float64 `toml:"acid-conc"`
	AcidVolume        *float64 `toml:"acid-vol"`
	BaseConcentration *float64 `toml:"base-conc"`
	Samples           *int     `toml:"samples"`
}

// DisplayConfig maps label and chart settings.
type DisplayConfig struct {
	Lang   *string `toml:"lang"`
	Labels *string `toml:"labels"`
	Height *int    `toml:"height"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
