package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// NamesConfig holds settings for the name-generation demo.
type NamesConfig struct {
	Order     int `json:"order"`
	Count     int `json:"count"`
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
}

// TilemapConfig holds settings for the tile-map synthesis demo.
type TilemapConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Config is the top-level configuration for the demo tool.
type Config struct {
	LogLevel     string         `json:"log_level"`
	Seed         uint64         `json:"seed"` // 0 means time-seeded
	DatabasePath string         `json:"database_path"`
	Names        *NamesConfig   `json:"names_config"`
	Tilemap      *TilemapConfig `json:"tilemap_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		Seed:         0,
		DatabasePath: "",
		Names: &NamesConfig{
			Order:     1,
			Count:     10,
			MinLength: 4,
			MaxLength: 24,
		},
		Tilemap: &TilemapConfig{
			Width:  32,
			Height: 8,
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given
// path. If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The demo can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A file may null out a sub-config entirely; fall back to the
	// defaults rather than handing the demos a nil section.
	defaults := DefaultConfig()
	if config.Names == nil {
		config.Names = defaults.Names
	}
	if config.Tilemap == nil {
		config.Tilemap = defaults.Tilemap
	}
	return config, nil
}
