package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markovr.json")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Names == nil || config.Tilemap == nil {
		t.Fatal("default config is missing sub-configs")
	}
	if config.Names.Order != 1 {
		t.Errorf("default Names.Order = %d, want 1", config.Names.Order)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}
}

func TestLoadConfigNullSubConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markovr.json")
	contents := `{"log_level": "debug", "names_config": null, "tilemap_config": null}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", config.LogLevel, "debug")
	}
	// Nulled sub-configs fall back to defaults instead of leaving nil
	// pointers for the demos to dereference.
	if config.Names == nil || config.Tilemap == nil {
		t.Fatal("null sub-configs were not replaced with defaults")
	}
	if config.Names.MaxLength != DefaultConfig().Names.MaxLength {
		t.Errorf("Names.MaxLength = %d, want default %d", config.Names.MaxLength, DefaultConfig().Names.MaxLength)
	}
}

func TestLoadConfigRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markovr.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}
