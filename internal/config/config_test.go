package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8188" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.UI.RefreshIntervalSeconds != 30 {
		t.Errorf("refresh interval = %d, want 30", cfg.UI.RefreshIntervalSeconds)
	}
}

func TestLoadFrom_FieldFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"api":{"base_url":"","timeout_seconds":-1},"ui":{"refresh_interval_seconds":0}}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Error("empty base URL should fall back to default")
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", cfg.API.TimeoutSeconds)
	}
	if cfg.UI.RefreshIntervalSeconds != 30 {
		t.Errorf("refresh interval = %d, want 30", cfg.UI.RefreshIntervalSeconds)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`nope`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if cfg.API.BaseURL != DefaultConfig().API.BaseURL {
		t.Errorf("expected defaults on parse failure, got %+v", cfg)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	in := DefaultConfig()
	in.API.BaseURL = "http://localhost:9999"
	if err := SaveTo(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.API.BaseURL != "http://localhost:9999" {
		t.Errorf("base URL = %q", out.API.BaseURL)
	}
}
