package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
pipeline:
  output_bucket: "staging-decks"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Pipeline.OutputBucket != "staging-decks" {
		t.Fatalf("expected output bucket staging-decks, got %s", cfg.Pipeline.OutputBucket)
	}
	if cfg.Pipeline.AssetFetchConcurrency != 8 {
		t.Fatalf("expected default fetch concurrency 8, got %d", cfg.Pipeline.AssetFetchConcurrency)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
  unknown_option: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown config field")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GCP_PROJECT_ID", "proj-from-env")
	t.Setenv("OUTPUT_BUCKET", "bucket-from-env")
	t.Setenv("ASSET_FETCH_CONCURRENCY", "3")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "120")

	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Pipeline.GCPProject != "proj-from-env" {
		t.Errorf("expected gcp project from env, got %s", cfg.Pipeline.GCPProject)
	}
	if cfg.Pipeline.OutputBucket != "bucket-from-env" {
		t.Errorf("expected output bucket from env, got %s", cfg.Pipeline.OutputBucket)
	}
	if cfg.Pipeline.AssetFetchConcurrency != 3 {
		t.Errorf("expected fetch concurrency 3, got %d", cfg.Pipeline.AssetFetchConcurrency)
	}
	if cfg.Pipeline.RequestTimeoutSeconds != 120 {
		t.Errorf("expected request timeout 120, got %d", cfg.Pipeline.RequestTimeoutSeconds)
	}
}

func TestEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ASSET_FETCH_CONCURRENCY", "not-a-number")

	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Pipeline.AssetFetchConcurrency != 8 {
		t.Errorf("expected default concurrency 8, got %d", cfg.Pipeline.AssetFetchConcurrency)
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Server.MaxPayloadBytes != 10*1024*1024 {
		t.Fatalf("expected default payload cap 10MB, got %d", cfg.Server.MaxPayloadBytes)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/metadata.db" {
		t.Fatalf("expected sqlite path data/metadata.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Storage.Type != "local" {
		t.Fatalf("expected default storage local, got %s", cfg.Storage.Type)
	}
	if cfg.Pipeline.OutputBucket != "presentation-staging" {
		t.Fatalf("expected default output bucket, got %s", cfg.Pipeline.OutputBucket)
	}
	if cfg.Pipeline.AssetFetchTimeoutSeconds != 30 {
		t.Fatalf("expected default fetch timeout 30s, got %d", cfg.Pipeline.AssetFetchTimeoutSeconds)
	}
}
