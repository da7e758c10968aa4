package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/slateworks/deckforge/pkg/storage"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  storage.Config `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address"`
	// MaxPayloadBytes caps the accepted request body size.
	MaxPayloadBytes int64 `yaml:"max_payload_bytes"`
}

// PipelineConfig defines presentation assembly settings.
type PipelineConfig struct {
	// GCPProject identifies the hosting project; informational, kept
	// for log correlation with the upstream agents.
	GCPProject string `yaml:"gcp_project"`
	// OutputBucket receives rendered presentation artifacts.
	OutputBucket string `yaml:"output_bucket"`
	// AssetFetchConcurrency caps parallel asset downloads per request.
	AssetFetchConcurrency int `yaml:"asset_fetch_concurrency"`
	// AssetFetchTimeoutSeconds bounds a single asset download.
	AssetFetchTimeoutSeconds int `yaml:"asset_fetch_timeout_seconds"`
	// RequestTimeoutSeconds bounds a whole generate request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// DatabaseConfig defines the metadata database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the
// binary executable. Environment variables override file values last.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	applyEnvOverrides(&parsed)
	return &parsed, nil
}

// MustLoad loads configuration or terminates the process.
func MustLoad(name string) *Config {
	cfg, err := Load(name)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			MaxPayloadBytes: 10 * 1024 * 1024, // 10MB
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/metadata.db",
			},
		},
		Storage: storage.DefaultConfig(),
		Pipeline: PipelineConfig{
			OutputBucket:             "presentation-staging",
			AssetFetchConcurrency:    8,
			AssetFetchTimeoutSeconds: 30,
			RequestTimeoutSeconds:    300,
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.MaxPayloadBytes <= 0 {
		cfg.Server.MaxPayloadBytes = 10 * 1024 * 1024
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/metadata.db"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage = storage.DefaultConfig()
	}
	if cfg.Pipeline.OutputBucket == "" {
		cfg.Pipeline.OutputBucket = "presentation-staging"
	}
	if cfg.Pipeline.AssetFetchConcurrency <= 0 {
		cfg.Pipeline.AssetFetchConcurrency = 8
	}
	if cfg.Pipeline.AssetFetchTimeoutSeconds <= 0 {
		cfg.Pipeline.AssetFetchTimeoutSeconds = 30
	}
	if cfg.Pipeline.RequestTimeoutSeconds <= 0 {
		cfg.Pipeline.RequestTimeoutSeconds = 300
	}
}

// applyEnvOverrides maps deployment environment variables onto the
// pipeline settings. Environment always wins over the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GCP_PROJECT_ID"); v != "" {
		cfg.Pipeline.GCPProject = v
	}
	if v := os.Getenv("OUTPUT_BUCKET"); v != "" {
		cfg.Pipeline.OutputBucket = v
	}
	if v := os.Getenv("ASSET_FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.AssetFetchConcurrency = n
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pipeline.RequestTimeoutSeconds = n
		}
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
