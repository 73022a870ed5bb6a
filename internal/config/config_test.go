package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Profile.Plan != nil || cfg.Matching.DistanceTolerance != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[profile]
plan = "10k-base"
base-time = "00:19:57"
base-distance = "5km"

[matching]
distance-tolerance = 0.15

[store]
driver = "postgres"
dsn = "postgres://localhost/pacer?sslmode=disable"

[log]
mode = "prod"
level = "info"

[weather]
temperature = 24
humidity = 70
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile.Plan == nil || *cfg.Profile.Plan != "10k-base" {
		t.Fatalf("unexpected plan: %v", cfg.Profile.Plan)
	}
	if cfg.Matching.DistanceTolerance == nil || *cfg.Matching.DistanceTolerance != 0.15 {
		t.Fatalf("unexpected tolerance: %v", cfg.Matching.DistanceTolerance)
	}
	if cfg.Store.Driver == nil || *cfg.Store.Driver != "postgres" {
		t.Fatalf("unexpected driver: %v", cfg.Store.Driver)
	}
	if cfg.Weather.Temperature == nil || *cfg.Weather.Temperature != 24 || cfg.Weather.Wind != nil {
		t.Fatalf("unexpected weather: %+v", cfg.Weather)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[profile]\nplann = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "pacer", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "pacer", "pacer.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultPlansDir(); got != filepath.Join("/cfg", "pacer", "plans") {
		t.Fatalf("unexpected plans dir %s", got)
	}
}
