package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Port", cfg.Port, "8080"},
		{"DBPath", cfg.DBPath, "data/app.db"},
		{"Exploration", cfg.Planner.Exploration, 0.2},
		{"RefuelEvery", cfg.Planner.RefuelEvery, 1000},
		{"Seed", cfg.Planner.Seed, uint64(2017)},
		{"Timeout", cfg.Planner.Timeout, 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRANSPORT_PORT", "9090")
	t.Setenv("TRANSPORT_PLANNER_SEED", "7")
	t.Setenv("TRANSPORT_PLANNER_TIMEOUT", "250ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Planner.Seed != 7 {
		t.Fatalf("Seed = %d, want 7", cfg.Planner.Seed)
	}
	if cfg.Planner.Timeout != 250*time.Millisecond {
		t.Fatalf("Timeout = %v, want 250ms", cfg.Planner.Timeout)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transport.yaml")
	body := "db_path: /tmp/runs.db\nplanner:\n  exploration: 0.5\n  refuel_every: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/runs.db" || cfg.Planner.Exploration != 0.5 || cfg.Planner.RefuelEvery != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Planner.Temperature != 0.05 {
		t.Fatalf("Temperature = %g, want default 0.05", cfg.Planner.Temperature)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestGet(t *testing.T) {
	t.Setenv("TRANSPORT_TEST_KEY", "set")
	if got := Get("TRANSPORT_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("Get = %q, want set", got)
	}
	if got := Get("TRANSPORT_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q, want fallback", got)
	}
}
