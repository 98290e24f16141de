package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runchart/runchart/internal/config"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
theme = "light"
snapshot_file = "/var/run/workflow.json"
refresh_seconds = 10
chart_height = 40
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected theme 'light', got '%s'", cfg.Theme)
	}
	if cfg.SnapshotFile != "/var/run/workflow.json" {
		t.Errorf("expected snapshot file '/var/run/workflow.json', got '%s'", cfg.SnapshotFile)
	}
	if cfg.RefreshSeconds != 10 {
		t.Errorf("expected refresh 10, got %d", cfg.RefreshSeconds)
	}
	if cfg.ChartHeight != 40 {
		t.Errorf("expected chart height 40, got %d", cfg.ChartHeight)
	}
}

func TestLoad_EnvVarsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
theme = "dark"
snapshot_file = "/from/file.json"
refresh_seconds = 15
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RUNCHART_THEME", "light")
	t.Setenv("RUNCHART_SNAPSHOT", "/from/env.json")
	t.Setenv("RUNCHART_REFRESH", "3")

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected env theme 'light', got '%s'", cfg.Theme)
	}
	if cfg.SnapshotFile != "/from/env.json" {
		t.Errorf("expected env snapshot '/from/env.json', got '%s'", cfg.SnapshotFile)
	}
	if cfg.RefreshSeconds != 3 {
		t.Errorf("expected env refresh 3, got %d", cfg.RefreshSeconds)
	}
}

func TestLoad_MissingFileIsNotError(t *testing.T) {
	t.Setenv("RUNCHART_THEME", "light")
	cfg, err := config.LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected theme from env, got '%s'", cfg.Theme)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nested", "config.toml")

	saved := config.Config{
		Theme:          "light",
		SnapshotFile:   "/var/run/workflow.json",
		RefreshSeconds: 7,
		ChartHeight:    30,
	}
	if err := config.Save(configPath, saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected config file mode 0600, got %o", perm)
	}

	loaded, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != saved {
		t.Errorf("expected round-tripped config %+v, got %+v", saved, loaded)
	}
}

func TestRefreshSecondsOrDefault(t *testing.T) {
	if got := (config.Config{}).RefreshSecondsOrDefault(); got != 5 {
		t.Errorf("expected default refresh 5, got %d", got)
	}
	if got := (config.Config{RefreshSeconds: 12}).RefreshSecondsOrDefault(); got != 12 {
		t.Errorf("expected refresh 12, got %d", got)
	}
}
