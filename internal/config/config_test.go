package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.StartingGems != 1000 {
		t.Errorf("expected default starting gems, got %d", cfg.StartingGems)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
addr: ":9000"
starting_gems: 5000
webhooks:
  win: "https://example.com/win"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %q", cfg.Addr)
	}
	if cfg.StartingGems != 5000 {
		t.Errorf("expected starting gems 5000, got %d", cfg.StartingGems)
	}
	if cfg.Webhooks.Win != "https://example.com/win" {
		t.Errorf("expected win webhook, got %q", cfg.Webhooks.Win)
	}
	if cfg.DBPath != "gem-casino.db" {
		t.Errorf("unset fields must keep defaults, got %q", cfg.DBPath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
