// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Every field has a default so
// an empty or missing file yields a working local setup.
type Config struct {
	Addr         string   `yaml:"addr"`
	DBPath       string   `yaml:"db_path"`
	StartingGems int64    `yaml:"starting_gems"`
	CORSOrigins  []string `yaml:"cors_origins"`
	Webhooks     Webhooks `yaml:"webhooks"`
}

// Webhooks holds the outbound notification endpoints. Empty URLs disable
// the corresponding notification.
type Webhooks struct {
	Signup string `yaml:"signup"`
	Win    string `yaml:"win"`
	Ban    string `yaml:"ban"`
	Cheat  string `yaml:"cheat"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:         ":8080",
		DBPath:       "gem-casino.db",
		StartingGems: 1000,
		CORSOrigins:  []string{"*"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = Default().DBPath
	}
	if cfg.StartingGems <= 0 {
		cfg.StartingGems = Default().StartingGems
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = Default().CORSOrigins
	}
	return cfg, nil
}
