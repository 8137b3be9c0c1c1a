package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultConfigPath = "contactctl.toml"

type cliConfig struct {
	BaseURL        string
	ConfirmDeletes bool
	Timeout        time.Duration
}

type fileConfig struct {
	BaseURL        string `toml:"base_url"`
	ConfirmDeletes bool   `toml:"confirm_deletes"`
	Timeout        string `toml:"timeout"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		BaseURL:        "http://localhost:5000",
		ConfirmDeletes: true,
		Timeout:        10 * time.Second,
	}
}

// loadConfig reads path over the defaults. A missing file at the default
// location is not an error.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
			return cfg, nil
		}
		return cliConfig{}, fmt.Errorf("load contactctl config: %w", err)
	}

	if meta.IsDefined("base_url") {
		if u := strings.TrimSpace(raw.BaseURL); u != "" {
			cfg.BaseURL = u
		}
	}

	if meta.IsDefined("confirm_deletes") {
		cfg.ConfirmDeletes = raw.ConfirmDeletes
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		if d <= 0 {
			return cliConfig{}, fmt.Errorf("timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cliConfig{}, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	return cfg, nil
}
