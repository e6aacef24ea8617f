// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to reach and log in to a chat server.
type Config struct {
	// Hostname is the server base URL, including scheme
	// (e.g. "https://chat.example.com").
	Hostname string `yaml:"hostname" env:"TALKOXID_HOSTNAME"`
	// Username is the account to log in as.
	Username string `yaml:"username" env:"TALKOXID_USERNAME"`
	// Password is the account password, hashed before it leaves the
	// client.
	Password string `yaml:"password" env:"TALKOXID_PASSWORD"`
	// InsecureSkipVerify disables TLS certificate verification, for
	// servers with self-signed certificates.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"TALKOXID_INSECURE_SKIP_VERIFY"`
}

// DefaultPath returns the conventional config file location under the
// user's configuration directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "talkoxid", "talkoxid.yaml"), nil
}

// Load reads configuration from the YAML file at path, then applies
// environment variable overrides. When path is empty the default
// location is used, and a missing file there is not an error; an
// explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	config := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file at the default location; environment and
		// flags can still supply everything.
	default:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("config: failed to read environment: %w", err)
	}
	return config, nil
}

// Validate reports the first missing required field.
func (c *Config) Validate() error {
	if c.Hostname == "" {
		return fmt.Errorf("config: hostname is required")
	}
	if c.Username == "" {
		return fmt.Errorf("config: username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("config: password is required")
	}
	return nil
}
