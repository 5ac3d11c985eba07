// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for aushape with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (AUSHAPE_*)
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "AUSHAPE_"

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .aushape.yaml (current directory)
//   - .aushape.yml (current directory)
//   - ~/.aushape/config.yaml
//   - ~/.aushape/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on file and directory paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".aushape.yaml",
			".aushape.yml",
			filepath.Join(os.Getenv("HOME"), ".aushape", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".aushape", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Output.Path = expandPath(cfg.Output.Path)
	cfg.Output.DB = expandPath(cfg.Output.DB)
	cfg.Output.MetadataDir = expandPath(cfg.Output.MetadataDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies AUSHAPE_* environment variables on top of cfg.
// Unset variables leave the loaded values alone.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// BuildFormat returns the output format described by the configuration.
func (c *Config) BuildFormat() (*format.Format, error) {
	lang, err := format.ParseLang(c.Format.Lang)
	if err != nil {
		return nil, err
	}
	fold, err := format.ParseFoldLevel(c.Format.Fold)
	if err != nil {
		return nil, err
	}
	f := &format.Format{
		Lang:         lang,
		FoldLevel:    fold,
		EventsPerDoc: c.Format.EventsPerDoc,
		Indent:       c.Format.Indent,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Location returns the time zone event timestamps are rendered in. Empty
// and "Local" select the local time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, aerrors.InvalidArguments("unknown time zone", "timezone", c.Timezone)
	}
	return loc, nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.NoLevel, aerrors.InvalidArguments("unknown log level", "level", c.Log.Level)
	}
	return level, nil
}

// Validate checks if the configuration contains valid values. It ensures
// the output format is well-formed, the time zone and log level are known,
// and the selected outputs can carry the documents produced. This should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if _, err := c.BuildFormat(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Output.DB != "" && c.Format.EventsPerDoc {
		return aerrors.InvalidArguments("the event database stores one document per event; disable events_per_doc",
			"db", c.Output.DB)
	}
	return nil
}
