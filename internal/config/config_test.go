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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// isolate points HOME at an empty directory so no user config is found.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Format.Lang != "xml" {
		t.Errorf("Lang = %s, want xml", cfg.Format.Lang)
	}
	if cfg.Format.Fold != "2" {
		t.Errorf("Fold = %s, want 2", cfg.Format.Fold)
	}
	if !cfg.Format.EventsPerDoc {
		t.Error("EventsPerDoc = false, want true")
	}
	if cfg.Format.Indent != "  " {
		t.Errorf("Indent = %q, want two spaces", cfg.Format.Indent)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("Timezone = %s, want Local", cfg.Timezone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	f, err := cfg.BuildFormat()
	if err != nil {
		t.Fatalf("BuildFormat failed: %v", err)
	}
	if *f != *format.Default() {
		t.Errorf("BuildFormat() = %+v, want %+v", *f, *format.Default())
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
format:
  lang: json
  fold: 3
  events_per_doc: false
  indent: "\t"

output:
  path: /var/log/aushape.json
  db: ~/events.db
  metadata_dir: /custom/meta

log:
  level: debug

timezone: UTC
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Format.Lang != "json" {
		t.Errorf("Lang = %s, want json", cfg.Format.Lang)
	}
	if cfg.Format.Fold != "3" {
		t.Errorf("Fold = %s, want 3", cfg.Format.Fold)
	}
	if cfg.Format.EventsPerDoc {
		t.Error("EventsPerDoc = true, want false")
	}
	if cfg.Format.Indent != "\t" {
		t.Errorf("Indent = %q, want tab", cfg.Format.Indent)
	}
	if cfg.Output.Path != "/var/log/aushape.json" {
		t.Errorf("Path = %s, want /var/log/aushape.json", cfg.Output.Path)
	}
	if want := filepath.Join(os.Getenv("HOME"), "events.db"); cfg.Output.DB != want {
		t.Errorf("DB = %s, want %s", cfg.Output.DB, want)
	}
	if cfg.Output.MetadataDir != "/custom/meta" {
		t.Errorf("MetadataDir = %s, want /custom/meta", cfg.Output.MetadataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %s, want debug", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	f, err := cfg.BuildFormat()
	if err != nil {
		t.Fatalf("BuildFormat failed: %v", err)
	}
	want := format.Format{Lang: format.LangJSON, FoldLevel: 3, Indent: "\t"}
	if *f != want {
		t.Errorf("BuildFormat() = %+v, want %+v", *f, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) error = nil, want error")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("format: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("LoadConfig(bad) error = %v, want parse failure", err)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("HOME"), ".aushape")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("format:\n  lang: json\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Format.Lang != "json" {
		t.Errorf("Lang = %s, want json", cfg.Format.Lang)
	}
	if cfg.Format.Fold != "2" {
		t.Errorf("Fold = %s, want default 2", cfg.Format.Fold)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("AUSHAPE_FORMAT_LANG", "json")
	t.Setenv("AUSHAPE_FORMAT_FOLD", "none")
	t.Setenv("AUSHAPE_FORMAT_EVENTS_PER_DOC", "false")
	t.Setenv("AUSHAPE_OUTPUT_DB", "/env/events.db")
	t.Setenv("AUSHAPE_OUTPUT_METADATA_DIR", "$HOME/meta")
	t.Setenv("AUSHAPE_LOG_LEVEL", "warn")
	t.Setenv("AUSHAPE_TIMEZONE", "UTC")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Format.Lang != "json" {
		t.Errorf("Lang = %s, want json", cfg.Format.Lang)
	}
	if cfg.Format.Fold != "none" {
		t.Errorf("Fold = %s, want none", cfg.Format.Fold)
	}
	if cfg.Format.EventsPerDoc {
		t.Error("EventsPerDoc = true, want false")
	}
	if cfg.Format.Indent != "  " {
		t.Errorf("Indent = %q, want default", cfg.Format.Indent)
	}
	if cfg.Output.DB != "/env/events.db" {
		t.Errorf("DB = %s, want /env/events.db", cfg.Output.DB)
	}
	if want := filepath.Join(os.Getenv("HOME"), "meta"); cfg.Output.MetadataDir != want {
		t.Errorf("MetadataDir = %s, want %s", cfg.Output.MetadataDir, want)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %s, want UTC", cfg.Timezone)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("format:\n  lang: json\n  fold: 1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("AUSHAPE_FORMAT_FOLD", "4")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Format.Lang != "json" {
		t.Errorf("Lang = %s, want json from file", cfg.Format.Lang)
	}
	if cfg.Format.Fold != "4" {
		t.Errorf("Fold = %s, want 4 from environment", cfg.Format.Fold)
	}
}

func TestEnvironmentOverridesInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("AUSHAPE_FORMAT_EVENTS_PER_DOC", "maybe")

	if _, err := LoadConfig(""); err == nil {
		t.Error("LoadConfig error = nil, want environment parse failure")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "unknown language",
			modify:  func(c *Config) { c.Format.Lang = "yaml" },
			wantErr: "unknown output language",
		},
		{
			name:    "negative fold",
			modify:  func(c *Config) { c.Format.Fold = "-1" },
			wantErr: "fold level",
		},
		{
			name:    "bad indent",
			modify:  func(c *Config) { c.Format.Indent = "--" },
			wantErr: "indent",
		},
		{
			name:    "unknown time zone",
			modify:  func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr: "unknown time zone",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "unknown log level",
		},
		{
			name:    "database with shared document",
			modify:  func(c *Config) { c.Output.DB = "/tmp/events.db" },
			wantErr: "one document per event",
		},
		{
			name: "database with one document per event",
			modify: func(c *Config) {
				c.Output.DB = "/tmp/events.db"
				c.Format.EventsPerDoc = false
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
			}
			if !aerrors.IsInvalidArguments(err) {
				t.Errorf("Validate() error code = %q, want %s", aerrors.Code(err), aerrors.CodeInvalidArguments)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		tz   string
		want *time.Location
	}{
		{"", time.Local},
		{"Local", time.Local},
		{"UTC", time.UTC},
	}
	for _, tt := range tests {
		cfg := &Config{Timezone: tt.tz}
		got, err := cfg.Location()
		if err != nil {
			t.Errorf("Location(%q) error = %v", tt.tz, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Location(%q) = %v, want %v", tt.tz, got, tt.want)
		}
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		cfg := &Config{Log: LogConfig{Level: tt.level}}
		got, err := cfg.LogLevel()
		if err != nil {
			t.Errorf("LogLevel(%q) error = %v", tt.level, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
