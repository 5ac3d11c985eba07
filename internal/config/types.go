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

// Package config types define the configuration structures used throughout
// aushape. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for aushape. Every field can
// be overridden by an AUSHAPE_ prefixed environment variable, named after
// its section and key, e.g. AUSHAPE_FORMAT_LANG.
type Config struct {
	Format   FormatConfig `yaml:"format" envPrefix:"FORMAT_"`
	Output   OutputConfig `yaml:"output" envPrefix:"OUTPUT_"`
	Log      LogConfig    `yaml:"log" envPrefix:"LOG_"`
	Timezone string       `yaml:"timezone" env:"TIMEZONE"`
}

// FormatConfig controls the layout of the converted document.
type FormatConfig struct {
	// Lang is the output language, "xml" or "json".
	Lang string `yaml:"lang" env:"LANG"`
	// Fold is the nesting depth from which output goes on one line: a
	// number, "all" or "none".
	Fold string `yaml:"fold" env:"FOLD"`
	// EventsPerDoc wraps all events in one document. When false every event
	// is a document of its own, each followed by a newline.
	EventsPerDoc bool `yaml:"events_per_doc" env:"EVENTS_PER_DOC"`
	// Indent is the indentation unit.
	Indent string `yaml:"indent" env:"INDENT"`
}

// OutputConfig selects where converted documents go.
type OutputConfig struct {
	// Path is the output file; empty or "-" writes to stdout.
	Path string `yaml:"path" env:"PATH"`
	// DB is an SQLite database receiving one row per event.
	DB string `yaml:"db" env:"DB"`
	// MetadataDir receives a summary of every run when set.
	MetadataDir string `yaml:"metadata_dir" env:"METADATA_DIR"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// DefaultConfig returns a Config producing an indented XML document with
// one event per line.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Lang:         "xml",
			Fold:         "2",
			EventsPerDoc: true,
			Indent:       "  ",
		},
		Log: LogConfig{
			Level: "info",
		},
		Timezone: "Local",
	}
}
