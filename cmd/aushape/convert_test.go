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

package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-aushape/internal/config"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error",
			err:      nil,
			wantCode: 0,
		},
		{
			name:     "general error",
			err:      os.ErrClosed,
			wantCode: 1,
		},
		{
			name:     "out of memory",
			err:      aerrors.OutOfMemory(errors.New("too large"), "output buffer growth failed"),
			wantCode: 1,
		},
		{
			name:     "invalid arguments",
			err:      aerrors.InvalidArguments("unknown output language"),
			wantCode: 2,
		},
		{
			name:     "invalid configuration",
			err:      aerrors.InvalidConfig(errors.New("bad yaml")),
			wantCode: 2,
		},
		{
			name:     "source read failed",
			err:      aerrors.SourceReadFailed(nil, "malformed record"),
			wantCode: 3,
		},
		{
			name:     "invalid sequence",
			err:      aerrors.InvalidSequence("argc repeated"),
			wantCode: 4,
		},
		{
			name:     "wrapped invalid sequence",
			err:      fmt.Errorf("1 of 2 events failed to convert, first: %w", aerrors.InvalidSequence("argc repeated")),
			wantCode: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToExitCode(tt.err)
			if got != tt.wantCode {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.wantCode)
			}
		})
	}
}

func TestIndentUnit(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{2, "  "},
		{4, "    "},
		{-1, "-1"},
	}

	for _, tt := range tests {
		if got := indentUnit(tt.n); got != tt.want {
			t.Errorf("indentUnit(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keep configuration",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Format.Lang != "json" {
					t.Errorf("Lang = %s, want json from config", cfg.Format.Lang)
				}
				if cfg.Timezone != "Europe/Helsinki" {
					t.Errorf("Timezone = %s, want Europe/Helsinki from config", cfg.Timezone)
				}
			},
		},
		{
			name: "format flags",
			args: []string{"--lang", "xml", "--fold", "none", "--indent", "4", "--events-per-doc=false"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Format.Lang != "xml" || cfg.Format.Fold != "none" ||
					cfg.Format.Indent != "    " || cfg.Format.EventsPerDoc {
					t.Errorf("Unexpected format: %+v", cfg.Format)
				}
			},
		},
		{
			name: "output flags",
			args: []string{"--output", "out.xml", "--db", "events.db", "--metadata-dir", "meta",
				"--timezone", "UTC", "--log-level", "debug"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Output.Path != "out.xml" || cfg.Output.DB != "events.db" || cfg.Output.MetadataDir != "meta" {
					t.Errorf("Unexpected output: %+v", cfg.Output)
				}
				if cfg.Timezone != "UTC" || cfg.Log.Level != "debug" {
					t.Errorf("Timezone = %s, Level = %s", cfg.Timezone, cfg.Log.Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts convertOptions
			flags := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			bindFlags(flags, &opts)
			if err := flags.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			cfg := config.DefaultConfig()
			cfg.Format.Lang = "json"
			cfg.Timezone = "Europe/Helsinki"
			applyFlags(flags, &opts, cfg)
			tt.check(t, cfg)
		})
	}
}
