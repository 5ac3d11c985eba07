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

package format

import (
	"testing"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

func TestParseLang(t *testing.T) {
	tests := []struct {
		input   string
		want    Lang
		wantErr bool
	}{
		{"xml", LangXML, false},
		{"XML", LangXML, false},
		{" json ", LangJSON, false},
		{"yaml", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLang(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLang(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !aerrors.IsInvalidArguments(err) {
			t.Errorf("ParseLang(%q) error kind = %q, want invalid arguments", tt.input, aerrors.Code(err))
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLang(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFoldLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{"all", 0, false},
		{"None", FoldNone, false},
		{"-1", 0, true},
		{"deep", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFoldLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFoldLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFoldLevel(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		format  *Format
		wantErr bool
	}{
		{"default", Default(), false},
		{"json unfolded", &Format{Lang: LangJSON, FoldLevel: FoldNone, Indent: "\t"}, false},
		{"nil", nil, true},
		{"unknown language", &Format{Lang: Lang(7)}, true},
		{"negative fold level", &Format{Lang: LangXML, FoldLevel: -2}, true},
		{"non-blank indent", &Format{Lang: LangXML, Indent: "--"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !aerrors.IsInvalidArguments(err) {
				t.Errorf("Validate() error kind = %q, want invalid arguments", aerrors.Code(err))
			}
		})
	}
}

func TestBaseLevel(t *testing.T) {
	if got := (&Format{EventsPerDoc: true}).BaseLevel(); got != 1 {
		t.Errorf("BaseLevel() with shared document = %d, want 1", got)
	}
	if got := (&Format{}).BaseLevel(); got != 0 {
		t.Errorf("BaseLevel() with separate documents = %d, want 0", got)
	}
}
