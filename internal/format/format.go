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

// Package format describes how converted audit events are laid out: the
// output language, the nesting depth from which markup folds onto a single
// line, whether events share one document, and the indentation unit.
package format

import (
	"math"
	"strconv"
	"strings"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

// Lang is an output language.
type Lang int

const (
	// LangXML selects XML output.
	LangXML Lang = iota
	// LangJSON selects JSON output.
	LangJSON
)

// FoldNone is a fold level deep enough that nothing is ever folded.
const FoldNone = math.MaxInt32

func (l Lang) String() string {
	switch l {
	case LangXML:
		return "xml"
	case LangJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Valid reports whether l is a known language.
func (l Lang) Valid() bool {
	return l == LangXML || l == LangJSON
}

// ParseLang parses a language name, ignoring case.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return LangXML, nil
	case "json":
		return LangJSON, nil
	}
	return 0, aerrors.InvalidArguments("unknown output language", "lang", s)
}

// ParseFoldLevel parses a fold level: a non-negative integer, "all" to fold
// everything onto one line, or "none" to never fold.
func ParseFoldLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return 0, nil
	case "none":
		return FoldNone, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, aerrors.InvalidArguments("fold level must be a non-negative integer, \"all\" or \"none\"", "fold", s)
	}
	return n, nil
}

// Format is the output layout configuration. It is immutable for the
// duration of a conversion run and shared by pointer.
type Format struct {
	// Lang is the output language.
	Lang Lang
	// FoldLevel is the nesting depth at and below which constructs are
	// placed on one line without indentation.
	FoldLevel int
	// EventsPerDoc is true when all events share one document, wrapped in
	// the document prologue and epilogue.
	EventsPerDoc bool
	// Indent is the indentation unit repeated once per nesting level.
	Indent string
}

// Default returns the default format: XML, one event per line inside a
// shared document, indented by two spaces.
func Default() *Format {
	return &Format{
		Lang:         LangXML,
		FoldLevel:    2,
		EventsPerDoc: true,
		Indent:       "  ",
	}
}

// Validate checks the format for consistency.
func (f *Format) Validate() error {
	if f == nil {
		return aerrors.InvalidArguments("format is nil")
	}
	if !f.Lang.Valid() {
		return aerrors.InvalidArguments("unknown output language", "lang", int(f.Lang))
	}
	if f.FoldLevel < 0 {
		return aerrors.InvalidArguments("fold level must not be negative", "fold_level", f.FoldLevel)
	}
	if strings.Trim(f.Indent, " \t") != "" {
		return aerrors.InvalidArguments("indent may only contain spaces and tabs", "indent", f.Indent)
	}
	return nil
}

// BaseLevel is the nesting level events are emitted at: 1 when they are
// wrapped in a shared document, 0 when each event is a document of its own.
func (f *Format) BaseLevel() int {
	if f.EventsPerDoc {
		return 1
	}
	return 0
}
