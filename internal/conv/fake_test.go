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

package conv

import (
	"errors"
	"strings"
)

// In-memory record source used by the tests.

type fakeField struct {
	name   string
	raw    string
	interp string
	err    error
}

func (f fakeField) Name() (string, error)        { return f.name, nil }
func (f fakeField) Raw() (string, error)         { return f.raw, f.err }
func (f fakeField) Interpreted() (string, error) { return f.interp, f.err }

type fakeRecord struct {
	typeName string
	text     string
	fields   []Field
	err      error
}

func (r fakeRecord) TypeName() (string, error) { return r.typeName, r.err }
func (r fakeRecord) Text() (string, error)     { return r.text, nil }
func (r fakeRecord) Fields() ([]Field, error)  { return r.fields, nil }

type fakeEvent struct {
	stamp    Stamp
	records  []Record
	stampErr error
}

func (e fakeEvent) Stamp() (Stamp, error)      { return e.stamp, e.stampErr }
func (e fakeEvent) Records() ([]Record, error) { return e.records, nil }

var errFakeSource = errors.New("source exhausted")

// fld returns a field whose raw and interpreted values differ.
func fld(name, raw, interp string) Field {
	return fakeField{name: name, raw: raw, interp: interp}
}

// rec builds a record from name=value pairs whose raw and interpreted
// values are equal. The record text is the pairs joined by spaces.
func rec(typeName string, pairs ...string) fakeRecord {
	fields := []Field{fakeField{name: "type", raw: typeName, interp: typeName}}
	for _, p := range pairs {
		name, value, _ := strings.Cut(p, "=")
		fields = append(fields, fakeField{name: name, raw: value, interp: value})
	}
	return fakeRecord{
		typeName: typeName,
		text:     strings.Join(pairs, " "),
		fields:   fields,
	}
}

// recf builds a record from explicit fields with the given text.
func recf(typeName, text string, fields ...Field) fakeRecord {
	return fakeRecord{
		typeName: typeName,
		text:     text,
		fields:   append([]Field{fakeField{name: "type", raw: typeName, interp: typeName}}, fields...),
	}
}

func event(serial uint64, records ...Record) fakeEvent {
	return fakeEvent{stamp: Stamp{Serial: serial}, records: records}
}
