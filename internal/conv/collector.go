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
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

// Collector accumulates the records routed to it during one event and
// renders them when the event ends.
//
// Add and End receive the nesting level the collector's output goes at.
// first points at the flag telling whether nothing has been emitted yet in
// the enclosing container; collectors clear it once they emit something, so
// JSON siblings get their separating commas.
type Collector interface {
	// Valid reports whether the internal state is consistent.
	Valid() bool
	// IsEmpty reports whether nothing was accumulated since the last reset.
	IsEmpty() bool
	// Reset discards accumulated state, keeping the instance for reuse.
	Reset()
	// Add consumes one record.
	Add(level int, first *bool, rec Record) error
	// End emits the accumulated output and resets the collector.
	End(level int, first *bool) error
}

func recordTypeName(rec Record) (string, error) {
	name, err := rec.TypeName()
	if err != nil {
		return "", aerrors.SourceReadFailed(err, "failed to get record type name")
	}
	return name, nil
}

func recordText(rec Record) (string, error) {
	text, err := rec.Text()
	if err != nil {
		return "", aerrors.SourceReadFailed(err, "failed to get record text")
	}
	return text, nil
}

func recordFields(rec Record) ([]Field, error) {
	fields, err := rec.Fields()
	if err != nil {
		return nil, aerrors.SourceReadFailed(err, "failed to get record fields")
	}
	return fields, nil
}

func fieldName(f Field) (string, error) {
	name, err := f.Name()
	if err != nil {
		return "", aerrors.SourceReadFailed(err, "failed to get field name")
	}
	return name, nil
}

func fieldRaw(f Field, name string) (string, error) {
	raw, err := f.Raw()
	if err != nil {
		return "", aerrors.SourceReadFailed(err, "failed to get raw field value", "field", name)
	}
	return raw, nil
}

func fieldInterpreted(f Field, name string) (string, error) {
	str, err := f.Interpreted()
	if err != nil {
		return "", aerrors.SourceReadFailed(err, "failed to interpret field value", "field", name)
	}
	return str, nil
}

// withRecord attaches the offending record text to err.
func withRecord(err error, text string) error {
	return aerrors.WithContext(err, "record", text)
}
