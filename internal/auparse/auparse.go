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

// Package auparse reads raw Linux audit logs, as written by auditd, and
// groups their records into events for conversion.
//
// Each line holds one record:
//
//	[node=HOST ]type=TYPE msg=audit(SECONDS.MILLIS:SERIAL): name=value ...
//
// Consecutive records sharing a timestamp, serial and node form one event.
// An EOE record closes the event it belongs to and is not reported.
package auparse

import (
	"github.com/sirseerhq/sirseer-aushape/internal/conv"
)

// Field is one name/value pair of a record.
type Field struct {
	name   string
	raw    string
	interp string
}

// Name returns the field name.
func (f *Field) Name() (string, error) { return f.name, nil }

// Raw returns the value as written in the log, quotes included.
func (f *Field) Raw() (string, error) { return f.raw, nil }

// Interpreted returns the value with quotes removed and hex decoded.
func (f *Field) Interpreted() (string, error) { return f.interp, nil }

// Record is one parsed log line.
type Record struct {
	typeName string
	text     string
	stamp    conv.Stamp
	fields   []conv.Field
}

// TypeName returns the record type, such as "SYSCALL".
func (r *Record) TypeName() (string, error) { return r.typeName, nil }

// Text returns the log line the record was parsed from.
func (r *Record) Text() (string, error) { return r.text, nil }

// Fields returns the fields in log order, starting with node, if present,
// and type.
func (r *Record) Fields() ([]conv.Field, error) { return r.fields, nil }

// Event is a group of records sharing one stamp.
type Event struct {
	stamp   conv.Stamp
	records []conv.Record
}

// Stamp returns the event time, serial and node.
func (e *Event) Stamp() (conv.Stamp, error) { return e.stamp, nil }

// Records returns the event records in log order.
func (e *Event) Records() ([]conv.Record, error) { return e.records, nil }

// Len returns the number of records in the event.
func (e *Event) Len() int { return len(e.records) }
