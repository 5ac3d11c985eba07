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

// Package conv converts audit events into XML or JSON markup.
//
// An event's records are routed by type to collectors: the EXECVE
// collector reassembles argument lists the kernel split across fields and
// records, and unique collectors render every other record type, dropping
// immediate repeats where asked to. A dispatch collector owns the routing
// table and the lazily built set of children, and the Converter frames each
// event with its header and footer.
//
// All markup goes through one buffer.Buffer, which owns escaping and line
// folding. Nothing in this package is safe for concurrent use.
package conv

// Stamp identifies an event.
type Stamp struct {
	// Sec is the event time in seconds since the Unix epoch.
	Sec int64
	// Milli is the millisecond part of the event time.
	Milli uint
	// Serial is the event serial number.
	Serial uint64
	// Host is the originating node name, empty when not recorded.
	Host string
}

// Event is the read side of one audit event, as supplied by a record
// source. Errors returned by any method mean the source could not supply
// the value.
type Event interface {
	Stamp() (Stamp, error)
	Records() ([]Record, error)
}

// Record is one audit record of an event.
type Record interface {
	// TypeName returns the record type name, such as "EXECVE".
	TypeName() (string, error)
	// Text returns the verbatim source text of the record.
	Text() (string, error)
	// Fields returns the record fields in source order.
	Fields() ([]Field, error)
}

// Field is one named field of a record.
type Field interface {
	Name() (string, error)
	// Raw returns the value as it appears in the source.
	Raw() (string, error)
	// Interpreted returns the decoded, human-readable value.
	Interpreted() (string, error)
}
