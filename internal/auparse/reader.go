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

package auparse

import (
	"bufio"
	"io"
	"strings"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

// MaxLineSize bounds the length of a log line. The kernel caps records
// well below it.
const MaxLineSize = 1 << 20

// Reader groups the records of an audit log into events.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	records int
	pending *Event
}

// NewReader returns a reader consuming r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{scanner: scanner}
}

// Line returns the number of lines read so far.
func (r *Reader) Line() int {
	return r.line
}

// Records returns the number of records read so far, EOE excluded.
func (r *Reader) Records() int {
	return r.records
}

// Next returns the next event. It returns io.EOF once the log is
// exhausted. A line that cannot be parsed fails with a source read error
// naming the line.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := parseLine(text)
		if err != nil {
			return nil, aerrors.SourceReadFailed(err, "malformed audit record", "line", r.line)
		}

		var done *Event
		if r.pending != nil && r.pending.stamp != rec.stamp {
			done, r.pending = r.pending, nil
		}

		if rec.typeName == "EOE" {
			if done == nil && r.pending != nil {
				done, r.pending = r.pending, nil
			}
		} else {
			if r.pending == nil {
				r.pending = &Event{stamp: rec.stamp}
			}
			r.pending.records = append(r.pending.records, rec)
			r.records++
		}

		if done != nil {
			return done, nil
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, aerrors.SourceReadFailed(err, "failed to read audit log", "line", r.line+1)
	}
	if r.pending != nil {
		done := r.pending
		r.pending = nil
		return done, nil
	}
	return nil, io.EOF
}
