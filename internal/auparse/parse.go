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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirseerhq/sirseer-aushape/internal/conv"
)

// separators delimit fields. Enriched logs put a group separator before
// the fields auditd appends.
const separators = " \x1d"

var (
	errNoType  = errors.New("missing record type")
	errNoStamp = errors.New("missing audit stamp")
)

// parseLine parses one log line into a record.
func parseLine(line string) (*Record, error) {
	rec := &Record{text: line}
	rest := trimSeparators(line)

	if v, ok := strings.CutPrefix(rest, "node="); ok {
		rec.stamp.Host, rest = splitToken(v)
		rec.fields = append(rec.fields, plainField("node", rec.stamp.Host))
	}

	v, ok := strings.CutPrefix(rest, "type=")
	if !ok {
		return nil, errNoType
	}
	rec.typeName, rest = splitToken(v)
	if rec.typeName == "" {
		return nil, errNoType
	}
	rec.fields = append(rec.fields, plainField("type", rec.typeName))

	v, ok = strings.CutPrefix(rest, "msg=audit(")
	if !ok {
		return nil, errNoStamp
	}
	end := strings.Index(v, "):")
	if end < 0 {
		return nil, errNoStamp
	}
	if err := parseStamp(v[:end], &rec.stamp); err != nil {
		return nil, err
	}

	fields, err := parseFields(rec.typeName, v[end+2:], rec.fields)
	if err != nil {
		return nil, err
	}
	rec.fields = fields
	return rec, nil
}

// parseStamp parses SECONDS.MILLIS:SERIAL.
func parseStamp(s string, stamp *conv.Stamp) error {
	secs, rest, ok := strings.Cut(s, ".")
	if !ok {
		return fmt.Errorf("invalid audit stamp %q", s)
	}
	millis, serial, ok := strings.Cut(rest, ":")
	if !ok {
		return fmt.Errorf("invalid audit stamp %q", s)
	}

	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid audit stamp seconds %q: %w", secs, err)
	}
	milli, err := strconv.ParseUint(millis, 10, 32)
	if err != nil || milli > 999 {
		return fmt.Errorf("invalid audit stamp milliseconds %q", millis)
	}
	num, err := strconv.ParseUint(serial, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid audit stamp serial %q: %w", serial, err)
	}

	stamp.Sec = sec
	stamp.Milli = uint(milli)
	stamp.Serial = num
	return nil
}

// parseFields appends the name=value pairs of s to fields. Tokens without
// a name are skipped. Single-quoted values holding pairs themselves, like
// the msg of user space records, are flattened into fields.
func parseFields(typeName, s string, fields []conv.Field) ([]conv.Field, error) {
	for {
		s = trimSeparators(s)
		if s == "" {
			return fields, nil
		}

		tok, _ := splitToken(s)
		eq := strings.IndexByte(tok, '=')
		if eq <= 0 {
			s = s[len(tok):]
			continue
		}
		name, v := s[:eq], s[eq+1:]

		switch {
		case strings.HasPrefix(v, `"`):
			end := strings.IndexByte(v[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted value of field %q", name)
			}
			raw := v[:end+2]
			fields = append(fields, &Field{name: name, raw: raw, interp: raw[1 : len(raw)-1]})
			s = v[end+2:]

		case strings.HasPrefix(v, "'"):
			end := strings.IndexByte(v[1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted value of field %q", name)
			}
			inner := v[1 : end+1]
			if strings.Contains(inner, "=") {
				var err error
				if fields, err = parseFields(typeName, inner, fields); err != nil {
					return nil, err
				}
			} else {
				fields = append(fields, &Field{name: name, raw: v[:end+2], interp: inner})
			}
			s = v[end+2:]

		default:
			var raw string
			raw, s = splitToken(v)
			fields = append(fields, &Field{name: name, raw: raw, interp: interpret(typeName, name, raw)})
		}
	}
}

func plainField(name, value string) *Field {
	return &Field{name: name, raw: value, interp: value}
}

// splitToken returns the text up to the next separator and the text after
// it.
func splitToken(s string) (tok, rest string) {
	i := strings.IndexAny(s, separators)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func trimSeparators(s string) string {
	return strings.TrimLeft(s, separators)
}
