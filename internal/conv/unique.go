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
	"bytes"

	"github.com/sirseerhq/sirseer-aushape/internal/buffer"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// UniqueArgs configures a unique collector.
type UniqueArgs struct {
	// Unique drops a record rendering identically to the one accumulated
	// just before it.
	Unique bool
}

// UniqueCollector renders records of a single type, one element or object
// per record, with fields as attributes or members holding their
// interpreted values.
type UniqueCollector struct {
	format *format.Format
	out    *buffer.Buffer
	name   string
	unique bool

	items *buffer.Buffer
	cur   *buffer.Buffer
	last  *buffer.Buffer
	count int
}

// NewUniqueCollector returns a collector for records of the named type.
// The name must be a valid markup name.
func NewUniqueCollector(f *format.Format, out *buffer.Buffer, name string, args UniqueArgs) (*UniqueCollector, error) {
	if !validName(name) {
		return nil, aerrors.InvalidArguments("invalid record type name", "type", name)
	}
	return &UniqueCollector{
		format: f,
		out:    out,
		name:   name,
		unique: args.Unique,
		items:  buffer.New(),
		cur:    buffer.New(),
		last:   buffer.New(),
	}, nil
}

// Name returns the element name records are rendered under.
func (c *UniqueCollector) Name() string {
	return c.name
}

// Valid reports whether the collector state is consistent.
func (c *UniqueCollector) Valid() bool {
	return c.count >= 0 && (c.count > 0 || c.items.Len() == 0)
}

// IsEmpty reports whether no record was accumulated since the last reset.
func (c *UniqueCollector) IsEmpty() bool {
	return c.count == 0
}

// Reset discards the accumulated records.
func (c *UniqueCollector) Reset() {
	c.items.Empty()
	c.cur.Empty()
	c.last.Empty()
	c.count = 0
}

// Add consumes one record.
func (c *UniqueCollector) Add(level int, first *bool, rec Record) error {
	text, err := recordText(rec)
	if err != nil {
		return err
	}
	fields, err := recordFields(rec)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return aerrors.InvalidSequence("record has no fields", "type", c.name, "record", text)
	}

	c.cur.Empty()
	if err := c.render(level, text, fields); err != nil {
		return withRecord(err, text)
	}
	if c.unique && c.count > 0 && bytes.Equal(c.cur.Bytes(), c.last.Bytes()) {
		return nil
	}

	switch c.format.Lang {
	case format.LangXML:
		c.items.SpaceOpening(c.format, level)
	case format.LangJSON:
		if c.count > 0 {
			c.items.AddByte(',')
		}
		c.items.SpaceOpening(c.format, level+1)
	}
	c.items.AddBuf(c.cur)
	c.cur, c.last = c.last, c.cur
	c.count++
	return nil
}

// render writes one record without its leading space into cur.
func (c *UniqueCollector) render(level int, text string, fields []Field) error {
	f, b := c.format, c.cur
	seen := make(map[string]struct{}, len(fields))

	switch f.Lang {
	case format.LangXML:
		b.AddString("<" + c.name + ` raw="`)
		b.AddEscaped(f.Lang, text)
		b.AddByte('"')
	case format.LangJSON:
		b.AddByte('{')
		b.SpaceOpening(f, level+2)
		b.AddString(`"raw":"`)
		b.AddEscaped(f.Lang, text)
		b.AddByte('"')
	}

	for _, field := range fields {
		name, err := fieldName(field)
		if err != nil {
			return err
		}
		if name == "type" || name == "node" {
			continue
		}
		if name == "raw" {
			return aerrors.InvalidSequence("reserved field name", "field", name)
		}
		if !validName(name) {
			return aerrors.InvalidSequence("invalid field name", "field", name)
		}
		if _, dup := seen[name]; dup {
			return aerrors.InvalidSequence("repeated field", "field", name)
		}
		seen[name] = struct{}{}

		str, err := fieldInterpreted(field, name)
		if err != nil {
			return err
		}
		switch f.Lang {
		case format.LangXML:
			b.AddString(" " + name + `="`)
			b.AddEscaped(f.Lang, str)
			b.AddByte('"')
		case format.LangJSON:
			b.AddByte(',')
			b.SpaceOpening(f, level+2)
			b.AddString(`"` + name + `":"`)
			b.AddEscaped(f.Lang, str)
			b.AddByte('"')
		}
	}

	switch f.Lang {
	case format.LangXML:
		b.AddString("/>")
	case format.LangJSON:
		b.SpaceClosing(f, level+1)
		b.AddByte('}')
	}
	return nil
}

// End writes the accumulated records at level and resets the collector.
func (c *UniqueCollector) End(level int, first *bool) error {
	defer c.Reset()

	f, out := c.format, c.out
	switch f.Lang {
	case format.LangXML:
		out.AddBuf(c.items)
	case format.LangJSON:
		if !*first {
			out.AddByte(',')
		}
		out.SpaceOpening(f, level)
		out.AddString(`"` + c.name + `":[`)
		out.AddBuf(c.items)
		out.SpaceClosing(f, level)
		out.AddByte(']')
	}
	*first = false
	return nil
}

// validName reports whether s can be used as an XML element or attribute
// name and a plain JSON member name.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
