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
	"time"

	"github.com/sirseerhq/sirseer-aushape/internal/buffer"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// TimeLayout is the event timestamp layout: milliseconds and a colon
// separated UTC offset.
const TimeLayout = "2006-01-02T15:04:05.000-07:00"

// Option configures a Converter.
type Option func(*Converter)

// WithLocation sets the time zone event timestamps are rendered in.
// The default is the local time zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Converter) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithDispatchTable replaces the default record routing table.
func WithDispatchTable(table []DispatchLink) Option {
	return func(c *Converter) {
		c.table = table
	}
}

// Converter renders audit events into a document held in memory. The
// caller frames the document with AddPrologue and AddEpilogue and drains
// the buffer between events as it sees fit.
type Converter struct {
	format   format.Format
	loc      *time.Location
	table    []DispatchLink
	buf      *buffer.Buffer
	dispatch *DispatchCollector
}

// NewConverter returns a converter for the given format.
func NewConverter(f *format.Format, opts ...Option) (*Converter, error) {
	if f == nil {
		return nil, aerrors.InvalidArguments("format is required")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c := &Converter{
		format: *f,
		loc:    time.Local,
		table:  DefaultDispatchTable(),
		buf:    buffer.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	dispatch, err := NewDispatchCollector(&c.format, c.buf, c.table)
	if err != nil {
		return nil, err
	}
	c.dispatch = dispatch
	return c, nil
}

// Format returns the output format.
func (c *Converter) Format() format.Format {
	return c.format
}

// Len returns the number of buffered bytes.
func (c *Converter) Len() int {
	return c.buf.Len()
}

// Bytes returns the buffered document text. The slice is only valid until
// the next call modifying the converter.
func (c *Converter) Bytes() []byte {
	return c.buf.Bytes()
}

// Empty discards the buffered text.
func (c *Converter) Empty() {
	c.buf.Empty()
}

// Reset discards the buffered text and any collector state.
func (c *Converter) Reset() {
	c.buf.Empty()
	c.dispatch.Reset()
}

// AddPrologue appends the document opening.
func (c *Converter) AddPrologue() (err error) {
	defer recoverTooLarge(&err)

	f, b := &c.format, c.buf
	switch f.Lang {
	case format.LangXML:
		b.SpaceOpening(f, 0)
		b.AddString(`<?xml version="1.0" encoding="UTF-8"?>`)
		if f.FoldLevel > 0 {
			b.AddByte('\n')
		}
		b.SpaceOpening(f, 0)
		b.AddString("<log>")
	case format.LangJSON:
		b.SpaceOpening(f, 0)
		b.AddByte('[')
	}
	return nil
}

// AddEpilogue appends the document closing.
func (c *Converter) AddEpilogue() (err error) {
	defer recoverTooLarge(&err)

	f, b := &c.format, c.buf
	b.SpaceClosing(f, 0)
	switch f.Lang {
	case format.LangXML:
		b.AddString("</log>")
	case format.LangJSON:
		b.AddByte(']')
	}
	return nil
}

// AddEvent appends one event. first tells whether it is the first event of
// the document. On error nothing of the event is left in the buffer.
func (c *Converter) AddEvent(first bool, ev Event) (err error) {
	if ev == nil {
		return aerrors.InvalidArguments("event is required")
	}

	mark := c.buf.Len()
	defer func() {
		if err != nil {
			c.buf.Truncate(mark)
			c.dispatch.Reset()
		}
	}()
	defer recoverTooLarge(&err)

	stamp, err := ev.Stamp()
	if err != nil {
		return aerrors.SourceReadFailed(err, "failed to get event timestamp")
	}
	records, err := ev.Records()
	if err != nil {
		return aerrors.SourceReadFailed(err, "failed to get event records", "serial", stamp.Serial)
	}
	if len(records) == 0 {
		return aerrors.SourceReadFailed(nil, "event has no records", "serial", stamp.Serial)
	}

	level := c.format.BaseLevel()
	c.addHeader(level, first, stamp)

	recLevel := level + 1
	if c.format.Lang == format.LangJSON {
		recLevel = level + 2
	}
	firstRecord := true
	for _, rec := range records {
		if err := c.dispatch.Add(recLevel, &firstRecord, rec); err != nil {
			return aerrors.WithContext(err, "serial", stamp.Serial)
		}
	}
	if err := c.dispatch.End(recLevel, &firstRecord); err != nil {
		return aerrors.WithContext(err, "serial", stamp.Serial)
	}

	c.addFooter(level, firstRecord)
	return nil
}

// FormatTime renders an event time in loc.
func FormatTime(sec int64, milli uint, loc *time.Location) string {
	return time.Unix(sec, int64(milli)*int64(time.Millisecond)).In(loc).Format(TimeLayout)
}

func (c *Converter) addHeader(level int, first bool, stamp Stamp) {
	f, b := &c.format, c.buf
	ts := FormatTime(stamp.Sec, stamp.Milli, c.loc)

	switch f.Lang {
	case format.LangXML:
		b.SpaceOpening(f, level)
		b.Addf(`<event serial="%d" time="`, stamp.Serial)
		b.AddEscaped(f.Lang, ts)
		b.AddByte('"')
		if stamp.Host != "" {
			b.AddString(` host="`)
			b.AddEscaped(f.Lang, stamp.Host)
			b.AddByte('"')
		}
		b.AddByte('>')
	case format.LangJSON:
		if !first {
			b.AddByte(',')
		}
		b.SpaceOpening(f, level)
		b.AddByte('{')
		b.SpaceOpening(f, level+1)
		b.Addf(`"serial":%d,`, stamp.Serial)
		b.SpaceOpening(f, level+1)
		b.AddString(`"time":"`)
		b.AddEscaped(f.Lang, ts)
		b.AddString(`",`)
		if stamp.Host != "" {
			b.SpaceOpening(f, level+1)
			b.AddString(`"host":"`)
			b.AddEscaped(f.Lang, stamp.Host)
			b.AddString(`",`)
		}
		b.SpaceOpening(f, level+1)
		b.AddString(`"records":{`)
	}
}

func (c *Converter) addFooter(level int, noRecords bool) {
	f, b := &c.format, c.buf
	switch f.Lang {
	case format.LangXML:
		b.SpaceClosing(f, level)
		b.AddString("</event>")
	case format.LangJSON:
		if !noRecords {
			b.SpaceClosing(f, level+1)
		}
		b.AddByte('}')
		b.SpaceClosing(f, level)
		b.AddByte('}')
	}
}

// recoverTooLarge turns a buffer growth panic into an out of memory error.
func recoverTooLarge(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && e == bytes.ErrTooLarge {
		*err = aerrors.OutOfMemory(e, "failed to grow output buffer")
		return
	}
	panic(r)
}
