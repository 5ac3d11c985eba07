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

// Package buffer implements the append-only output buffer every piece of
// converted markup passes through. It is the single place where text is
// escaped for the output language and where indentation and line folding
// are placed, so byte content is identical whatever the fold level.
//
// A Buffer is not safe for concurrent use.
package buffer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// Buffer is a growable text buffer. Everything appended is copied.
type Buffer struct {
	buf bytes.Buffer
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Len returns the number of bytes appended so far.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Bytes returns the buffer contents. The slice is only valid until the next
// modification of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// String returns a copy of the buffer contents.
func (b *Buffer) String() string {
	return b.buf.String()
}

// Empty discards the contents but keeps the allocated storage.
func (b *Buffer) Empty() {
	b.buf.Reset()
}

// Truncate discards all but the first n bytes.
func (b *Buffer) Truncate(n int) {
	b.buf.Truncate(n)
}

// AddByte appends a single byte.
func (b *Buffer) AddByte(c byte) {
	b.buf.WriteByte(c)
}

// AddString appends s verbatim.
func (b *Buffer) AddString(s string) {
	b.buf.WriteString(s)
}

// AddBuf appends the contents of another buffer verbatim.
func (b *Buffer) AddBuf(o *Buffer) {
	b.buf.Write(o.buf.Bytes())
}

// Addf appends formatted text verbatim.
func (b *Buffer) Addf(layout string, args ...interface{}) {
	fmt.Fprintf(&b.buf, layout, args...)
}

// AddEscaped appends s escaped for the given output language.
func (b *Buffer) AddEscaped(lang format.Lang, s string) {
	switch lang {
	case format.LangXML:
		escapeXML(&b.buf, s)
	case format.LangJSON:
		escapeJSON(&b.buf, s)
	}
}

// AddEscapedBuf appends the contents of another buffer escaped for the
// given output language.
func (b *Buffer) AddEscapedBuf(lang format.Lang, o *Buffer) {
	b.AddEscaped(lang, o.buf.String())
}

// SpaceOpening places the whitespace preceding a construct opened at the
// given nesting level: a line break and one indent per level when the level
// is not folded, nothing otherwise. Level 0 starts a document and never
// gets a line break.
func (b *Buffer) SpaceOpening(f *format.Format, level int) {
	if level >= f.FoldLevel {
		return
	}
	if level > 0 {
		b.buf.WriteByte('\n')
	}
	b.indent(f, level)
}

// SpaceClosing places the whitespace preceding the end of a construct
// opened at the given nesting level. The end goes on its own line only if
// the construct's content, one level deeper, was not folded.
func (b *Buffer) SpaceClosing(f *format.Format, level int) {
	if level+1 >= f.FoldLevel {
		return
	}
	b.buf.WriteByte('\n')
	b.indent(f, level)
}

func (b *Buffer) indent(f *format.Format, level int) {
	if f.Indent != "" && level > 0 {
		b.buf.WriteString(strings.Repeat(f.Indent, level))
	}
}
