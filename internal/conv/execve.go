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
	"strconv"
	"strings"

	"github.com/sirseerhq/sirseer-aushape/internal/buffer"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// maxArgc bounds the argument count. Missing arguments are rendered empty,
// so the count sets the output size. An 8 MiB stack holds fewer pointers.
const maxArgc = 1 << 20

// argField classifies an EXECVE field name.
type argField int

const (
	argFieldOther argField = iota
	argFieldWhole          // a<N>
	argFieldLen            // a<N>_len
	argFieldSlice          // a<N>[<K>]
)

// ExecveCollector reassembles the argument list of one process execution
// from the EXECVE records of an event. Long arguments arrive split into
// slices, each announced by a total length field; whole arguments and
// sliced ones may interleave, and the kernel omits empty ones.
type ExecveCollector struct {
	format *format.Format
	out    *buffer.Buffer

	// raw holds the newline-joined text of the records consumed so far.
	raw *buffer.Buffer
	// args holds the rendered argument markup.
	args *buffer.Buffer
	// records counts the records consumed so far.
	records int

	argNum   uint64 // expected number of arguments, 0 until argc is seen
	argIdx   uint64 // index of the next argument to finish
	gotLen   bool   // a sliced argument is in progress
	sliceIdx uint64 // next expected slice of the argument in progress
	lenTotal uint64 // declared length of the argument in progress
	lenRead  uint64 // decoded length of the slices read so far
}

// NewExecveCollector returns an EXECVE collector writing to out.
func NewExecveCollector(f *format.Format, out *buffer.Buffer) *ExecveCollector {
	return &ExecveCollector{
		format: f,
		out:    out,
		raw:    buffer.New(),
		args:   buffer.New(),
	}
}

// Valid reports whether the collector state is consistent.
func (c *ExecveCollector) Valid() bool {
	return c.argIdx <= c.argNum &&
		(c.gotLen || (c.sliceIdx == 0 && c.lenTotal == 0)) &&
		c.lenRead <= c.lenTotal
}

// IsEmpty reports whether no argument count was seen since the last reset.
func (c *ExecveCollector) IsEmpty() bool {
	return c.argNum == 0
}

// Reset discards the accumulated records.
func (c *ExecveCollector) Reset() {
	c.raw.Empty()
	c.args.Empty()
	c.records = 0
	c.argNum = 0
	c.argIdx = 0
	c.resetSlice()
}

func (c *ExecveCollector) resetSlice() {
	c.gotLen = false
	c.sliceIdx = 0
	c.lenTotal = 0
	c.lenRead = 0
}

// argsLevel returns the nesting level of the arguments for an execve
// construct opened at level.
func (c *ExecveCollector) argsLevel(level int) int {
	if c.format.Lang == format.LangJSON {
		return level + 2
	}
	return level + 1
}

// Add consumes one EXECVE record.
func (c *ExecveCollector) Add(level int, first *bool, rec Record) error {
	l := c.argsLevel(level)

	text, err := recordText(rec)
	if err != nil {
		return err
	}
	if c.records > 0 {
		c.raw.AddByte('\n')
	}
	c.raw.AddString(text)
	c.records++

	fields, err := recordFields(rec)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return aerrors.InvalidSequence("execve record has no fields", "record", text)
	}

	for _, f := range fields {
		name, err := fieldName(f)
		if err != nil {
			return err
		}
		if err := c.addField(l, name, f); err != nil {
			return withRecord(err, text)
		}
	}
	return nil
}

func (c *ExecveCollector) addField(l int, name string, f Field) error {
	switch name {
	case "type", "node":
		return nil
	case "argc":
		return c.addArgc(name, f)
	}

	kind, n, k := parseArgFieldName(name)
	switch kind {
	case argFieldWhole:
		return c.addArg(l, n, name, f)
	case argFieldLen:
		return c.addArgLen(l, n, name, f)
	case argFieldSlice:
		return c.addArgSlice(l, n, k, name, f)
	default:
		return aerrors.InvalidSequence("unexpected execve field", "field", name)
	}
}

func (c *ExecveCollector) addArgc(name string, f Field) error {
	if c.argNum != 0 {
		return aerrors.InvalidSequence("repeated argument count", "field", name)
	}
	str, err := fieldRaw(f, name)
	if err != nil {
		return err
	}
	num, ok := parseCount(str)
	if !ok {
		return aerrors.InvalidSequence("invalid argument count", "field", name, "value", str)
	}
	if num > maxArgc {
		return aerrors.InvalidSequence("argument count out of range", "field", name,
			"value", str, "max", maxArgc)
	}
	c.argNum = num
	return nil
}

func (c *ExecveCollector) addArg(l int, n uint64, name string, f Field) error {
	if n < c.argIdx || n >= c.argNum || c.gotLen {
		return aerrors.InvalidSequence("out of order argument", "field", name,
			"next", c.argIdx, "count", c.argNum)
	}
	c.fillTo(l, n)
	str, err := fieldInterpreted(f, name)
	if err != nil {
		return err
	}
	c.addArgStr(l, str)
	return nil
}

func (c *ExecveCollector) addArgLen(l int, n uint64, name string, f Field) error {
	if n < c.argIdx || n >= c.argNum || c.gotLen {
		return aerrors.InvalidSequence("out of order argument length", "field", name,
			"next", c.argIdx, "count", c.argNum)
	}
	c.fillTo(l, n)
	str, err := fieldRaw(f, name)
	if err != nil {
		return err
	}
	num, ok := parseCount(str)
	if !ok {
		return aerrors.InvalidSequence("invalid argument length", "field", name, "value", str)
	}
	c.gotLen = true
	c.lenTotal = num
	return nil
}

func (c *ExecveCollector) addArgSlice(l int, n, k uint64, name string, f Field) error {
	if n != c.argIdx || n >= c.argNum || !c.gotLen || k != c.sliceIdx {
		return aerrors.InvalidSequence("out of order argument slice", "field", name,
			"next", c.argIdx, "slice", c.sliceIdx)
	}

	raw, err := fieldRaw(f, name)
	if err != nil {
		return err
	}
	str, err := fieldInterpreted(f, name)
	if err != nil {
		return err
	}

	// Hex-encoded slices decode to half their raw length, quoted ones do
	// not shrink. The kernel length counts the hex digits.
	length := uint64(len(str))
	if len(str) == len(raw)/2 {
		length = uint64(len(raw))
	}
	if c.lenRead+length > c.lenTotal {
		return aerrors.InvalidSequence("argument slices exceed declared length",
			"field", name, "declared", c.lenTotal, "read", c.lenRead+length)
	}

	lang := c.format.Lang
	if k == 0 {
		c.openArg(l)
	}
	c.args.AddEscaped(lang, str)
	c.lenRead += length

	if c.lenRead == c.lenTotal {
		c.closeArg()
		c.resetSlice()
		c.argIdx++
	} else {
		c.sliceIdx++
	}
	return nil
}

// fillTo emits empty arguments up to, not including, index n.
func (c *ExecveCollector) fillTo(l int, n uint64) {
	for c.argIdx < n {
		c.addArgStr(l, "")
	}
}

func (c *ExecveCollector) addArgStr(l int, str string) {
	c.openArg(l)
	c.args.AddEscaped(c.format.Lang, str)
	c.closeArg()
	c.argIdx++
}

func (c *ExecveCollector) openArg(l int) {
	switch c.format.Lang {
	case format.LangXML:
		c.args.SpaceOpening(c.format, l)
		c.args.AddString(`<a i="`)
	case format.LangJSON:
		if c.argIdx > 0 {
			c.args.AddByte(',')
		}
		c.args.SpaceOpening(c.format, l)
		c.args.AddByte('"')
	}
}

func (c *ExecveCollector) closeArg() {
	switch c.format.Lang {
	case format.LangXML:
		c.args.AddString(`"/>`)
	case format.LangJSON:
		c.args.AddByte('"')
	}
}

// End writes the execve construct at level and resets the collector.
func (c *ExecveCollector) End(level int, first *bool) error {
	defer c.Reset()

	if c.gotLen {
		return aerrors.InvalidSequence("argument slices end short of declared length",
			"arg", c.argIdx, "declared", c.lenTotal, "read", c.lenRead)
	}

	f, out := c.format, c.out
	l := level
	switch f.Lang {
	case format.LangXML:
		out.SpaceOpening(f, l)
		out.AddString(`<execve raw="`)
		out.AddEscapedBuf(f.Lang, c.raw)
		out.AddString(`">`)
	case format.LangJSON:
		if !*first {
			out.AddByte(',')
		}
		out.SpaceOpening(f, l)
		out.AddString(`"execve":{`)
		l++
		out.SpaceOpening(f, l)
		out.AddString(`"raw":"`)
		out.AddEscapedBuf(f.Lang, c.raw)
		out.AddString(`",`)
		out.SpaceOpening(f, l)
		out.AddString(`"args":[`)
	}

	c.fillTo(l+1, c.argNum)
	out.AddBuf(c.args)

	switch f.Lang {
	case format.LangXML:
		out.SpaceClosing(f, l)
		out.AddString(`</execve>`)
	case format.LangJSON:
		if c.args.Len() > 0 {
			out.SpaceClosing(f, l)
		}
		out.AddByte(']')
		l--
		out.SpaceClosing(f, l)
		out.AddByte('}')
	}

	*first = false
	return nil
}

// parseArgFieldName recognizes a<N>, a<N>_len and a<N>[<K>].
func parseArgFieldName(name string) (kind argField, n, k uint64) {
	rest, ok := strings.CutPrefix(name, "a")
	if !ok {
		return argFieldOther, 0, 0
	}
	digits := leadingDigits(rest)
	if digits == 0 {
		return argFieldOther, 0, 0
	}
	n, err := strconv.ParseUint(rest[:digits], 10, 64)
	if err != nil {
		return argFieldOther, 0, 0
	}
	rest = rest[digits:]

	switch {
	case rest == "":
		return argFieldWhole, n, 0
	case rest == "_len":
		return argFieldLen, n, 0
	case strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]"):
		idx := rest[1 : len(rest)-1]
		if idx == "" || leadingDigits(idx) != len(idx) {
			return argFieldOther, 0, 0
		}
		k, err := strconv.ParseUint(idx, 10, 64)
		if err != nil {
			return argFieldOther, 0, 0
		}
		return argFieldSlice, n, k
	}
	return argFieldOther, 0, 0
}

func leadingDigits(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// parseCount parses a bare unsigned decimal integer spanning all of s.
func parseCount(s string) (uint64, bool) {
	if s == "" || leadingDigits(s) != len(s) {
		return 0, false
	}
	num, err := strconv.ParseUint(s, 10, 64)
	return num, err == nil
}
