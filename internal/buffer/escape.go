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

package buffer

import (
	"bytes"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// escapeXML writes s as XML text safe for both element content and
// double-quoted attribute values. Characters XML 1.0 cannot carry are
// replaced: C0 controls by their Control Pictures counterpart, and bytes
// that are not valid UTF-8 (or encode U+FFFE/U+FFFF) by a character
// reference to the byte value. Valid non-ASCII text is never escaped, so a
// byte reference in the 0x80-0xff range always stands for a raw byte.
func escapeXML(w *bytes.Buffer, s string) {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '&':
				w.WriteString("&amp;")
			case c == '<':
				w.WriteString("&lt;")
			case c == '>':
				w.WriteString("&gt;")
			case c == '"':
				w.WriteString("&quot;")
			case c == '\t':
				w.WriteString("&#9;")
			case c == '\n':
				w.WriteString("&#10;")
			case c == '\r':
				w.WriteString("&#13;")
			case c < 0x20:
				// U+2400 + c
				w.WriteString("&#x24")
				w.WriteByte(hexDigits[c>>4])
				w.WriteByte(hexDigits[c&0xf])
				w.WriteByte(';')
			default:
				w.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || r == 0xfffe || r == 0xffff {
			for j := i; j < i+size; j++ {
				w.WriteString("&#x")
				w.WriteByte(hexDigits[s[j]>>4])
				w.WriteByte(hexDigits[s[j]&0xf])
				w.WriteByte(';')
			}
		} else {
			w.WriteString(s[i : i+size])
		}
		i += size
	}
}

// escapeJSON writes s as the contents of a JSON string. Bytes that are not
// valid UTF-8 are written one by one as \u00XX escapes; since valid
// non-ASCII text is written literally, such an escape above \u007f always
// stands for a raw byte.
func escapeJSON(w *bytes.Buffer, s string) {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				w.WriteString(`\"`)
			case '\\':
				w.WriteString(`\\`)
			case '\b':
				w.WriteString(`\b`)
			case '\f':
				w.WriteString(`\f`)
			case '\n':
				w.WriteString(`\n`)
			case '\r':
				w.WriteString(`\r`)
			case '\t':
				w.WriteString(`\t`)
			default:
				if c < 0x20 || c == 0x7f {
					writeJSONByte(w, c)
				} else {
					w.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			writeJSONByte(w, c)
		} else {
			w.WriteString(s[i : i+size])
		}
		i += size
	}
}

func writeJSONByte(w *bytes.Buffer, c byte) {
	w.WriteString(`\u00`)
	w.WriteByte(hexDigits[c>>4])
	w.WriteByte(hexDigits[c&0xf])
}
