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
	"encoding/hex"
	"strings"
)

// encodedFields lists the fields the kernel writes hex encoded whenever
// their value holds a space, a quote or a control character.
var encodedFields = map[string]bool{
	"acct":      true,
	"cmd":       true,
	"comm":      true,
	"cwd":       true,
	"data":      true,
	"exe":       true,
	"key":       true,
	"name":      true,
	"path":      true,
	"proctitle": true,
}

// interpret decodes an unquoted value. Encodable values the kernel left
// unquoted are hex; anything else is returned as is.
func interpret(typeName, name, raw string) string {
	if !isEncoded(typeName, name) || !isHex(raw) {
		return raw
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return raw
	}
	if name == "proctitle" {
		// Arguments are separated by NUL.
		for i := range b {
			if b[i] == 0 {
				b[i] = ' '
			}
		}
		return strings.TrimRight(string(b), " ")
	}
	return string(b)
}

func isEncoded(typeName, name string) bool {
	if typeName == "EXECVE" && isArgName(name) {
		return true
	}
	return encodedFields[name]
}

// isArgName matches a<N> and a<N>[<K>].
func isArgName(name string) bool {
	if len(name) < 2 || name[0] != 'a' || !isDigit(name[1]) {
		return false
	}
	i := 2
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	rest := name[i:]
	if rest == "" {
		return true
	}
	if len(rest) < 3 || rest[0] != '[' || rest[len(rest)-1] != ']' {
		return false
	}
	for j := 1; j < len(rest)-1; j++ {
		if !isDigit(rest[j]) {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && (c < 'A' || c > 'F') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
