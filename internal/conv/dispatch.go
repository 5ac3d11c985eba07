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
	"strings"

	"github.com/sirseerhq/sirseer-aushape/internal/buffer"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
)

// Kind selects the collector built for a dispatch link.
type Kind int

const (
	// KindUnique builds a UniqueCollector.
	KindUnique Kind = iota
	// KindExecve builds an ExecveCollector.
	KindExecve
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindExecve:
		return "execve"
	default:
		return "unknown"
	}
}

// DispatchLink routes records of one type to a collector kind.
type DispatchLink struct {
	// Name is the record type name; empty matches any type.
	Name string
	Kind Kind
	// Args configures KindUnique collectors.
	Args UniqueArgs
}

// DefaultDispatchTable routes EXECVE records to the argument reassembler,
// keeps every PATH record, and drops consecutive repeats of anything else.
func DefaultDispatchTable() []DispatchLink {
	return []DispatchLink{
		{Name: "EXECVE", Kind: KindExecve},
		{Name: "PATH", Kind: KindUnique, Args: UniqueArgs{Unique: false}},
		{Kind: KindUnique, Args: UniqueArgs{Unique: true}},
	}
}

type dispatchChild struct {
	name string
	coll Collector
}

// DispatchCollector routes each record to a child collector picked by
// record type. Children are built on first use and kept for later events.
type DispatchCollector struct {
	format *format.Format
	out    *buffer.Buffer
	table  []DispatchLink

	children []dispatchChild
	index    map[string]int
}

// NewDispatchCollector returns a dispatch collector using table, which must
// end in a catch-all link.
func NewDispatchCollector(f *format.Format, out *buffer.Buffer, table []DispatchLink) (*DispatchCollector, error) {
	if len(table) == 0 || table[len(table)-1].Name != "" {
		return nil, aerrors.InvalidArguments("dispatch table has no catch-all link")
	}
	for _, link := range table {
		if link.Kind != KindUnique && link.Kind != KindExecve {
			return nil, aerrors.InvalidArguments("unknown collector kind",
				"type", link.Name, "kind", int(link.Kind))
		}
	}
	return &DispatchCollector{
		format: f,
		out:    out,
		table:  append([]DispatchLink(nil), table...),
		index:  make(map[string]int),
	}, nil
}

// Valid reports whether every child is consistent.
func (d *DispatchCollector) Valid() bool {
	for _, child := range d.children {
		if !child.coll.Valid() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether every child is empty.
func (d *DispatchCollector) IsEmpty() bool {
	for _, child := range d.children {
		if !child.coll.IsEmpty() {
			return false
		}
	}
	return true
}

// Reset resets every child, keeping them for reuse.
func (d *DispatchCollector) Reset() {
	for _, child := range d.children {
		child.coll.Reset()
	}
}

// Add routes rec to the child collector for its type.
func (d *DispatchCollector) Add(level int, first *bool, rec Record) error {
	typeName, err := recordTypeName(rec)
	if err != nil {
		return err
	}
	coll, err := d.child(typeName)
	if err != nil {
		return err
	}
	return coll.Add(level, first, rec)
}

func (d *DispatchCollector) child(typeName string) (Collector, error) {
	name := elementName(typeName)
	if i, ok := d.index[name]; ok {
		return d.children[i].coll, nil
	}

	link := d.lookup(typeName)
	var coll Collector
	switch link.Kind {
	case KindExecve:
		coll = NewExecveCollector(d.format, d.out)
	default:
		if !validName(name) {
			return nil, aerrors.InvalidSequence("invalid record type name", "type", typeName)
		}
		unique, err := NewUniqueCollector(d.format, d.out, name, link.Args)
		if err != nil {
			return nil, err
		}
		coll = unique
	}

	d.index[name] = len(d.children)
	d.children = append(d.children, dispatchChild{name: name, coll: coll})
	return coll, nil
}

// lookup returns the first link matching typeName in any letter case. The
// table always ends in a catch-all.
func (d *DispatchCollector) lookup(typeName string) DispatchLink {
	for _, link := range d.table {
		if link.Name == "" || strings.EqualFold(link.Name, typeName) {
			return link
		}
	}
	return d.table[len(d.table)-1]
}

// unknownType matches the names auditd gives types it has no name for,
// such as UNKNOWN[1420].
var unknownType = strings.NewReplacer("[", "_", "]", "")

// elementName returns the element records of typeName are rendered under.
func elementName(typeName string) string {
	return unknownType.Replace(strings.ToLower(typeName))
}

// End finishes every non-empty child in creation order.
func (d *DispatchCollector) End(level int, first *bool) error {
	defer d.Reset()
	for _, child := range d.children {
		if child.coll.IsEmpty() {
			continue
		}
		if err := child.coll.End(level, first); err != nil {
			return err
		}
	}
	return nil
}
