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

package output

// Document is a converted document or a piece of one.
type Document struct {
	// Serial, Time and Host identify the event a per-event document holds.
	// They are zero for pieces of a shared document.
	Serial uint64
	Time   string
	Host   string
	// Lang is the output language name.
	Lang string
	// Data is the document text. It is only valid for the duration of the
	// Write call.
	Data []byte
	// Complete marks the end of a document.
	Complete bool
}

// OutputWriter defines the interface for delivering converted documents.
// This abstraction lets a run feed several destinations without changing
// the conversion loop.
type OutputWriter interface {
	// Write delivers one document or document piece.
	Write(doc *Document) error

	// Close flushes pending documents and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Multi returns a writer delivering every document to all writers in turn.
// The first error stops delivery.
func Multi(writers ...OutputWriter) OutputWriter {
	return multiWriter(writers)
}

type multiWriter []OutputWriter

func (m multiWriter) Write(doc *Document) error {
	for _, w := range m {
		if err := w.Write(doc); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and returns the first error.
func (m multiWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
