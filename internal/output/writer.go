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

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer writes documents to a stream.
// It is safe for concurrent use and writes each document immediately
// without buffering in memory.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	count     int
	bytes     int64
	closeFunc func() error
}

// NewWriter creates a new Writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		output: w,
	}
}

// NewFileWriter creates a new Writer that writes to a file, replacing any
// previous content.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		output:    file,
		closeFunc: file.Close,
	}, nil
}

// Write writes a document piece. A complete document is followed by a
// newline.
func (w *Writer) Write(doc *Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.output.Write(doc.Data)
	w.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if doc.Complete {
		n, err = io.WriteString(w.output, "\n")
		w.bytes += int64(n)
		if err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		w.count++
	}
	return nil
}

// Count returns the number of complete documents written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Bytes returns the number of bytes written.
func (w *Writer) Bytes() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
