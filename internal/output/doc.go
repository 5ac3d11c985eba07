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

// Package output delivers converted documents to their destinations.
//
// A Document is either a complete document, one event rendered on its own,
// or a piece of a document shared by many events. The stream Writer copies
// every piece to an io.Writer or file as it comes, terminating complete
// documents with a newline, so a run with one document per event yields one
// document per line. The SQLite Store keeps complete per-event documents as
// rows, queryable by serial, time and host.
//
// Example usage:
//
//	w, err := output.NewFileWriter("audit.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Write(&output.Document{Data: data, Complete: true}); err != nil {
//	    log.Printf("Failed to write document: %v", err)
//	}
//
//	fmt.Printf("Wrote %d bytes\n", w.Bytes())
package output
