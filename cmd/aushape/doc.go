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

// Package main implements the aushape command-line interface.
// This tool reads Linux audit logs and converts every event into an XML
// or JSON document, either one document for the whole log or one per event.
//
// The CLI supports:
//   - Reading a log file or standard input
//   - XML and JSON output with configurable folding and indentation
//   - Writing to stdout, a file, or an SQLite event database
//   - Configuration via YAML file, AUSHAPE_* environment variables and flags
//   - Run metadata saved as JSON for later analysis
//
// Usage:
//
//	aushape convert [file] [flags]
//
// Example:
//
//	ausearch --raw -ts today | aushape convert --lang json --output today.json
//
// Exit codes:
//   - 0: Success
//   - 1: General error, including running out of memory
//   - 2: Invalid arguments or configuration
//   - 3: The audit log could not be read
//   - 4: An event had an invalid record sequence
package main
