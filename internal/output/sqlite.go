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
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
)

// DefaultBatchSize is the number of documents committed per transaction.
const DefaultBatchSize = 256

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	serial INTEGER NOT NULL,
	time TEXT NOT NULL,
	host TEXT NOT NULL DEFAULT '',
	lang TEXT NOT NULL,
	document TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_serial ON events(serial);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(time);
CREATE INDEX IF NOT EXISTS idx_events_host ON events(host);
`

const insertEvent = `INSERT INTO events (serial, time, host, lang, document) VALUES (?, ?, ?, ?, ?)`

// Store keeps per-event documents in a SQLite database, one row per event.
// Rows are committed in batches; Close commits the remainder.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	insertStmt *sql.Stmt
	pending    []Document
	batchSize  int
	count      int
	closed     bool
}

// NewStore opens or creates the event database at path.
// A batchSize of zero or less selects DefaultBatchSize.
func NewStore(path string, batchSize int) (*Store, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to event database: %w", err)
	}

	if _, err := db.Exec(createEventsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create events schema: %w", err)
	}

	stmt, err := db.Prepare(insertEvent)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	return &Store{
		db:         db,
		insertStmt: stmt,
		pending:    make([]Document, 0, batchSize),
		batchSize:  batchSize,
	}, nil
}

// Write queues a complete per-event document, committing when the batch
// is full. Pieces of a shared document are rejected.
func (s *Store) Write(doc *Document) error {
	if !doc.Complete {
		return aerrors.InvalidArguments("event database accepts complete per-event documents only")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("event database is closed")
	}

	// Data is reused by the caller after Write returns.
	queued := *doc
	queued.Data = append([]byte(nil), doc.Data...)
	s.pending = append(s.pending, queued)

	if len(s.pending) >= s.batchSize {
		return s.flush()
	}
	return nil
}

// Flush commits queued documents.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *Store) flush() (err error) {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt := tx.Stmt(s.insertStmt)
	for i := range s.pending {
		d := &s.pending[i]
		if _, err = stmt.Exec(int64(d.Serial), d.Time, d.Host, d.Lang, string(d.Data)); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", d.Serial, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}

	s.count += len(s.pending)
	s.pending = s.pending[:0]
	return nil
}

// Count returns the number of committed documents.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close commits queued documents, checkpoints the write-ahead log and
// closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.flush(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		errs = append(errs, fmt.Errorf("failed to checkpoint: %w", err))
	}
	if err := s.insertStmt.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close statement: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event database: %v", errs)
	}
	return nil
}
