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

// Package metadata provides functionality for tracking and persisting
// statistics about conversion runs: how many events and records were
// converted, how many events failed, how many bytes were produced and the
// range of event serials covered.
//
// Metadata is saved as JSON files in a metadata directory, allowing external
// tools to analyze conversion history.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agilira/go-timecache"
)

// Tracker collects statistics during a conversion run. Create one at the
// start of a run and record every event as it is converted.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	startTime time.Time
	now       func() time.Time
	stats     EventStats
}

// EventStats holds the running counts of a conversion run.
type EventStats struct {
	Events      int    // Events converted
	Records     int    // Records in converted events
	Failures    int    // Events that failed to convert
	FirstSerial uint64 // Lowest serial converted
	LastSerial  uint64 // Highest serial converted
}

// New creates a new metadata tracker started at the current time.
func New() *Tracker {
	return newTracker(timecache.CachedTime)
}

func newTracker(now func() time.Time) *Tracker {
	return &Tracker{
		startTime: now(),
		now:       now,
	}
}

// RecordEvent records a converted event with its serial and record count.
func (t *Tracker) RecordEvent(serial uint64, records int) {
	if t.stats.Events == 0 || serial < t.stats.FirstSerial {
		t.stats.FirstSerial = serial
	}
	if serial > t.stats.LastSerial {
		t.stats.LastSerial = serial
	}
	t.stats.Events++
	t.stats.Records += records
}

// RecordFailure records an event that could not be converted.
func (t *Tracker) RecordFailure() {
	t.stats.Failures++
}

// Stats returns the statistics collected so far.
func (t *Tracker) Stats() EventStats {
	return t.stats
}

// GenerateMetadata creates the record of the run. bytes is the total output
// size as reported by the stream writer.
func (t *Tracker) GenerateMetadata(version string, params RunParams, bytes int64) *RunMetadata {
	completedAt := t.now()

	return &RunMetadata{
		AushapeVersion: version,
		RunID:          fmt.Sprintf("convert-%d", t.startTime.Unix()),
		Parameters:     params,
		Results: RunResults{
			Events:      t.stats.Events,
			Records:     t.stats.Records,
			Failures:    t.stats.Failures,
			Bytes:       bytes,
			FirstSerial: t.stats.FirstSerial,
			LastSerial:  t.stats.LastSerial,
			Duration:    completedAt.Sub(t.startTime).String(),
			StartedAt:   t.startTime,
			CompletedAt: completedAt,
		},
	}
}

// SaveMetadata persists a RunMetadata record to a JSON file in dir. The file
// is written to a temporary file and renamed into place.
//
// The metadata file will be named: convert-metadata-{timestamp}.json
//
// It returns the path of the saved file.
func SaveMetadata(metadata *RunMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("convert-metadata-%d.json", metadata.Results.StartedAt.Unix())
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// WriteMetadataToWriter serializes metadata as indented JSON to w.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
