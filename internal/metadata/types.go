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

// Package metadata types define the structures used for tracking and
// persisting information about conversion runs.
package metadata

import (
	"time"
)

// RunMetadata is the complete record of a single conversion run: what was
// read, how it was rendered and what came out.
type RunMetadata struct {
	AushapeVersion string     `json:"aushape_version"`
	RunID          string     `json:"run_id"`
	Parameters     RunParams  `json:"parameters"`
	Results        RunResults `json:"results"`
}

// RunParams captures the input and format settings of a run so that its
// output can be reproduced.
type RunParams struct {
	Input        string `json:"input"`
	Lang         string `json:"lang"`
	FoldLevel    string `json:"fold_level"`
	Indent       int    `json:"indent"`
	EventsPerDoc bool   `json:"events_per_doc"`
	Timezone     string `json:"timezone"`
	Output       string `json:"output,omitempty"`
	Database     string `json:"database,omitempty"`
}

// RunResults contains the statistics of a completed run.
type RunResults struct {
	Events      int       `json:"events"`
	Records     int       `json:"records"`
	Failures    int       `json:"failures"`
	Bytes       int64     `json:"bytes"`
	FirstSerial uint64    `json:"first_serial"`
	LastSerial  uint64    `json:"last_serial"`
	Duration    string    `json:"duration"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}
