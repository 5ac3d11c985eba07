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

package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirseerhq/sirseer-aushape/internal/auparse"
	"github.com/sirseerhq/sirseer-aushape/internal/conv"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
	"github.com/sirseerhq/sirseer-aushape/internal/metadata"
	"github.com/sirseerhq/sirseer-aushape/internal/output"
)

// flushThreshold is the size at which a shared document is handed to the
// writers before it is complete.
const flushThreshold = 64 * 1024

// conversion is a single pass over an audit log.
type conversion struct {
	reader  *auparse.Reader
	conv    *conv.Converter
	writer  output.OutputWriter
	tracker *metadata.Tracker
	loc     *time.Location
	logger  zerolog.Logger

	// failed is the first event conversion error.
	failed error
}

// run reads every event and delivers it through the writer. Events that
// fail to convert are logged, counted and skipped. The returned error is
// set only when the pass cannot go on.
func (cv *conversion) run(ctx context.Context) error {
	f := cv.conv.Format()

	if f.EventsPerDoc {
		if err := cv.conv.AddPrologue(); err != nil {
			return err
		}
	}

	first := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := cv.reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		stamp, err := ev.Stamp()
		if err != nil {
			return aerrors.SourceReadFailed(err, "failed to get event timestamp")
		}
		if err := cv.conv.AddEvent(first, ev); err != nil {
			if aerrors.IsOutOfMemory(err) {
				return err
			}
			cv.tracker.RecordFailure()
			cv.logger.Error().Err(err).
				Uint64("serial", stamp.Serial).
				Int("line", cv.reader.Line()).
				Msg("Failed to convert event")
			if cv.failed == nil {
				cv.failed = err
			}
			continue
		}
		if f.EventsPerDoc {
			first = false
		}
		cv.tracker.RecordEvent(stamp.Serial, ev.Len())

		if err := cv.deliver(&f, stamp); err != nil {
			return err
		}
	}

	if f.EventsPerDoc {
		if err := cv.conv.AddEpilogue(); err != nil {
			return err
		}
		if err := cv.flush(&output.Document{Lang: f.Lang.String(), Complete: true}); err != nil {
			return err
		}
	}
	return nil
}

// deliver hands the converted event to the writer: a complete document when
// every event is its own document, otherwise a piece of the shared document
// once enough has accumulated.
func (cv *conversion) deliver(f *format.Format, stamp conv.Stamp) error {
	if f.EventsPerDoc {
		if cv.conv.Len() < flushThreshold {
			return nil
		}
		return cv.flush(&output.Document{Lang: f.Lang.String()})
	}
	return cv.flush(&output.Document{
		Serial:   stamp.Serial,
		Time:     conv.FormatTime(stamp.Sec, stamp.Milli, cv.loc),
		Host:     stamp.Host,
		Lang:     f.Lang.String(),
		Complete: true,
	})
}

// flush writes the converter buffer as doc's data and empties it.
func (cv *conversion) flush(doc *output.Document) error {
	doc.Data = cv.conv.Bytes()
	if err := cv.writer.Write(doc); err != nil {
		return err
	}
	cv.conv.Empty()
	return nil
}
