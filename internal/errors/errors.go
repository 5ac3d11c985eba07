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

// Package errors defines the error kinds of the conversion engine.
// Every kind is a coded error so the CLI can map it to a specific exit code
// and callers can tell a malformed audit trail apart from I/O failures.
package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Error codes, one per error kind.
const (
	// CodeInvalidArguments marks a bad format configuration or a missing
	// required input. Maps to exit code 2.
	CodeInvalidArguments = "AUSHAPE_INVALID_ARGUMENTS"

	// CodeOutOfMemory marks a failed output buffer growth. Maps to exit code 1.
	CodeOutOfMemory = "AUSHAPE_OUT_OF_MEMORY"

	// CodeSourceReadFailed marks a record source that could not supply an
	// expected value. Maps to exit code 3.
	CodeSourceReadFailed = "AUSHAPE_SOURCE_READ_FAILED"

	// CodeInvalidSequence marks a malformed record or field sequence.
	// Maps to exit code 4.
	CodeInvalidSequence = "AUSHAPE_INVALID_SEQUENCE"
)

// InvalidArguments returns an error of the invalid arguments kind.
// Context is given as alternating key/value pairs.
func InvalidArguments(msg string, kv ...interface{}) error {
	return withContext(goerrors.New(CodeInvalidArguments, msg), kv)
}

// InvalidConfig returns an error of the invalid arguments kind for a
// configuration that could not be loaded.
func InvalidConfig(cause error) error {
	return goerrors.Wrap(cause, CodeInvalidArguments, "invalid configuration: "+cause.Error())
}

// OutOfMemory returns an error of the out of memory kind.
func OutOfMemory(cause error, msg string) error {
	return goerrors.Wrap(cause, CodeOutOfMemory, msg)
}

// SourceReadFailed returns an error of the source read failure kind.
// The cause may be nil when the source simply had no value to give.
func SourceReadFailed(cause error, msg string, kv ...interface{}) error {
	if cause == nil {
		return withContext(goerrors.New(CodeSourceReadFailed, msg), kv)
	}
	return withContext(goerrors.Wrap(cause, CodeSourceReadFailed, msg), kv)
}

// InvalidSequence returns an error of the invalid sequence kind.
func InvalidSequence(msg string, kv ...interface{}) error {
	return withContext(goerrors.New(CodeInvalidSequence, msg), kv)
}

func withContext(err *goerrors.Error, kv []interface{}) *goerrors.Error {
	for i := 0; i+1 < len(kv); i += 2 {
		err = err.WithContext(fmt.Sprint(kv[i]), kv[i+1])
	}
	return err
}

// Code returns the error code carried by err, or "" if there is none.
func Code(err error) string {
	var coder goerrors.ErrorCoder
	if err == nil || !stderrors.As(err, &coder) {
		return ""
	}
	return string(coder.ErrorCode())
}

// IsInvalidArguments reports whether err is of the invalid arguments kind.
func IsInvalidArguments(err error) bool {
	return Code(err) == CodeInvalidArguments
}

// IsOutOfMemory reports whether err is of the out of memory kind.
func IsOutOfMemory(err error) bool {
	return Code(err) == CodeOutOfMemory
}

// IsSourceReadFailed reports whether err is of the source read failure kind.
func IsSourceReadFailed(err error) bool {
	return Code(err) == CodeSourceReadFailed
}

// IsInvalidSequence reports whether err is of the invalid sequence kind.
func IsInvalidSequence(err error) bool {
	return Code(err) == CodeInvalidSequence
}

// WithContext attaches a key/value pair to err if it is a coded error and
// returns err.
func WithContext(err error, key string, value interface{}) error {
	var coded *goerrors.Error
	if stderrors.As(err, &coded) {
		coded.WithContext(key, value)
	}
	return err
}
