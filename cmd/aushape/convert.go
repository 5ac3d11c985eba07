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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-aushape/internal/auparse"
	"github.com/sirseerhq/sirseer-aushape/internal/config"
	"github.com/sirseerhq/sirseer-aushape/internal/conv"
	aerrors "github.com/sirseerhq/sirseer-aushape/internal/errors"
	"github.com/sirseerhq/sirseer-aushape/internal/format"
	"github.com/sirseerhq/sirseer-aushape/internal/metadata"
	"github.com/sirseerhq/sirseer-aushape/internal/output"
)

// convertOptions holds the flag values of the convert command.
type convertOptions struct {
	configPath   string
	lang         string
	fold         string
	indent       int
	eventsPerDoc bool
	output       string
	db           string
	metadataDir  string
	timezone     string
	logLevel     string
}

func newConvertCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert an audit log to XML or JSON",
		Long: `Convert an audit log to XML or JSON.

The log is read from the named file, or from standard input when no file or
"-" is given. Records must be in raw log format, as written by auditd or
printed by "ausearch --raw".

By default every event is rendered inside one document. With
--events-per-doc=false each event is a document of its own followed by a
newline, which is also the layout required by --db. Combine it with
--fold all to get one document per line.

Settings are taken from the config file, then AUSHAPE_* environment
variables, then flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return aerrors.InvalidConfig(err)
			}
			applyFlags(cmd.Flags(), &opts, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runConvert(cmd.Context(), cfg, input, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	bindFlags(cmd.Flags(), &opts)

	return cmd
}

// bindFlags defines the convert flags on flags, storing values in opts.
func bindFlags(flags *pflag.FlagSet, opts *convertOptions) {
	flags.StringVar(&opts.configPath, "config", "", "Config file path (default: .aushape.yaml or ~/.aushape/config.yaml)")
	flags.StringVar(&opts.lang, "lang", "xml", "Output language: xml or json")
	flags.StringVar(&opts.fold, "fold", "2", "Nesting level from which output is put on one line: a number, all or none")
	flags.IntVar(&opts.indent, "indent", 2, "Number of spaces per nesting level")
	flags.BoolVar(&opts.eventsPerDoc, "events-per-doc", true, "Put all events in one document")
	flags.StringVar(&opts.output, "output", "", "Output file path (default: stdout)")
	flags.StringVar(&opts.db, "db", "", "SQLite database receiving one row per event")
	flags.StringVar(&opts.metadataDir, "metadata-dir", "", "Directory receiving run metadata")
	flags.StringVar(&opts.timezone, "timezone", "Local", "Time zone event times are rendered in")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(flags *pflag.FlagSet, opts *convertOptions, cfg *config.Config) {
	if flags.Changed("lang") {
		cfg.Format.Lang = opts.lang
	}
	if flags.Changed("fold") {
		cfg.Format.Fold = opts.fold
	}
	if flags.Changed("indent") {
		cfg.Format.Indent = indentUnit(opts.indent)
	}
	if flags.Changed("events-per-doc") {
		cfg.Format.EventsPerDoc = opts.eventsPerDoc
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("db") {
		cfg.Output.DB = opts.db
	}
	if flags.Changed("metadata-dir") {
		cfg.Output.MetadataDir = opts.metadataDir
	}
	if flags.Changed("timezone") {
		cfg.Timezone = opts.timezone
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
}

// indentUnit returns n spaces. A negative n is kept visible so that
// format validation rejects it.
func indentUnit(n int) string {
	if n < 0 {
		return fmt.Sprint(n)
	}
	return strings.Repeat(" ", n)
}

// newLogger returns the diagnostic logger writing to w.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "aushape").Logger()
}

// runConvert converts the log at inputPath, or stdin when it is empty or
// "-", with the validated configuration cfg.
func runConvert(ctx context.Context, cfg *config.Config, inputPath string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := cfg.BuildFormat()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := newLogger(stderr, level)

	in, closeInput, err := openInput(inputPath, stdin)
	if err != nil {
		return err
	}
	defer closeInput()

	writer, stream, err := openOutputs(cfg, stdout)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = writer.Close()
		}
	}()

	c, err := conv.NewConverter(f, conv.WithLocation(loc))
	if err != nil {
		return err
	}

	cv := &conversion{
		reader:  auparse.NewReader(in),
		conv:    c,
		writer:  writer,
		tracker: metadata.New(),
		loc:     loc,
		logger:  logger,
	}

	logger.Debug().
		Str("input", inputName(inputPath)).
		Str("lang", f.Lang.String()).
		Bool("events_per_doc", f.EventsPerDoc).
		Msg("Starting conversion")

	if err := cv.run(ctx); err != nil {
		return err
	}

	// Metadata describes only runs whose documents were all stored
	closed = true
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	stats := cv.tracker.Stats()
	var bytes int64
	if stream != nil {
		bytes = stream.Bytes()
	}
	logger.Info().
		Int("events", stats.Events).
		Int("records", stats.Records).
		Int("failures", stats.Failures).
		Int64("bytes", bytes).
		Msg("Conversion complete")

	md := cv.tracker.GenerateMetadata(version, runParams(cfg, f, inputPath), bytes)
	if cfg.Output.MetadataDir != "" {
		path, saveErr := metadata.SaveMetadata(md, cfg.Output.MetadataDir)
		if saveErr != nil {
			return saveErr
		}
		logger.Debug().Str("path", path).Msg("Saved run metadata")
	}

	if cv.failed != nil {
		return fmt.Errorf("%d of %d events failed to convert, first: %w",
			stats.Failures, stats.Failures+stats.Events, cv.failed)
	}
	return nil
}

// openInput returns the log reader for path and a function closing it.
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, aerrors.SourceReadFailed(err, "failed to open input file", "path", path)
	}
	return file, func() { _ = file.Close() }, nil
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// openOutputs creates the writers selected by cfg. The stream writer goes to
// the output file or stdout, and is omitted when only a database is given.
func openOutputs(cfg *config.Config, stdout io.Writer) (output.OutputWriter, *output.Writer, error) {
	var (
		writers []output.OutputWriter
		stream  *output.Writer
	)

	switch {
	case cfg.Output.Path != "" && cfg.Output.Path != "-":
		fileWriter, err := output.NewFileWriter(cfg.Output.Path)
		if err != nil {
			return nil, nil, err
		}
		stream = fileWriter
	case cfg.Output.DB == "" || cfg.Output.Path == "-":
		stream = output.NewWriter(stdout)
	}
	if stream != nil {
		writers = append(writers, stream)
	}

	if cfg.Output.DB != "" {
		store, err := output.NewStore(cfg.Output.DB, output.DefaultBatchSize)
		if err != nil {
			if stream != nil {
				_ = stream.Close()
			}
			return nil, nil, err
		}
		writers = append(writers, store)
	}

	return output.Multi(writers...), stream, nil
}

func runParams(cfg *config.Config, f *format.Format, inputPath string) metadata.RunParams {
	fold := fmt.Sprint(f.FoldLevel)
	if f.FoldLevel == format.FoldNone {
		fold = "none"
	}
	return metadata.RunParams{
		Input:        inputName(inputPath),
		Lang:         f.Lang.String(),
		FoldLevel:    fold,
		Indent:       len(f.Indent),
		EventsPerDoc: f.EventsPerDoc,
		Timezone:     cfg.Timezone,
		Output:       cfg.Output.Path,
		Database:     cfg.Output.DB,
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case aerrors.IsInvalidArguments(err):
		return 2 // Invalid arguments or configuration
	case aerrors.IsSourceReadFailed(err):
		return 3 // Unreadable audit log
	case aerrors.IsInvalidSequence(err):
		return 4 // Malformed event
	}

	return 1 // General error, including out of memory
}
