// Package tsv streams tab-separated raw dataset files.
package tsv

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

// Row is one non-blank line split on tabs, with each field trimmed.
type Row struct {
	Line   int
	Fields []string
}

// Stats summarizes a read.
type Stats struct {
	Rows    int
	Skipped int
}

type options struct {
	role   string
	strict bool
	nfc    bool
}

// Option configures a read.
type Option func(*options)

// WithRole names the file in errors, e.g. "definitions file".
func WithRole(role string) Option {
	return func(o *options) {
		o.role = role
	}
}

// WithNFC normalizes every field to Unicode NFC.
func WithNFC() Option {
	return func(o *options) {
		o.nfc = true
	}
}

type optionsKey struct{}

// ContextWithOptions returns a context whose reads apply opts before the
// options passed to Read itself. Loaders that only take a directory pick
// up settings such as WithNFC this way.
func ContextWithOptions(ctx context.Context, opts ...Option) context.Context {
	base := optionsFrom(ctx)
	merged := make([]Option, 0, len(base)+len(opts))
	merged = append(merged, base...)
	merged = append(merged, opts...)
	return context.WithValue(ctx, optionsKey{}, merged)
}

func optionsFrom(ctx context.Context) []Option {
	opts, _ := ctx.Value(optionsKey{}).([]Option)
	return opts
}

// Read calls fn for every row of path with at least minCols fields.
// Shorter rows are logged and skipped. A missing file fails before fn is
// called. An error from fn stops the read and is returned as is.
func Read(ctx context.Context, path string, minCols int, fn func(Row) error, opts ...Option) (Stats, error) {
	return read(ctx, path, minCols, fn, opts)
}

// ReadStrict is Read but a short row is returned as a MalformedLineError.
func ReadStrict(ctx context.Context, path string, minCols int, fn func(Row) error, opts ...Option) (Stats, error) {
	return read(ctx, path, minCols, fn, append(opts, func(o *options) { o.strict = true }))
}

func read(ctx context.Context, path string, minCols int, fn func(Row) error, opts []Option) (Stats, error) {
	o := &options{}
	for _, opt := range optionsFrom(ctx) {
		opt(o)
	}
	for _, opt := range opts {
		opt(o)
	}

	var stats Stats
	f, err := os.Open(path) //nolint:gosec // dataset paths come from the caller
	if err != nil {
		if os.IsNotExist(err) {
			return stats, errors.NewMissingFileError(o.role, path)
		}
		return stats, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	logger := logging.FromContext(logging.WithFile(ctx, path))
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, constants.InitialLineBuffer), constants.MaxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if line%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return stats, errors.NewResourceError("read", "file", path, errors.ErrCanceled)
			}
		}

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < minCols {
			malformed := &errors.MalformedLineError{File: path, Line: line, Want: minCols, Got: len(fields)}
			if o.strict {
				return stats, malformed
			}
			logger.Warn().
				Int("line", line).
				Int("want", minCols).
				Int("got", len(fields)).
				Msg("Skipping malformed line")
			stats.Skipped++
			continue
		}

		for i, field := range fields {
			field = strings.TrimSpace(field)
			if o.nfc {
				field = norm.NFC.String(field)
			}
			fields[i] = field
		}

		if err := fn(Row{Line: line, Fields: fields}); err != nil {
			return stats, err
		}
		stats.Rows++
	}
	if err := scanner.Err(); err != nil {
		return stats, &errors.IOError{
			Operation: "read",
			Path:      path,
			Message:   "line " + strconv.Itoa(line+1) + ": " + err.Error(),
			Err:       err,
		}
	}
	return stats, nil
}
