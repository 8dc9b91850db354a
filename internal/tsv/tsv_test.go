package tsv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func collect(rows *[]Row) func(Row) error {
	return func(r Row) error {
		*rows = append(*rows, r)
		return nil
	}
}

func TestReadSkipsMalformedAndBlankLines(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	path := writeFile(t, "a\t b \tc\n\nshort\n  \t  \nd\te\tf\r\n")

	var rows []Row
	stats, err := Read(context.Background(), path, 3, collect(&rows))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 2, Skipped: 1}, stats)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Line: 1, Fields: []string{"a", "b", "c"}}, rows[0])
	assert.Equal(t, Row{Line: 5, Fields: []string{"d", "e", "f"}}, rows[1])

	captured.AssertContains(t, "Skipping malformed line")
	captured.AssertContains(t, `"line":3`)
	captured.AssertContains(t, `"file":"`+path+`"`)
}

func TestReadStrictFailsOnMalformedLine(t *testing.T) {
	path := writeFile(t, "a\tb\nonly\n")

	var rows []Row
	_, err := ReadStrict(context.Background(), path, 2, collect(&rows))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedLine(err))

	var lineErr *errors.MalformedLineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, 2, lineErr.Want)
	assert.Equal(t, 1, lineErr.Got)
	assert.Equal(t, path, lineErr.File)
	assert.Len(t, rows, 1)
}

func TestReadMissingFile(t *testing.T) {
	called := false
	_, err := Read(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), 1,
		func(Row) error { called = true; return nil },
		WithRole("definitions file"))

	require.Error(t, err)
	assert.True(t, errors.IsMissingFile(err))
	assert.Contains(t, err.Error(), "definitions file not found")
	assert.False(t, called)
}

func TestReadCallbackErrorStops(t *testing.T) {
	path := writeFile(t, "a\nb\nc\n")
	stop := errors.New("stop")

	n := 0
	_, err := Read(context.Background(), path, 1, func(Row) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)
}

func TestReadNFC(t *testing.T) {
	path := writeFile(t, "id\tcafe\u0301\n")

	var rows []Row
	_, err := Read(context.Background(), path, 2, collect(&rows), WithNFC())
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", rows[0].Fields[1])
}

func TestContextWithOptions(t *testing.T) {
	path := writeFile(t, "id\tcafe\u0301\n")

	var rows []Row
	ctx := ContextWithOptions(context.Background(), WithNFC())
	_, err := Read(ctx, path, 2, collect(&rows))
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", rows[0].Fields[1])

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err = Read(ContextWithOptions(ctx, WithRole("aliases file")), missing, 2, collect(&rows))
	assert.True(t, errors.IsMissingFile(err))
	assert.EqualError(t, err, "aliases file not found: "+missing)
}

func TestReadLongLine(t *testing.T) {
	long := strings.Repeat("word ", 100000)
	path := writeFile(t, "Q1\t"+long+"\n")

	var rows []Row
	_, err := Read(context.Background(), path, 2, collect(&rows))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, strings.TrimSpace(long), rows[0].Fields[1])
}
