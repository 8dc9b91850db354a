package save

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

func TestMappingJSONDefaults(t *testing.T) {
	var buf bytes.Buffer
	err := Mapping(kg.Mapping{"b": "Zürich <city>", "a": "x"}, WithWriter(&buf))
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": \"Zürich <city>\"\n}", buf.String())
}

func TestMappingJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Mapping(kg.Mapping{"a": "x"}, WithWriter(&buf), WithIndent(4)))
	assert.Equal(t, "{\n    \"a\": \"x\"\n}", buf.String())

	buf.Reset()
	require.NoError(t, Mapping(kg.Mapping{"a": "x"}, WithWriter(&buf), WithIndent(0)))
	assert.Equal(t, `{"a":"x"}`, buf.String())
}

func TestMappingNilWritesEmptyObject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Mapping(nil, WithWriter(&buf)))
	assert.Equal(t, "{}", buf.String())
}

func TestMappingRequiresDestination(t *testing.T) {
	err := Mapping(kg.Mapping{"a": "x"})
	assert.True(t, errors.IsValidationError(err))

	err = Mapping(kg.Mapping{"a": "x"}, WithWriter(&bytes.Buffer{}), WithFormat(Format(9)))
	assert.True(t, errors.IsValidationError(err))
}

func TestMappingFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := kg.Mapping{"Q1": "universe", "Q2": "", "Q3": "東京"}

	for _, name := range []string{"out.json", "nested/out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Mapping(m, WithPath(path), WithFormat(FormatFromPath(path))))

			got, err := LoadMapping(path)
			require.NoError(t, err)
			assert.Equal(t, m, got)

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestLoadMappingErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMapping(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.IsMissingFile(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": `), 0o600))
	_, err = LoadMapping(bad)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
	assert.Equal(t, bad, parseErr.File)
}

func TestIDsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entity_ids.txt")
	require.NoError(t, IDs([]string{"a", "b", "c"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", string(data))

	ids, err := LoadIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	_, err = LoadIDs(filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errors.IsMissingFile(err))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "unknown", Format(7).String())
	assert.False(t, Format(7).IsValid())
	assert.Equal(t, FormatYAML, FormatFromPath("x.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("x.txt"))
}
