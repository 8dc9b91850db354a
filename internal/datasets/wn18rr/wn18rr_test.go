package wn18rr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
)

func TestCleanEntityName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"__stool_NN_2", "stool"},
		{"__take_a_breath_VB_1", "take a breath"},
		{"__united_states_NN_1", "united states"},
		{"__a_NN", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanEntityName(tt.raw))
		})
	}
}

func writeRaw(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefinitionsFile), []byte(
		"04379243\t__stool_NN_2\ta simple seat without a back or arms\n"+
			"00001740\t__breathe_VB_1\t draw air into, and expel out of, the lungs \n"+
			"bad line\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RelationsFile), []byte(
		"0\t_hypernym\n1\t_derivationally_related_form\n"), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := writeRaw(t)

	g, err := Dataset{}.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, kg.Mapping{"04379243": "stool", "00001740": "breathe"}, g.EntityNames)
	assert.Equal(t, kg.Mapping{
		"04379243": "a simple seat without a back or arms",
		"00001740": "draw air into, and expel out of, the lungs",
	}, g.EntityDescriptions)
	assert.Equal(t, kg.Mapping{
		"_hypernym":                    "hypernym",
		"_derivationally_related_form": "derivationally related form",
	}, g.RelationNames)
	assert.Equal(t, []string{"00001740", "04379243"}, g.EntityIDs)
}

func TestEntityNamesAndDescriptions(t *testing.T) {
	logging.DisableLoggingForTest(t)
	path := filepath.Join(writeRaw(t), DefinitionsFile)

	names, err := EntityNames(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "stool", names["04379243"])

	descs, err := EntityDescriptions(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, descs, 2)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Dataset{}.Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsMissingFile(err))
	assert.Contains(t, err.Error(), "definitions file not found")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefinitionsFile), []byte("1\t__a_NN_1\tx\n"), 0o600))
	_, err = Dataset{}.Load(context.Background(), dir)
	assert.True(t, errors.IsMissingFile(err))
	assert.Contains(t, err.Error(), "relations file not found")
}

func TestFiles(t *testing.T) {
	files := Dataset{}.Files()
	require.Len(t, files, 5)
	assert.Equal(t, DefinitionsFile, files[0].Name)
	assert.Equal(t, "https://raw.githubusercontent.com/intfloat/SimKGC/main/data/WN18RR/"+DefinitionsFile, files[0].URL)
	assert.False(t, files[0].Extract)
}

func TestFileLoader(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := writeRaw(t)

	names, descs, err := Dataset{}.LoadEntities(context.Background(), filepath.Join(dir, DefinitionsFile))
	require.NoError(t, err)
	assert.Equal(t, "stool", names["04379243"])
	assert.Len(t, descs, 2)

	relations, err := Dataset{}.LoadRelations(context.Background(), filepath.Join(dir, RelationsFile))
	require.NoError(t, err)
	assert.Equal(t, "hypernym", relations["_hypernym"])

	_, _, err = Dataset{}.LoadEntities(context.Background())
	assert.True(t, errors.IsValidationError(err))
}

func TestRelationNamesRejectsShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), RelationsFile)
	require.NoError(t, os.WriteFile(path, []byte("0\t_hypernym\n1\n"), 0o600))

	_, err := RelationNames(context.Background(), path)
	assert.True(t, errors.IsMalformedLine(err))
	assert.Contains(t, err.Error(), ":2:")
}

func TestLoadNFC(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := writeRaw(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefinitionsFile), []byte(
		"1\t__cafe\u0301_NN_1\ta small restaurant\n"), 0o600))

	g, err := Dataset{}.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "cafe\u0301", g.EntityNames["1"])

	g, err = Dataset{}.Load(tsv.ContextWithOptions(context.Background(), tsv.WithNFC()), dir)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", g.EntityNames["1"])
}
