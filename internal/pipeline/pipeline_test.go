package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/internal/datasets/wn18rr"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
	"github.com/agentstation/textkgc/pkg/reconcile"
	"github.com/agentstation/textkgc/pkg/save"
	"github.com/agentstation/textkgc/pkg/truncation"
)

var longDefinition = strings.TrimSpace(strings.Repeat("word ", 60))

func writeWN18RR(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	write(wn18rr.DefinitionsFile,
		"01\t__stool_NN_2\ta simple seat\n"+
			"02\t__breathe_VB_1\t"+longDefinition+"\n"+
			"03\t__nothing_NN_1\t\n")
	write(wn18rr.RelationsFile, "0\t_hypernym\n1\t_derivationally_related_form\n")
	write("train.txt", "01\t_hypernym\t02\n02\t_derivationally_related_form\t03\n")
	write("test.txt", "03\t_hypernym\t01\n")
	return dir
}

func TestRunWritesStandardFolder(t *testing.T) {
	logging.DisableLoggingForTest(t)
	raw := writeWN18RR(t)
	out := filepath.Join(t.TempDir(), "wn18rr")

	res, err := Run(context.Background(), Options{
		Dataset:  wn18rr.Dataset{},
		RawDir:   raw,
		OutDir:   out,
		Strategy: reconcile.Placeholder("-"),
	})
	require.NoError(t, err)

	for _, name := range []string{
		constants.EntityID2NameFile,
		constants.EntityID2DescriptionFile,
		constants.RelationID2NameFile,
		constants.EntityIDsFile,
		constants.ManifestFile,
		"train_processed.txt",
		"test_processed.txt",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, "valid_processed.txt"))

	g, err := LoadFolder(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "02", "03"}, g.EntityIDs)
	assert.Equal(t, "stool", g.EntityNames["01"])
	assert.Equal(t, longDefinition, g.EntityDescriptions["02"], "mapping files keep full text without --truncate")

	train, err := os.ReadFile(filepath.Join(out, "train_processed.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(train)), "\n")
	require.Len(t, lines, 2)

	first := strings.Split(lines[0], "\t")
	require.Len(t, first, 6)
	assert.Equal(t, []string{"01", "_hypernym", "02", "a simple seat", "hypernym"}, first[:5])
	assert.Len(t, strings.Fields(first[5]), 50, "split text is cut to the wn18rr entity limit")

	second := strings.Split(lines[1], "\t")
	assert.Equal(t, "nothing", second[5], "empty description falls back to the name")

	assert.Equal(t, "placeholder", res.Manifest.Fill)
	assert.Equal(t, TruncateNone, res.Manifest.Truncation)
	assert.Equal(t, []string{"Found 1 entities with empty descriptions"}, res.Manifest.Issues)
	assert.Equal(t, 3, res.Manifest.Entities)
	assert.Equal(t, 2, res.Manifest.Relations)
	assert.NotEmpty(t, res.Manifest.RunID)
	assert.False(t, res.Manifest.StartedAt.IsZero())

	m, err := ReadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.RunID, m.RunID)
	assert.Equal(t, "wn18rr", m.Dataset)
	assert.Equal(t, truncation.Limits{Entity: 50, Relation: 30}, m.Limits)
	require.Len(t, m.Splits, 2)
	assert.Equal(t, 2, m.Splits[0].Rows)
}

func TestRunWordTruncation(t *testing.T) {
	logging.DisableLoggingForTest(t)
	policy := truncation.New()
	require.NoError(t, policy.Register("wn18rr", 3, 1))

	out := t.TempDir()
	res, err := Run(context.Background(), Options{
		Dataset:    wn18rr.Dataset{},
		RawDir:     writeWN18RR(t),
		OutDir:     out,
		Policy:     policy,
		Truncate:   true,
		SkipSplits: true,
		Indent:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, "word word word", res.Graph.EntityDescriptions["02"])
	assert.Equal(t, "derivationally", res.Graph.RelationNames["_derivationally_related_form"])
	assert.Equal(t, TruncateWords, res.Manifest.Truncation)
	assert.Empty(t, res.Manifest.Splits)
	assert.NoFileExists(t, filepath.Join(out, "train_processed.txt"))

	data, err := os.ReadFile(filepath.Join(out, constants.RelationID2NameFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n    \""))
}

func TestRunTokenTruncation(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	firstRunes := truncation.TokenizerFunc(func(_ context.Context, text string, n int) (string, error) {
		r := []rune(text)
		if len(r) > n {
			r = r[:n]
		}
		return string(r), nil
	})

	res, err := Run(context.Background(), Options{
		Dataset:    wn18rr.Dataset{},
		RawDir:     writeWN18RR(t),
		OutDir:     t.TempDir(),
		Tokenizer:  firstRunes,
		MaxTokens:  4,
		SkipSplits: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "a si", res.Graph.EntityDescriptions["01"])
	assert.Equal(t, "derivationally related form", res.Graph.RelationNames["_derivationally_related_form"])
	assert.Equal(t, TruncateTokens, res.Manifest.Truncation)
	assert.Equal(t, 4, res.Manifest.MaxTokens)
	captured.AssertContains(t, "Token truncation progress")
}

func TestRunNFC(t *testing.T) {
	logging.DisableLoggingForTest(t)
	raw := writeWN18RR(t)
	require.NoError(t, os.WriteFile(filepath.Join(raw, wn18rr.DefinitionsFile),
		[]byte("01\t__cafe\u0301_NN_1\ta cafe\u0301 table\n"), 0o600))

	res, err := Run(context.Background(), Options{
		Dataset:    wn18rr.Dataset{},
		RawDir:     raw,
		OutDir:     t.TempDir(),
		SkipSplits: true,
		NFC:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", res.Graph.EntityNames["01"])
	assert.Equal(t, "a caf\u00e9 table", res.Graph.EntityDescriptions["01"])
	assert.Empty(t, res.Manifest.Variant)
}

func TestRunTokenizerFailure(t *testing.T) {
	logging.DisableLoggingForTest(t)
	failing := truncation.TokenizerFunc(func(context.Context, string, int) (string, error) {
		return "", errors.New("quota exceeded")
	})
	out := filepath.Join(t.TempDir(), "out")

	_, err := Run(context.Background(), Options{
		Dataset:   wn18rr.Dataset{},
		RawDir:    writeWN18RR(t),
		OutDir:    out,
		Tokenizer: failing,
	})
	assert.True(t, errors.IsTokenizerError(err))
	assert.NoDirExists(t, out)
}

func TestRunMissingInputWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	_, err := Run(context.Background(), Options{
		Dataset: wn18rr.Dataset{},
		RawDir:  t.TempDir(),
		OutDir:  out,
	})
	assert.True(t, errors.IsMissingFile(err))
	assert.NoDirExists(t, out)
}

func TestRunValidatesOptions(t *testing.T) {
	tests := []Options{
		{},
		{Dataset: wn18rr.Dataset{}},
		{Dataset: wn18rr.Dataset{}, RawDir: "raw"},
		{Dataset: wn18rr.Dataset{}, RawDir: "raw", OutDir: "out", MaxTokens: -1},
	}
	for _, opts := range tests {
		_, err := Run(context.Background(), opts)
		assert.True(t, errors.IsValidationError(err))
	}
}

func TestSaveAndLoadFolder(t *testing.T) {
	dir := t.TempDir()
	g := &kg.TextualKG{
		EntityNames:        kg.Mapping{"Q1": "universe"},
		EntityDescriptions: kg.Mapping{"Q2": "Zürich"},
		RelationNames:      kg.Mapping{"P31": "instance of"},
	}
	require.NoError(t, SaveFolder(g, dir, 0))

	loaded, err := LoadFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, g.EntityNames, loaded.EntityNames)
	assert.Equal(t, g.EntityDescriptions, loaded.EntityDescriptions)
	assert.Equal(t, g.RelationNames, loaded.RelationNames)
	assert.Equal(t, []string{"Q1", "Q2"}, loaded.EntityIDs)

	require.NoError(t, os.Remove(filepath.Join(dir, constants.EntityIDsFile)))
	loaded, err = LoadFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, loaded.EntityIDs)
}

func TestLoadFolderMissingMapping(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, save.Mapping(kg.Mapping{}, save.WithPath(filepath.Join(dir, constants.EntityID2NameFile))))

	_, err := LoadFolder(dir)
	assert.True(t, errors.IsMissingFile(err))
}
