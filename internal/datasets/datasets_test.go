package datasets_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/internal/datasets"
	_ "github.com/agentstation/textkgc/internal/datasets/all"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
)

type fakeDataset struct{}

func (fakeDataset) Name() string { return "fake" }
func (fakeDataset) Description() string { return "test dataset" }
func (fakeDataset) Files() []datasets.File {
	return nil
}
func (fakeDataset) SplitFile(dir, split string) string {
	return filepath.Join(dir, split+".txt")
}
func (fakeDataset) Load(context.Context, string) (*kg.TextualKG, error) {
	return &kg.TextualKG{}, nil
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"fb15k237", "wikidata5m", "wn18rr"}, datasets.Names())

	d, err := datasets.Get("WN18RR")
	require.NoError(t, err)
	assert.Equal(t, "wn18rr", d.Name())

	_, err = datasets.Get("codex-m")
	assert.True(t, errors.IsUnknownDataset(err))
}

func TestEntityIDs(t *testing.T) {
	ids := datasets.EntityIDs(kg.Mapping{"b": "", "a": "x"}, kg.Mapping{"c": "y", "a": "z"})
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestCombine(t *testing.T) {
	names := kg.Mapping{"e1": "stool", "e2": "dog", "e3": "cat"}
	descs := kg.Mapping{"e1": "a seat", "e2": "", "e4": "only described"}

	assert.Equal(t, kg.Mapping{
		"e1": "a seat",
		"e2": "dog",
		"e3": "cat",
		"e4": "only described",
	}, datasets.Combine(names, descs))
}

func TestProcessSplits(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	raw := t.TempDir()
	out := filepath.Join(t.TempDir(), "processed")

	require.NoError(t, os.WriteFile(filepath.Join(raw, "train.txt"),
		[]byte("e1\tr1\te2\nbroken\ne2\tr2\te9\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "test.txt"),
		[]byte("e2\tr1\te1\n"), 0o600))

	entities := kg.Mapping{"e1": "first entity", "e2": "second"}
	relations := kg.Mapping{"r1": "hypernym"}

	results, err := datasets.ProcessSplits(context.Background(), fakeDataset{}, raw, out, entities, relations)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "train", results[0].Split)
	assert.Equal(t, 2, results[0].Rows)
	assert.Equal(t, 1, results[0].Skipped)
	assert.Equal(t, "test", results[1].Split)

	train, err := os.ReadFile(filepath.Join(out, "train_processed.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"e1\tr1\te2\tfirst entity\thypernym\tsecond\n"+
			"e2\tr2\te9\tsecond\t\t\n",
		string(train))

	_, err = os.Stat(filepath.Join(out, "valid_processed.txt"))
	assert.True(t, os.IsNotExist(err))
	captured.AssertContains(t, "Split file not found, skipping")
}
