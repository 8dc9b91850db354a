package datasets

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/output"
	_ "github.com/agentstation/textkgc/internal/datasets/all"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/truncation"
)

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestListIncludesRegisteredDatasets(t *testing.T) {
	policy := truncation.New()
	require.NoError(t, policy.Register("custom", 20, 5))
	app := &application.Mock{
		PolicyFunc: func() (*truncation.Policy, error) { return policy, nil },
	}

	out, err := run(t, app, "list")
	require.NoError(t, err)

	var rows []output.DatasetRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, output.DatasetRow{Name: "custom", EntityLimit: 20, RelationLimit: 5}, rows[0])
	assert.Equal(t, "fb15k237", rows[1].Name)
	assert.Equal(t, 10, rows[1].RelationLimit)
	assert.True(t, rows[1].Loader)
}

func TestShow(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "table" }}

	out, err := run(t, app, "show", "WN18RR")
	require.NoError(t, err)
	assert.Contains(t, out, "30")

	_, err = run(t, app, "show", "nope")
	assert.True(t, errors.IsUnknownDataset(err))
}
