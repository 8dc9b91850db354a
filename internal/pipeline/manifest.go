package pipeline

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Manifest records what a pipeline run produced.
type Manifest struct {
	RunID      string                 `yaml:"run_id" json:"run_id"`
	Dataset    string                 `yaml:"dataset" json:"dataset"`
	Variant    string                 `yaml:"variant,omitempty" json:"variant,omitempty"`
	RawDir     string                 `yaml:"raw_dir" json:"raw_dir"`
	OutDir     string                 `yaml:"out_dir" json:"out_dir"`
	StartedAt  utc.Time               `yaml:"started_at" json:"started_at"`
	FinishedAt utc.Time               `yaml:"finished_at" json:"finished_at"`
	Fill       string                 `yaml:"fill" json:"fill"`
	Truncation string                 `yaml:"truncation" json:"truncation"`
	Limits     truncation.Limits      `yaml:"limits" json:"limits"`
	MaxTokens  int                    `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Entities   int                    `yaml:"entities" json:"entities"`
	Relations  int                    `yaml:"relations" json:"relations"`
	Issues     []string               `yaml:"issues" json:"issues"`
	Splits     []datasets.SplitResult `yaml:"splits" json:"splits"`
}

// Write stores the manifest as manifest.yaml in dir.
func (m *Manifest) Write(dir string) error {
	data, err := yaml.MarshalWithOptions(m, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return errors.WrapParse("yaml", constants.ManifestFile, err)
	}
	path := filepath.Join(dir, constants.ManifestFile)
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}

// ReadManifest loads manifest.yaml from dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, constants.ManifestFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the caller's directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError("manifest", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}
