// Package fb15k237 loads the Freebase-derived FB15k-237 dataset.
package fb15k237

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
)

// Raw file names.
const (
	NamesFile        = "FB15k_mid2name.txt"
	DescriptionsFile = "FB15k_mid2description.txt"
	RelationsFile    = "relations.dict"
)

func init() {
	datasets.Register(Dataset{})
}

var (
	_ datasets.Dataset    = Dataset{}
	_ datasets.FileLoader = Dataset{}
	_ datasets.Repository = Dataset{}
)

// Dataset implements datasets.Dataset for FB15k-237.
type Dataset struct{}

// Name returns "fb15k237".
func (Dataset) Name() string { return "fb15k237" }

// Description returns a one-line summary.
func (Dataset) Description() string {
	return "Freebase subset without inverse-relation leakage (14,541 entities, 237 relations)"
}

// SplitFile returns <dir>/<split>.txt.
func (Dataset) SplitFile(dir, split string) string {
	return filepath.Join(dir, split+".txt")
}

// Files lists the raw files in the SimKGC repository.
func (Dataset) Files() []datasets.File {
	base := constants.SimKGCRawURL + "/FB15k237/"
	names := []string{NamesFile, DescriptionsFile, RelationsFile, "train.txt", "valid.txt", "test.txt"}
	files := make([]datasets.File, 0, len(names))
	for _, name := range names {
		files = append(files, datasets.File{Name: name, URL: base + name})
	}
	return files
}

// Load reads the name, description and relation files from dir.
func (Dataset) Load(ctx context.Context, dir string) (*kg.TextualKG, error) {
	ctx = logging.WithDataset(ctx, "fb15k237")

	names, err := EntityNames(ctx, filepath.Join(dir, NamesFile))
	if err != nil {
		return nil, err
	}
	descs, err := EntityDescriptions(ctx, filepath.Join(dir, DescriptionsFile))
	if err != nil {
		return nil, err
	}
	relations, err := RelationNames(ctx, filepath.Join(dir, RelationsFile))
	if err != nil {
		return nil, err
	}

	return &kg.TextualKG{
		EntityNames:        names,
		EntityDescriptions: descs,
		RelationNames:      relations,
		EntityIDs:          datasets.EntityIDs(names, descs),
	}, nil
}

func readPairs(ctx context.Context, path, role string) (kg.Mapping, error) {
	m := kg.Mapping{}
	stats, err := tsv.Read(ctx, path, 2, func(r tsv.Row) error {
		m[r.Fields[0]] = r.Fields[1]
		return nil
	}, tsv.WithRole(role))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("file", path).
		Int("entries", len(m)).
		Int("skipped", stats.Skipped).
		Msg("Loaded mapping")
	return m, nil
}

// EntityNames reads FB15k_mid2name.txt (mid, name).
func EntityNames(ctx context.Context, path string) (kg.Mapping, error) {
	return readPairs(ctx, path, "entity names file")
}

// EntityDescriptions reads FB15k_mid2description.txt (mid, description).
func EntityDescriptions(ctx context.Context, path string) (kg.Mapping, error) {
	return readPairs(ctx, path, "entity descriptions file")
}

// RelationName turns a Freebase relation path into words:
// the leading "/" is dropped and the remaining "/" become spaces.
//
//	"/film/film/genre" -> "film film genre"
func RelationName(path string) string {
	if !strings.HasPrefix(path, "/") {
		return path
	}
	return strings.ReplaceAll(path[1:], "/", " ")
}

// RelationNames reads relations.dict (index, relation path) and maps each
// relation path to its readable name. A short row fails the read.
func RelationNames(ctx context.Context, path string) (kg.Mapping, error) {
	relations := kg.Mapping{}
	_, err := tsv.ReadStrict(ctx, path, 2, func(r tsv.Row) error {
		relations[r.Fields[1]] = RelationName(r.Fields[1])
		return nil
	}, tsv.WithRole("relations file"))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().Int("relations", len(relations)).Msg("Loaded relation names")
	return relations, nil
}

// Repository returns the SimKGC repository and its FB15k-237 directory.
func (Dataset) Repository() (string, string) {
	return constants.SimKGCRepoURL, "data/FB15k237"
}

// EntityFiles returns the names file followed by the descriptions file.
func (Dataset) EntityFiles() []string {
	return []string{NamesFile, DescriptionsFile}
}

// LoadEntities reads names and descriptions from the two entity files.
func (d Dataset) LoadEntities(ctx context.Context, paths ...string) (kg.Mapping, kg.Mapping, error) {
	if err := datasets.CheckPaths(paths, d.EntityFiles()); err != nil {
		return nil, nil, err
	}
	ctx = logging.WithDataset(ctx, "fb15k237")

	names, err := EntityNames(ctx, paths[0])
	if err != nil {
		return nil, nil, err
	}
	descs, err := EntityDescriptions(ctx, paths[1])
	if err != nil {
		return nil, nil, err
	}
	return names, descs, nil
}

// LoadRelations reads the relations file.
func (Dataset) LoadRelations(ctx context.Context, path string) (kg.Mapping, error) {
	return RelationNames(logging.WithDataset(ctx, "fb15k237"), path)
}
