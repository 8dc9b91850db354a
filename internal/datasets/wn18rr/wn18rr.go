// Package wn18rr loads the WordNet-derived WN18RR dataset as distributed
// with SimKGC.
package wn18rr

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
	DefinitionsFile = "wordnet-mlj12-definitions.txt"
	RelationsFile   = "relations.dict"
)

func init() {
	datasets.Register(Dataset{})
}

var (
	_ datasets.Dataset    = Dataset{}
	_ datasets.FileLoader = Dataset{}
	_ datasets.Repository = Dataset{}
)

// Dataset implements datasets.Dataset for WN18RR.
type Dataset struct{}

// Name returns "wn18rr".
func (Dataset) Name() string { return "wn18rr" }

// Description returns a one-line summary.
func (Dataset) Description() string {
	return "WordNet subset with inverse relations removed (40,943 entities, 11 relations)"
}

// SplitFile returns <dir>/<split>.txt.
func (Dataset) SplitFile(dir, split string) string {
	return filepath.Join(dir, split+".txt")
}

// Files lists the raw files in the SimKGC repository.
func (Dataset) Files() []datasets.File {
	base := constants.SimKGCRawURL + "/WN18RR/"
	names := []string{DefinitionsFile, RelationsFile, "train.txt", "valid.txt", "test.txt"}
	files := make([]datasets.File, 0, len(names))
	for _, name := range names {
		files = append(files, datasets.File{Name: name, URL: base + name})
	}
	return files
}

// Load reads the definitions and relations files from dir.
func (Dataset) Load(ctx context.Context, dir string) (*kg.TextualKG, error) {
	ctx = logging.WithDataset(ctx, "wn18rr")
	definitions := filepath.Join(dir, DefinitionsFile)

	names, descs, err := Definitions(ctx, definitions)
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

// CleanEntityName turns a raw WordNet name into plain words: every "__" is
// removed, the rest is split on "_", the trailing part-of-speech tag and
// sense number are dropped, and the remainder is joined with spaces.
//
//	"__stool_NN_2" -> "stool"
//	"__take_a_breath_VB_1" -> "take a breath"
func CleanEntityName(raw string) string {
	parts := strings.Split(strings.ReplaceAll(raw, "__", ""), "_")
	if len(parts) <= 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(parts[:len(parts)-2], " "))
}

// Definitions reads wordnet-mlj12-definitions.txt once and returns both
// the cleaned names and the descriptions.
func Definitions(ctx context.Context, path string) (kg.Mapping, kg.Mapping, error) {
	names := kg.Mapping{}
	descs := kg.Mapping{}
	stats, err := tsv.Read(ctx, path, 3, func(r tsv.Row) error {
		names[r.Fields[0]] = CleanEntityName(r.Fields[1])
		descs[r.Fields[0]] = r.Fields[2]
		return nil
	}, tsv.WithRole("definitions file"))
	if err != nil {
		return nil, nil, err
	}

	logging.FromContext(ctx).Info().
		Int("entities", len(names)).
		Int("skipped", stats.Skipped).
		Msg("Loaded entity definitions")
	return names, descs, nil
}

// EntityNames returns entity ID to cleaned name.
func EntityNames(ctx context.Context, definitions string) (kg.Mapping, error) {
	names, _, err := Definitions(ctx, definitions)
	return names, err
}

// EntityDescriptions returns entity ID to definition text.
func EntityDescriptions(ctx context.Context, definitions string) (kg.Mapping, error) {
	_, descs, err := Definitions(ctx, definitions)
	return descs, err
}

// RelationNames reads relations.dict (index, identifier) and maps each
// identifier to itself with underscores replaced by spaces. The file is
// an index, so a short row fails the read.
func RelationNames(ctx context.Context, path string) (kg.Mapping, error) {
	relations := kg.Mapping{}
	_, err := tsv.ReadStrict(ctx, path, 2, func(r tsv.Row) error {
		id := r.Fields[1]
		relations[id] = strings.TrimSpace(strings.ReplaceAll(id, "_", " "))
		return nil
	}, tsv.WithRole("relations file"))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().Int("relations", len(relations)).Msg("Loaded relation names")
	return relations, nil
}

// Repository returns the SimKGC repository and its WN18RR directory.
func (Dataset) Repository() (string, string) {
	return constants.SimKGCRepoURL, "data/WN18RR"
}

// EntityFiles returns the single definitions file.
func (Dataset) EntityFiles() []string {
	return []string{DefinitionsFile}
}

// LoadEntities reads names and descriptions from a definitions file.
func (d Dataset) LoadEntities(ctx context.Context, paths ...string) (kg.Mapping, kg.Mapping, error) {
	if err := datasets.CheckPaths(paths, d.EntityFiles()); err != nil {
		return nil, nil, err
	}
	return Definitions(logging.WithDataset(ctx, "wn18rr"), paths[0])
}

// LoadRelations reads relations.dict.
func (Dataset) LoadRelations(ctx context.Context, path string) (kg.Mapping, error) {
	return RelationNames(logging.WithDataset(ctx, "wn18rr"), path)
}
