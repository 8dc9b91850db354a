// Package wikidata5m loads the Wikidata5M dataset. Its alias files carry
// several tab-separated names per ID; the first one is used.
package wikidata5m

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
)

// Raw file names.
const (
	EntityFile   = "wikidata5m_entity.txt"
	TextFile     = "wikidata5m_text.txt"
	RelationFile = "wikidata5m_relation.txt"
)

// Split layouts.
const (
	Transductive = "transductive"
	Inductive    = "inductive"
)

func init() {
	datasets.Register(Dataset{})
}

var (
	_ datasets.Dataset    = Dataset{}
	_ datasets.FileLoader = Dataset{}
	_ datasets.Variants   = Dataset{}
)

// Dataset implements datasets.Dataset for Wikidata5M.
type Dataset struct {
	// Layout is Transductive or Inductive. Empty means Transductive.
	Layout string
}

// Name returns "wikidata5m".
func (Dataset) Name() string { return "wikidata5m" }

// Description returns a one-line summary.
func (Dataset) Description() string {
	return "Wikidata with Wikipedia abstracts (4.6M entities, 822 relations)"
}

// Variant returns the split layout in use.
func (d Dataset) Variant() string {
	if d.Layout == "" {
		return Transductive
	}
	return d.Layout
}

// Variants returns Transductive and Inductive.
func (Dataset) Variants() []string {
	return []string{Transductive, Inductive}
}

// WithVariant returns the dataset reading the named split layout.
func (d Dataset) WithVariant(name string) (datasets.Dataset, error) {
	switch layout := strings.ToLower(strings.TrimSpace(name)); layout {
	case Transductive, Inductive:
		d.Layout = layout
		return d, nil
	default:
		return nil, errors.NewValidationError("variant", name, "must be transductive or inductive")
	}
}

// SplitFile returns <dir>/<split>.txt when present and the archive name
// of the selected layout otherwise, e.g. wikidata5m_inductive_train.txt.
func (d Dataset) SplitFile(dir, split string) string {
	plain := filepath.Join(dir, split+".txt")
	if _, err := os.Stat(plain); err == nil {
		return plain
	}
	return filepath.Join(dir, "wikidata5m_"+d.Variant()+"_"+split+".txt")
}

// Files lists the archives published on Hugging Face.
func (Dataset) Files() []datasets.File {
	base := constants.Wikidata5MURL + "/"
	names := []string{
		"wikidata5m_text.txt.gz",
		"wikidata5m_transductive.tar.gz",
		"wikidata5m_inductive.tar.gz",
		"wikidata5m_alias.tar.gz",
	}
	files := make([]datasets.File, 0, len(names))
	for _, name := range names {
		files = append(files, datasets.File{Name: name, URL: base + name, Extract: true})
	}
	return files
}

// Load reads the entity alias, text and relation alias files from dir.
func (Dataset) Load(ctx context.Context, dir string) (*kg.TextualKG, error) {
	ctx = logging.WithDataset(ctx, "wikidata5m")

	names, err := EntityNames(ctx, filepath.Join(dir, EntityFile))
	if err != nil {
		return nil, err
	}
	descs, err := EntityDescriptions(ctx, filepath.Join(dir, TextFile))
	if err != nil {
		return nil, err
	}
	relations, err := RelationNames(ctx, filepath.Join(dir, RelationFile))
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

// firstValue maps column 1 to column 2 of every row. A later row for the
// same ID replaces an earlier one.
func firstValue(ctx context.Context, path, role string) (kg.Mapping, error) {
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

// EntityNames reads wikidata5m_entity.txt (QID, alias, alias...).
func EntityNames(ctx context.Context, path string) (kg.Mapping, error) {
	return firstValue(ctx, path, "entity names file")
}

// EntityDescriptions reads wikidata5m_text.txt (QID, abstract).
func EntityDescriptions(ctx context.Context, path string) (kg.Mapping, error) {
	return firstValue(ctx, path, "entity descriptions file")
}

// RelationNames reads wikidata5m_relation.txt (PID, alias, alias...).
func RelationNames(ctx context.Context, path string) (kg.Mapping, error) {
	return firstValue(ctx, path, "relations file")
}

// EntityFiles returns the names file followed by the descriptions file.
func (Dataset) EntityFiles() []string {
	return []string{EntityFile, TextFile}
}

// LoadEntities reads names and descriptions from the two entity files.
func (d Dataset) LoadEntities(ctx context.Context, paths ...string) (kg.Mapping, kg.Mapping, error) {
	if err := datasets.CheckPaths(paths, d.EntityFiles()); err != nil {
		return nil, nil, err
	}
	ctx = logging.WithDataset(ctx, "wikidata5m")

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
	return RelationNames(logging.WithDataset(ctx, "wikidata5m"), path)
}
