// Package datasets defines the raw-file loaders for the supported knowledge
// graphs and the helpers they share. Loaders live in subpackages and
// register themselves at init; import internal/datasets/all to get them all.
package datasets

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

// File is a remote artifact that makes up a raw dataset.
type File struct {
	// Name is the local file name inside the raw directory.
	Name string
	// URL is where the file is fetched from.
	URL string
	// Extract unpacks .gz or .tar.gz archives after download.
	Extract bool
}

// Dataset loads the raw files of one knowledge graph.
type Dataset interface {
	// Name is the policy key, e.g. "wn18rr".
	Name() string

	// Description is a one-line human-readable summary.
	Description() string

	// Load reads names, descriptions and relation names from a raw directory.
	Load(ctx context.Context, dir string) (*kg.TextualKG, error)

	// SplitFile returns the triplet file for a split inside dir.
	SplitFile(dir, split string) string

	// Files lists what a download fetches.
	Files() []File
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Dataset)
)

// Register makes a dataset available by name.
// It is called by dataset packages in their init() functions.
func Register(d Dataset) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(d.Name())] = d
}

// Get returns the dataset registered under name, ignoring case.
func Get(name string) (Dataset, error) {
	mu.RLock()
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("dataset", name)
	}
	return d, nil
}

// Names returns the registered dataset names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityIDs returns the sorted union of the IDs in names and descriptions.
func EntityIDs(names, descriptions kg.Mapping) []string {
	return kg.Union(names, descriptions)
}

// Combine picks the description of each entity, or its name when the
// description is empty or absent. The result covers the union of IDs.
func Combine(names, descriptions kg.Mapping) kg.Mapping {
	out := make(kg.Mapping, len(names))
	for _, id := range kg.Union(names, descriptions) {
		if desc := descriptions[id]; desc != "" {
			out[id] = desc
			continue
		}
		out[id] = names[id]
	}
	return out
}

// Repository is implemented by datasets that are also available as a
// directory inside a git repository.
type Repository interface {
	// Repository returns the clone URL and the dataset directory inside it.
	Repository() (url, subdir string)
}

// FileLoader is implemented by datasets whose mappings can be read from
// explicitly named raw files rather than a raw directory.
type FileLoader interface {
	// EntityFiles names the files LoadEntities expects, in order.
	EntityFiles() []string

	// LoadEntities reads entity names and descriptions.
	LoadEntities(ctx context.Context, paths ...string) (names, descriptions kg.Mapping, err error)

	// LoadRelations reads relation names.
	LoadRelations(ctx context.Context, path string) (kg.Mapping, error)
}

// Variants is implemented by datasets published in more than one split
// layout, such as the transductive and inductive Wikidata5M splits.
type Variants interface {
	// Variant is the layout SplitFile resolves to.
	Variant() string

	// Variants lists the accepted layouts, default first.
	Variants() []string

	// WithVariant returns a copy of the dataset using the named layout.
	WithVariant(name string) (Dataset, error)
}

// CheckPaths reports whether paths has one entry per expected file.
func CheckPaths(paths, expected []string) error {
	if len(paths) != len(expected) {
		return errors.NewValidationError("paths", paths,
			fmt.Sprintf("expected %d file(s): %s", len(expected), strings.Join(expected, ", ")))
	}
	return nil
}
