package pipeline

import (
	"os"
	"path/filepath"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/save"
)

// LoadFolder reads entity_id2name.json, entity_id2description.json and
// relation_id2name.json from dir. entity_ids.txt is read when present and
// derived from the mappings otherwise.
func LoadFolder(dir string) (*kg.TextualKG, error) {
	names, err := save.LoadMapping(filepath.Join(dir, constants.EntityID2NameFile))
	if err != nil {
		return nil, err
	}
	descs, err := save.LoadMapping(filepath.Join(dir, constants.EntityID2DescriptionFile))
	if err != nil {
		return nil, err
	}
	relations, err := save.LoadMapping(filepath.Join(dir, constants.RelationID2NameFile))
	if err != nil {
		return nil, err
	}

	g := &kg.TextualKG{
		EntityNames:        names,
		EntityDescriptions: descs,
		RelationNames:      relations,
	}

	idsPath := filepath.Join(dir, constants.EntityIDsFile)
	if _, statErr := os.Stat(idsPath); statErr == nil {
		if g.EntityIDs, err = save.LoadIDs(idsPath); err != nil {
			return nil, err
		}
	} else {
		g.EntityIDs = kg.Union(names, descs)
	}
	return g, nil
}

// SaveFolder writes the three mapping files and entity_ids.txt into dir.
// A zero indent uses the default.
func SaveFolder(g *kg.TextualKG, dir string, indent int) error {
	if indent <= 0 {
		indent = constants.DefaultJSONIndent
	}

	files := []struct {
		name string
		m    kg.Mapping
	}{
		{constants.EntityID2NameFile, g.EntityNames},
		{constants.EntityID2DescriptionFile, g.EntityDescriptions},
		{constants.RelationID2NameFile, g.RelationNames},
	}
	for _, f := range files {
		if err := save.Mapping(f.m, save.WithPath(filepath.Join(dir, f.name)), save.WithIndent(indent)); err != nil {
			return err
		}
	}

	ids := g.EntityIDs
	if ids == nil {
		ids = kg.Union(g.EntityNames, g.EntityDescriptions)
	}
	return save.IDs(ids, filepath.Join(dir, constants.EntityIDsFile))
}
