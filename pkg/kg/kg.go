// Package kg defines the in-memory shapes of a textual knowledge graph:
// ID-to-text mappings and the folder bundle produced by preprocessing.
package kg

import "sort"

// Mapping maps opaque, case-sensitive IDs to text.
// A missing ID is key absence; an empty value is a present but empty text.
type Mapping map[string]string

// Clone returns a shallow copy of m. A nil mapping clones to an empty one.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IDs returns the keys of m in sorted order.
func (m Mapping) IDs() []string {
	ids := make([]string, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id is present in m.
func (m Mapping) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// Union returns the sorted union of the keys of all mappings.
func Union(mappings ...Mapping) []string {
	seen := make(map[string]struct{})
	for _, m := range mappings {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for k := range seen {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}

// TextualKG is the processed form of a dataset as written to an output folder.
type TextualKG struct {
	EntityNames        Mapping
	EntityDescriptions Mapping
	RelationNames      Mapping
	EntityIDs          []string
}

// NumEntities returns the number of distinct entity IDs known to the graph.
func (t *TextualKG) NumEntities() int {
	if len(t.EntityIDs) > 0 {
		return len(t.EntityIDs)
	}
	return len(Union(t.EntityNames, t.EntityDescriptions))
}
