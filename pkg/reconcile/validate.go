package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/textkgc/pkg/kg"
)

// Report counts the inconsistencies between a name and a description mapping.
type Report struct {
	Names               int `json:"names" yaml:"names"`
	Descriptions        int `json:"descriptions" yaml:"descriptions"`
	EmptyNames          int `json:"empty_names" yaml:"empty_names"`
	EmptyDescriptions   int `json:"empty_descriptions" yaml:"empty_descriptions"`
	MissingNames        int `json:"missing_names" yaml:"missing_names"`
	MissingDescriptions int `json:"missing_descriptions" yaml:"missing_descriptions"`
}

// Valid reports whether no issue was found.
func (r Report) Valid() bool {
	return len(r.Issues()) == 0
}

// Issues renders the non-zero counts as messages, in a fixed order.
func (r Report) Issues() []string {
	issues := []string{}
	if r.EmptyNames > 0 {
		issues = append(issues, fmt.Sprintf("Found %d entities with empty names", r.EmptyNames))
	}
	if r.EmptyDescriptions > 0 {
		issues = append(issues, fmt.Sprintf("Found %d entities with empty descriptions", r.EmptyDescriptions))
	}
	if r.MissingNames > 0 {
		issues = append(issues, fmt.Sprintf("Found %d entities with descriptions but no names", r.MissingNames))
	}
	if r.MissingDescriptions > 0 {
		issues = append(issues, fmt.Sprintf("Found %d entities with names but no descriptions", r.MissingDescriptions))
	}
	return issues
}

// Inspect counts blank values (empty or whitespace-only) and IDs present
// in only one of the mappings.
func Inspect(names, descriptions kg.Mapping) Report {
	r := Report{Names: len(names), Descriptions: len(descriptions)}
	for id, name := range names {
		if strings.TrimSpace(name) == "" {
			r.EmptyNames++
		}
		if !descriptions.Has(id) {
			r.MissingDescriptions++
		}
	}
	for id, desc := range descriptions {
		if strings.TrimSpace(desc) == "" {
			r.EmptyDescriptions++
		}
		if !names.Has(id) {
			r.MissingNames++
		}
	}
	return r
}

// Validate reports whether the mappings are consistent, with one message
// per kind of problem found.
func Validate(names, descriptions kg.Mapping) (bool, []string) {
	issues := Inspect(names, descriptions).Issues()
	return len(issues) == 0, issues
}
