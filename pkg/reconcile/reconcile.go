// Package reconcile makes an entity-name mapping and an entity-description
// mapping agree on their key sets, and reports where they disagree.
package reconcile

import (
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

// Reconcile returns copies of names and descriptions that both cover the
// union of their IDs. Existing values are kept verbatim, including empty
// ones; only absent IDs receive strategy.Fill(). The inputs are not modified.
func Reconcile(names, descriptions kg.Mapping, strategy Strategy) (kg.Mapping, kg.Mapping, error) {
	if strategy == nil {
		return nil, nil, &errors.ValidationError{
			Field:   "strategy",
			Message: "cannot be nil",
		}
	}

	fill := strategy.Fill()
	outNames := names.Clone()
	outDescs := descriptions.Clone()

	for id := range descriptions {
		if !names.Has(id) {
			outNames[id] = fill
		}
	}
	for id := range names {
		if !descriptions.Has(id) {
			outDescs[id] = fill
		}
	}
	return outNames, outDescs, nil
}
