// Package truncation shortens entity descriptions and relation names to
// dataset-specific limits.
//
// Word truncation splits on runs of whitespace and keeps the first N words.
// It needs no model and is the path that reproduces published dataset files.
// Token truncation goes through a Tokenizer and is opt-in.
package truncation

import (
	"sort"
	"strings"
	"sync"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
)

// Kind selects which half of a dataset's limits applies.
type Kind string

// Content kinds.
const (
	KindEntity   Kind = "entity"
	KindRelation Kind = "relation"
)

// ParseKind normalizes s to a Kind. It reports false for anything other
// than entity or relation.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindEntity:
		return KindEntity, true
	case KindRelation:
		return KindRelation, true
	}
	return "", false
}

// Limits holds the word limits of one dataset.
type Limits struct {
	Entity   int `json:"entity" yaml:"entity" mapstructure:"entity"`
	Relation int `json:"relation" yaml:"relation" mapstructure:"relation"`
}

// For returns the limit for kind and whether kind is known.
func (l Limits) For(kind Kind) (int, bool) {
	switch kind {
	case KindEntity:
		return l.Entity, true
	case KindRelation:
		return l.Relation, true
	}
	return 0, false
}

// Policy maps dataset names to limits. Dataset names are case-insensitive.
// A Policy is safe for concurrent use.
type Policy struct {
	mu     sync.RWMutex
	limits map[string]Limits
}

// Builtin returns the limits shipped for the supported datasets.
func Builtin() map[string]Limits {
	return map[string]Limits{
		"wn18rr":     {Entity: 50, Relation: 30},
		"fb15k237":   {Entity: 50, Relation: 10},
		"wikidata5m": {Entity: 50, Relation: 30},
	}
}

// New returns a policy seeded with the built-in datasets.
func New() *Policy {
	return &Policy{limits: Builtin()}
}

func normalize(dataset string) string {
	return strings.ToLower(strings.TrimSpace(dataset))
}

// LimitFor returns the registered limit for dataset and kind, or fallback
// when either is empty, the dataset is unknown, or the kind is unknown.
// It never fails.
func (p *Policy) LimitFor(dataset, kind string, fallback int) int {
	k, ok := ParseKind(kind)
	if !ok {
		return fallback
	}

	p.mu.RLock()
	limits, ok := p.limits[normalize(dataset)]
	p.mu.RUnlock()
	if !ok {
		return fallback
	}

	limit, _ := limits.For(k)
	return limit
}

// Limit is LimitFor with the default word limit as fallback.
func (p *Policy) Limit(dataset, kind string) int {
	return p.LimitFor(dataset, kind, constants.DefaultWordLimit)
}

// Register adds or replaces the limits of a dataset.
func (p *Policy) Register(dataset string, entity, relation int) error {
	name := normalize(dataset)
	if name == "" {
		return errors.NewConfigError("truncation", "dataset name must not be empty", nil)
	}
	if entity <= 0 || relation <= 0 {
		return errors.NewConfigError("truncation",
			"limits for "+name+" must be positive", &errors.ValidationError{
				Field:   "limits",
				Value:   Limits{Entity: entity, Relation: relation},
				Message: "must be greater than zero",
			})
	}

	p.mu.Lock()
	p.limits[name] = Limits{Entity: entity, Relation: relation}
	p.mu.Unlock()
	return nil
}

// Datasets returns the registered dataset names in sorted order.
func (p *Policy) Datasets() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.limits))
	for name := range p.limits {
		names = append(names, name)
	}
	p.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Config returns a copy of the limits registered for dataset.
func (p *Policy) Config(dataset string) (Limits, error) {
	p.mu.RLock()
	limits, ok := p.limits[normalize(dataset)]
	p.mu.RUnlock()
	if !ok {
		return Limits{}, errors.NewNotFoundError("dataset", dataset)
	}
	return limits, nil
}
