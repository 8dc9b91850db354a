package reconcile

// StrategyType identifies how missing entries are filled.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

const (
	// StrategyTypePlaceholder fills missing entries with a marker string.
	StrategyTypePlaceholder StrategyType = "placeholder"
	// StrategyTypeEmpty fills missing entries with the empty string.
	StrategyTypeEmpty StrategyType = "empty"
)

// Strategy decides the value written for an ID that exists in only one
// of the two mappings.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Fill returns the value for a missing entry
	Fill() string
}

// baseStrategy provides common strategy functionality.
type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

type placeholderStrategy struct {
	baseStrategy
	fill string
}

// Placeholder fills missing entries with fill, typically "-".
func Placeholder(fill string) Strategy {
	return &placeholderStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypePlaceholder,
			description: "Fill missing entries with " + `"` + fill + `"`,
		},
		fill: fill,
	}
}

// Fill returns the placeholder.
func (s *placeholderStrategy) Fill() string {
	return s.fill
}

type emptyStrategy struct {
	baseStrategy
}

// Empty fills missing entries with "".
func Empty() Strategy {
	return &emptyStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeEmpty,
			description: "Fill missing entries with the empty string",
		},
	}
}

// Fill returns "".
func (s *emptyStrategy) Fill() string {
	return ""
}

// ParseStrategy builds a strategy from a mode name as used on the command line.
func ParseStrategy(mode, placeholder string) (Strategy, bool) {
	switch StrategyType(mode) {
	case StrategyTypePlaceholder, "":
		return Placeholder(placeholder), true
	case StrategyTypeEmpty:
		return Empty(), true
	}
	return nil, false
}
