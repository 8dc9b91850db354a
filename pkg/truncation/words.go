package truncation

import (
	"strings"

	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

// Words keeps the first maxWords whitespace-separated words of text,
// joined by single spaces. Blank text and maxWords <= 0 yield "".
func Words(text string, maxWords int) string {
	return WordsPreserving(text, maxWords, true)
}

// WordsPreserving is Words with control over blank input: when
// preserveEmpty is false, blank text is returned unchanged.
func WordsPreserving(text string, maxWords int, preserveEmpty bool) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		if preserveEmpty {
			return ""
		}
		return text
	}
	if maxWords <= 0 {
		return ""
	}
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}

// Mapping truncates every value of m by words. The limit is the policy's
// entry for dataset and kind, or maxWords when there is none.
// m is not modified.
func (p *Policy) Mapping(m kg.Mapping, maxWords int, dataset, kind string) (kg.Mapping, error) {
	if maxWords < 0 {
		return nil, errors.NewValidationError("maxWords", maxWords, "must not be negative")
	}

	limit := p.LimitFor(dataset, kind, maxWords)
	out := make(kg.Mapping, len(m))
	for id, text := range m {
		out[id] = Words(text, limit)
	}
	return out, nil
}
