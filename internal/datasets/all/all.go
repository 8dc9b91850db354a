// Package all registers every supported dataset.
package all

import (
	// Import dataset implementations for side-effect registration
	_ "github.com/agentstation/textkgc/internal/datasets/fb15k237"
	_ "github.com/agentstation/textkgc/internal/datasets/wikidata5m"
	_ "github.com/agentstation/textkgc/internal/datasets/wn18rr"
)
