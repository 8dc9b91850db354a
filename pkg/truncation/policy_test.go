package truncation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/textkgc/pkg/errors"
)

func TestLimitFor(t *testing.T) {
	p := New()

	tests := []struct {
		name     string
		dataset  string
		kind     string
		fallback int
		want     int
	}{
		{"case insensitive dataset", "WN18RR", "entity", 50, 50},
		{"fb15k237 relation", "fb15k237", "relation", 50, 10},
		{"wikidata5m relation", "wikidata5m", "relation", 50, 30},
		{"case insensitive kind", "wn18rr", "RELATION", 50, 30},
		{"padded kind", "fb15k237", " relation ", 50, 10},
		{"padded dataset", " Wikidata5M ", "relation", 50, 30},
		{"unknown dataset", "unknown_ds", "entity", 7, 7},
		{"unknown kind", "wn18rr", "triple", 12, 12},
		{"missing dataset", "", "entity", 9, 9},
		{"missing kind", "wn18rr", "", 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.LimitFor(tt.dataset, tt.kind, tt.fallback))
		})
	}
}

func TestLimitDefaultsToFifty(t *testing.T) {
	p := New()
	assert.Equal(t, 50, p.Limit("nope", "entity"))
	assert.Equal(t, 10, p.Limit("FB15K237", "relation"))
}

func TestRegister(t *testing.T) {
	p := New()

	require.NoError(t, p.Register("MyKG", 20, 5))
	assert.Equal(t, 20, p.LimitFor("mykg", "entity", 50))
	assert.Equal(t, 5, p.LimitFor("MYKG", "relation", 50))

	require.NoError(t, p.Register("wn18rr", 40, 20))
	limits, err := p.Config("WN18RR")
	require.NoError(t, err)
	assert.Equal(t, Limits{Entity: 40, Relation: 20}, limits)
}

func TestRegisterRejectsInvalidLimits(t *testing.T) {
	p := New()

	tests := []struct {
		name     string
		dataset  string
		entity   int
		relation int
	}{
		{"zero entity", "x", 0, 5},
		{"negative relation", "x", 5, -1},
		{"empty name", "  ", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Register(tt.dataset, tt.entity, tt.relation)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidConfiguration(err))
		})
	}
	assert.Equal(t, []string{"fb15k237", "wikidata5m", "wn18rr"}, p.Datasets())
}

func TestConfigUnknownDataset(t *testing.T) {
	_, err := New().Config("codex")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownDataset(err))
	assert.True(t, errors.IsNotFound(err))
}

func TestConfigReturnsCopy(t *testing.T) {
	p := New()
	limits, err := p.Config("wn18rr")
	require.NoError(t, err)
	limits.Entity = 1
	assert.Equal(t, 50, p.Limit("wn18rr", "entity"))
}

func TestDatasets(t *testing.T) {
	p := New()
	assert.Equal(t, []string{"fb15k237", "wikidata5m", "wn18rr"}, p.Datasets())

	require.NoError(t, p.Register("b", 1, 1))
	require.NoError(t, p.Register("A", 1, 1))
	assert.Equal(t, []string{"a", "b", "fb15k237", "wikidata5m", "wn18rr"}, p.Datasets())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Entity ")
	assert.True(t, ok)
	assert.Equal(t, KindEntity, k)

	_, ok = ParseKind("edge")
	assert.False(t, ok)
}

func TestPolicyConcurrentAccess(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = p.Register("ds", i+1, i+1)
		}()
		go func() {
			defer wg.Done()
			_ = p.Limit("ds", "entity")
			_ = p.Datasets()
		}()
	}
	wg.Wait()

	assert.Contains(t, p.Datasets(), "ds")
}
