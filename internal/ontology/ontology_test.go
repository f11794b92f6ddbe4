package ontology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, def := range Sections {
		sum += def.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Sections {
		require.False(t, seen[def.Name], "duplicate section name %s", def.Name)
		seen[def.Name] = true
	}
}

func TestWeightsInRange(t *testing.T) {
	for _, def := range Sections {
		assert.Greater(t, def.Weight, 0.0, def.Name)
		assert.LessOrEqual(t, def.Weight, 1.0, def.Name)
	}
}

func TestLookup(t *testing.T) {
	def := Lookup("FINANCIALS")
	require.NotNil(t, def)
	assert.Equal(t, "Financials", def.Label)
	assert.True(t, def.Mandatory)
	assert.False(t, math.Signbit(def.Weight))

	// case-insensitive label fallback
	def = Lookup("technical specifications")
	require.NotNil(t, def)
	assert.Equal(t, "TECHNICAL_SPECS", def.Name)

	assert.Nil(t, Lookup("APPENDIX"))
}

func TestMandatory(t *testing.T) {
	mandatory := Mandatory()
	require.Len(t, mandatory, 5)
	for _, def := range mandatory {
		assert.True(t, def.Mandatory)
		assert.NotEqual(t, "RISKS", def.Name)
	}
}
