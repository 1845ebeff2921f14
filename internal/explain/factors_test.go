package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFactors_Occlusion(t *testing.T) {
	got := KeyFactors("What should a 2 year old eat?", "Offer eggs.", 10)

	assert.Equal(t, map[string]float64{
		"what":   0.5,
		"should": 0.5,
		"eat":    0.5,
		"year":   0.3,
		"2":      0.3,
	}, got)
}

func TestKeyFactors_Limit(t *testing.T) {
	got := KeyFactors("What should a 2 year old eat?", "Offer eggs.", 2)

	assert.Equal(t, map[string]float64{"eat": 0.5, "should": 0.5}, got)
}

func TestKeyFactors_Empty(t *testing.T) {
	assert.Empty(t, KeyFactors("", "", 10))
	assert.NotNil(t, KeyFactors("anything", "", 0))
	assert.Empty(t, KeyFactors("anything", "", 0))
}

func TestKeyFactors_OverlapCounts(t *testing.T) {
	got := KeyFactors("broccoli recipes", "Roast the broccoli.", 10)

	// Only overlap contributes: removing "broccoli" drops it from 0.1 to 0.
	assert.Equal(t, 0.1, got["broccoli"])
	assert.Equal(t, -0.1, got["recipes"])
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"my", "son", "doesn't", "like", "peas"}, tokenize("My son doesn't like peas!"))
}
