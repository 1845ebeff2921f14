package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-kids-nutrition/internal/knowledge"
)

const portionedBreakfast = "Serve 1 cup of oats with an apple, broccoli and eggs for protein and fiber."

func TestConfidence_Components(t *testing.T) {
	e := New(knowledge.Default())
	b := e.Confidence("", portionedBreakfast)

	assert.InDelta(t, 0.2, b.NutrientSpecificity, 1e-9) // protein, fiber: min(2/3, 1) * 0.3
	assert.InDelta(t, 0.24, b.FoodVariety, 1e-9)        // four foods: min(4/5, 1) * 0.3
	assert.Equal(t, 0.2, b.PortionGuidance)
	assert.Equal(t, 0.1, b.AgeSpecificity)
	assert.InDelta(t, 0.2+0.24+0.2+0.1, b.Total(), 1e-9)
}

func TestConfidence_AgeSpecificResponse(t *testing.T) {
	e := New(knowledge.Default())
	b := e.Confidence("", portionedBreakfast+" Good for your 4 year old child.")

	assert.Equal(t, 0.2, b.AgeSpecificity)
	assert.InDelta(t, 0.84, b.Total(), 1e-9)
}

func TestConfidence_Floor(t *testing.T) {
	e := New(knowledge.Default())
	b := e.Confidence("", "")

	assert.Equal(t, 0.0, b.NutrientSpecificity)
	assert.Equal(t, 0.0, b.FoodVariety)
	assert.Equal(t, 0.0, b.PortionGuidance)
	assert.InDelta(t, minConfidence, b.Total(), 1e-12)
}

func TestConfidence_Saturates(t *testing.T) {
	e := New(knowledge.Default())
	response := "Protein, calcium, iron, vitamin c and fiber from apple, banana, rice, bread, " +
		"milk, chicken and carrots. One serving per child."
	b := e.Confidence("", response)

	assert.InDelta(t, 0.3, b.NutrientSpecificity, 1e-12)
	assert.InDelta(t, 0.3, b.FoodVariety, 1e-12)
	assert.InDelta(t, maxConfidence, b.Total(), 1e-9)
}

func TestConfidence_Bounds(t *testing.T) {
	e := New(knowledge.Default())
	responses := []string{
		"",
		"...",
		"Sorry, I encountered an error: upstream unavailable.",
		portionedBreakfast,
		"cupcakes for a teen",
		"PROTEIN PROTEIN PROTEIN",
	}
	for _, r := range responses {
		total := e.Confidence("", r).Total()
		assert.GreaterOrEqual(t, total, 0.1-1e-12, r)
		assert.LessOrEqual(t, total, 1.0+1e-12, r)
	}
}
