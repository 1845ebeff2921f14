package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-kids-nutrition/internal/models"
)

func TestDefault_TableOrder(t *testing.T) {
	kb := Default()

	var ids []string
	for _, n := range kb.Nutrients() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"protein", "calcium", "iron", "vitamin_c", "fiber"}, ids)

	var groups []string
	for _, g := range kb.FoodGroups() {
		groups = append(groups, g.Category)
	}
	assert.Equal(t, []string{"fruits", "vegetables", "proteins", "grains", "dairy"}, groups)
}

func TestNutrients_ReturnsCopy(t *testing.T) {
	kb := Default()
	n := kb.Nutrients()
	n[0].Sources[0] = "changed"
	n[0].ID = "changed"

	fresh := kb.Nutrients()
	assert.Equal(t, "protein", fresh[0].ID)
	assert.NotEqual(t, "changed", fresh[0].Sources[0])
}

func TestLookupFood(t *testing.T) {
	kb := Default()

	f, ok := kb.LookupFood("  BroCColi ")
	require.True(t, ok)
	assert.Equal(t, "broccoli", f.Food)
	assert.Equal(t, "34 per 100g", f.Calories)

	_, ok = kb.LookupFood("kale")
	assert.False(t, ok)

	assert.Equal(t, []string{"apple", "broccoli", "chicken", "yogurt"}, kb.KnownFoods())
}

func TestMealPlan(t *testing.T) {
	kb := Default()

	p, ok := kb.MealPlan("Preschool")
	require.True(t, ok)
	assert.Equal(t, models.AgePreschool, p.AgeGroup)
	assert.Contains(t, p.Lunch, "Turkey sandwich")

	_, ok = kb.MealPlan("teen")
	assert.False(t, ok)

	assert.Equal(t, []string{"preschool", "school_age", "toddler"}, kb.MealPlanGroups())
}

func TestCannedResponses(t *testing.T) {
	for _, key := range []string{"breakfast", "snack", "vegetables", "default"} {
		text, ok := Default().CannedResponse(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, text, key)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("nutrients: ["))
	assert.Error(t, err)

	_, err = Parse([]byte("food_groups:\n  - category: fruits\n"))
	assert.ErrorContains(t, err, "no nutrients")

	_, err = Parse([]byte("nutrients:\n  - benefits: x\nfood_groups:\n  - category: fruits\n"))
	assert.ErrorContains(t, err, "no id")
}
