package explain

import (
	"strings"

	"mcp-kids-nutrition/internal/models"
)

const (
	nutrientWeight = 0.3
	nutrientTarget = 3
	foodWeight     = 0.3
	foodTarget     = 5
	portionWeight  = 0.2
	ageSpecific    = 0.2
	ageUnspecific  = 0.1 // the age component never drops to zero
	minConfidence  = ageUnspecific
	maxConfidence  = nutrientWeight + foodWeight + portionWeight + ageSpecific
)

var ageKeywords = []string{"year", "old", "toddler", "child", "teen"}

// scoreConfidence computes the four components from a scan of the response.
// The total is always within [0.1, 1.0].
func scoreConfidence(m Matches, lower string) models.ConfidenceBreakdown {
	b := models.ConfidenceBreakdown{
		NutrientSpecificity: min(float64(m.ExplicitNutrients())/nutrientTarget, 1.0) * nutrientWeight,
		FoodVariety:         min(float64(m.DistinctFoods())/foodTarget, 1.0) * foodWeight,
		AgeSpecificity:      ageUnspecific,
	}
	if hasPortionGuidance(lower) {
		b.PortionGuidance = portionWeight
	}
	if containsAny(lower, ageKeywords...) {
		b.AgeSpecificity = ageSpecific
	}
	return b
}

// Confidence scores a response. The question does not currently contribute.
func (e *Explainer) Confidence(question, response string) models.ConfidenceBreakdown {
	return scoreConfidence(e.matcher.Scan(response), strings.ToLower(response))
}
