package explain

import (
	"strings"

	"mcp-kids-nutrition/internal/models"
)

var portionKeywords = []string{"cup", "slice", "oz", "serving", "portion", "amount"}

var balanceRules = []struct {
	min        float64
	rating     models.BalanceRating
	assessment string
}{
	{80, models.BalanceExcellent, "Excellent - covers most food groups"},
	{60, models.BalanceGood, "Good - covers several food groups"},
	{40, models.BalanceFair, "Fair - could include more variety"},
}

// hasPortionGuidance is true when any portion word appears, including inside
// longer words ("cupcake" counts).
func hasPortionGuidance(lower string) bool {
	return containsAny(lower, portionKeywords...)
}

func analyzeNutrition(m Matches, categories int, lower string) models.NutritionalAnalysis {
	analysis := models.NutritionalAnalysis{
		MentionedNutrients: make([]models.MentionedNutrient, 0, len(m.Nutrients)),
		FoodGroupsCovered:  make([]models.CoveredFoodGroup, 0, len(m.Groups)),
		PortionGuidance:    hasPortionGuidance(lower),
	}

	for _, n := range m.Nutrients {
		analysis.MentionedNutrients = append(analysis.MentionedNutrients, models.MentionedNutrient{
			Nutrient:            n.Fact.ID,
			Benefits:            n.Fact.Benefits,
			MentionedExplicitly: n.Explicit,
		})
	}
	for _, g := range m.Groups {
		analysis.FoodGroupsCovered = append(analysis.FoodGroupsCovered, models.CoveredFoodGroup{
			Category:       g.Category,
			FoodsMentioned: append([]string{}, g.Foods...),
		})
	}

	analysis.Balance = assessBalance(balanceScore(len(m.Groups), categories))
	return analysis
}

// balanceScore is the percentage of catalog categories with at least one match.
func balanceScore(covered, categories int) float64 {
	if categories == 0 {
		return 0
	}
	score := float64(covered) / float64(categories) * 100
	return min(max(score, 0), 100)
}

func assessBalance(score float64) models.Balance {
	for _, r := range balanceRules {
		if score >= r.min {
			return models.Balance{Score: score, Rating: r.rating, Assessment: r.assessment}
		}
	}
	return models.Balance{
		Score:      score,
		Rating:     models.BalanceLimited,
		Assessment: "Limited - needs more food group diversity",
	}
}

// AnalyzeNutrition runs the nutritional analysis on its own.
func (e *Explainer) AnalyzeNutrition(response string) models.NutritionalAnalysis {
	return analyzeNutrition(e.matcher.Scan(response), e.matcher.Categories(), strings.ToLower(response))
}
