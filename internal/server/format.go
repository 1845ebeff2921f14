package server

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mcp-kids-nutrition/internal/models"
)

var titleCaser = cases.Title(language.Und)

func renderMealPlan(plan models.MealPlan, restrictions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Meal Plan for %s\n\n", titleCaser.String(strings.ReplaceAll(string(plan.AgeGroup), "_", " ")))
	fmt.Fprintf(&b, "## Breakfast\n%s\n\n", plan.Breakfast)
	fmt.Fprintf(&b, "## Lunch\n%s\n\n", plan.Lunch)
	fmt.Fprintf(&b, "## Dinner\n%s\n\n", plan.Dinner)
	fmt.Fprintf(&b, "## Healthy Snacks\n%s\n\n", plan.Snacks)
	b.WriteString("## Hydration\n- Water throughout the day\n- Limit sugary drinks\n- Milk with meals\n\n")
	b.WriteString("## Notes\n")
	b.WriteString("- Adjust portions based on your child's appetite\n")
	b.WriteString("- Offer variety and try new foods regularly\n")
	b.WriteString("- Make mealtimes positive and fun\n")

	if r := strings.TrimSpace(restrictions); r != "" {
		fmt.Fprintf(&b, "\n**Dietary Restrictions Noted**: %s\n", r)
		b.WriteString("*Please consult with a pediatric nutritionist for personalized modifications.*\n")
	}
	return b.String()
}

func unknownFoodMessage(food string, known []string) string {
	return fmt.Sprintf("Nutrition information for '%s' is not available in the database. Try common foods like %s.",
		strings.TrimSpace(food), joinOr(known))
}

func unknownAgeGroupMessage(groups []string) string {
	return "Please select a valid age group: " + joinOr(groups)
}

// joinOr renders ["a","b","c"] as "a, b, or c".
func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}
