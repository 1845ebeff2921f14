package explain

import (
	"fmt"
	"strings"

	"mcp-kids-nutrition/internal/models"
)

const DefaultPreviewLength = 200

// Renderer formats an Explanation as a markdown report.
type Renderer struct {
	// PreviewLength is the number of runes of the response shown in the report.
	PreviewLength int
}

// Render formats e with the default preview length.
func Render(e *models.Explanation) string {
	return Renderer{PreviewLength: DefaultPreviewLength}.Render(e)
}

func (r Renderer) Render(e *models.Explanation) string {
	var b strings.Builder
	na := e.NutritionalAnalysis

	b.WriteString("\n# Nutrition Recommendation Explanation Report\n\n")
	fmt.Fprintf(&b, "## Question: %s\n\n", e.Question)
	fmt.Fprintf(&b, "## Recommendation: %s\n\n", preview(e.Response, r.previewLength()))
	fmt.Fprintf(&b, "## Confidence Score: %.2f/1.0\n\n", e.ConfidenceScore)

	b.WriteString("## Key Analysis:\n\n")
	b.WriteString("### Nutritional Content Analysis:\n")
	fmt.Fprintf(&b, "- **Nutrients Mentioned:** %d\n", len(na.MentionedNutrients))
	fmt.Fprintf(&b, "- **Food Groups Covered:** %d\n", len(na.FoodGroupsCovered))
	fmt.Fprintf(&b, "- **Nutritional Balance Score:** %.1f%%\n", na.Balance.Score)
	fmt.Fprintf(&b, "- **Assessment:** %s\n\n", na.Balance.Assessment)

	b.WriteString("### Evidence-Based Facts:\n")
	for _, f := range e.EvidenceFacts {
		fmt.Fprintf(&b, "- **%s:** %s (Sources: %s)\n", f.Nutrient, f.Benefit, f.GoodSources)
	}

	age := e.AgeAppropriateness
	b.WriteString("\n### Age Appropriateness:\n")
	fmt.Fprintf(&b, "- **Age Group:** %s\n", age.AgeGroup)
	fmt.Fprintf(&b, "- **Appropriateness Score:** %.2f\n", age.AppropriatenessScore)
	if len(age.Concerns) > 0 {
		b.WriteString("- **Concerns:**\n")
		for _, c := range age.Concerns {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	if len(e.SafetyConsiderations) > 0 {
		b.WriteString("\n### Safety Considerations:\n")
		for _, s := range e.SafetyConsiderations {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	rs := e.Reasoning
	b.WriteString("\n### Reasoning Breakdown:\n")
	fmt.Fprintf(&b, "- **Question Type:** %s\n", rs.QuestionType)
	fmt.Fprintf(&b, "- **Recommendation Basis:** %d evidence-based reasons\n", len(rs.RecommendationBasis))
	fmt.Fprintf(&b, "- **Educational Content:** %d educational points\n", len(rs.EducationalContent))
	fmt.Fprintf(&b, "- **Practical Tips:** %d actionable tips\n", len(rs.PracticalTips))

	b.WriteString("\n## Summary:\n")
	b.WriteString("This recommendation is based on established nutritional science and age-appropriate guidelines.\n")
	b.WriteString("The confidence score reflects the specificity and comprehensiveness of the advice provided.\n")

	return b.String()
}

func (r Renderer) previewLength() int {
	if r.PreviewLength <= 0 {
		return DefaultPreviewLength
	}
	return r.PreviewLength
}

// preview cuts s to n runes, marking the cut with "...".
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
