// Package explain builds scored, rule-based explanations of nutrition answers.
//
// Every analyzer is a pure function of the question, the response and the
// static knowledge tables, so an Explainer may be shared freely between
// goroutines.
package explain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mcp-kids-nutrition/internal/knowledge"
	"mcp-kids-nutrition/internal/models"
)

const evidenceLevel = "Well-established"

type Explainer struct {
	matcher    *Matcher
	nutrients  []models.NutrientFact
	maxFactors int
}

type Option func(*Explainer)

// WithMaxFactors caps the number of key factors kept per explanation.
func WithMaxFactors(n int) Option {
	return func(e *Explainer) { e.maxFactors = n }
}

func New(kb *knowledge.Base, opts ...Option) *Explainer {
	nutrients := kb.Nutrients()
	e := &Explainer{
		matcher:    NewMatcher(nutrients, kb.FoodGroups()),
		nutrients:  nutrients,
		maxFactors: defaultMaxFactors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain analyzes one question/response pair. Empty input is not an error; it
// yields empty analyses and the minimum confidence.
func (e *Explainer) Explain(question, response string) *models.Explanation {
	lower := strings.ToLower(response)
	matches := e.matcher.Scan(response)
	age := AssessAge(question, response)
	breakdown := scoreConfidence(matches, lower)
	score := breakdown.Total()

	return &models.Explanation{
		Question:             question,
		Response:             response,
		ConfidenceScore:      score,
		ConfidenceLevel:      models.LevelFor(score),
		ConfidenceBreakdown:  breakdown,
		KeyFactors:           KeyFactors(question, response, e.maxFactors),
		NutritionalAnalysis:  analyzeNutrition(matches, e.matcher.Categories(), lower),
		Reasoning:            ExtractReasoning(question, response),
		EvidenceFacts:        e.evidenceFacts(lower, age.AgeGroup),
		AgeAppropriateness:   age,
		SafetyConsiderations: SafetyConsiderations(response),
	}
}

// evidenceFacts lists the reference facts for every nutrient named verbatim.
func (e *Explainer) evidenceFacts(lower string, group models.AgeGroup) []models.EvidenceFact {
	title := cases.Title(language.Und)
	facts := []models.EvidenceFact{}
	for _, n := range e.nutrients {
		name := n.DisplayName()
		if !strings.Contains(lower, strings.ToLower(name)) {
			continue
		}
		sources := n.Sources
		if len(sources) > 3 {
			sources = sources[:3]
		}
		facts = append(facts, models.EvidenceFact{
			Nutrient:      title.String(name),
			Benefit:       n.Benefits,
			GoodSources:   strings.Join(sources, ", "),
			EvidenceLevel: evidenceLevel,
			DailyNeed:     n.DailyNeeds[string(group)],
		})
	}
	return facts
}
