package explain

import (
	"strings"

	"mcp-kids-nutrition/internal/models"
)

type bucket int

const (
	bucketBasis bucket = iota
	bucketEducational
	bucketTips
)

var sentenceRules = []rule[bucket]{
	{bucketBasis, keywords("because", "since", "due to", "helps", "provides")},
	{bucketEducational, keywords("important", "essential", "good source", "rich in")},
	{bucketTips, keywords("try", "tip", "can", "make", "prepare")},
}

var questionRules = []rule[models.QuestionType]{
	{models.QuestionMealRecommendation, func(q string) bool { return containsAll(q, "what should", "eat") }},
	{models.QuestionHealthAssessment, func(q string) bool { return containsAll(q, "is", "healthy") }},
	{models.QuestionPortionGuidance, keywords("how much")},
	{models.QuestionSnackRecommendation, keywords("snack")},
	{models.QuestionPickyEaterAdvice, keywords("doesn't like", "picky")},
	{models.QuestionNutrientGuidance, keywords("nutrient", "vitamin", "mineral")},
}

func keywords(terms ...string) func(string) bool {
	return func(text string) bool { return containsAny(text, terms...) }
}

// ClassifyQuestion labels a question; the first matching rule wins.
func ClassifyQuestion(question string) models.QuestionType {
	if t, ok := firstMatch(questionRules, strings.ToLower(question)); ok {
		return t
	}
	return models.QuestionGeneralNutrition
}

// ExtractReasoning splits the response on periods and sorts each fragment into
// at most one bucket. Fragments that match no bucket are dropped.
func ExtractReasoning(question, response string) models.Reasoning {
	r := models.Reasoning{
		QuestionType:        ClassifyQuestion(question),
		RecommendationBasis: []string{},
		EducationalContent:  []string{},
		PracticalTips:       []string{},
	}

	for _, fragment := range strings.Split(response, ".") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		b, ok := firstMatch(sentenceRules, strings.ToLower(fragment))
		if !ok {
			continue
		}
		switch b {
		case bucketBasis:
			r.RecommendationBasis = append(r.RecommendationBasis, fragment)
		case bucketEducational:
			r.EducationalContent = append(r.EducationalContent, fragment)
		case bucketTips:
			r.PracticalTips = append(r.PracticalTips, fragment)
		}
	}

	return r
}
