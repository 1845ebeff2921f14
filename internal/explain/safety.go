package explain

import (
	"fmt"
	"strings"

	"mcp-kids-nutrition/internal/models"
)

const (
	defaultAppropriateness  = 0.5
	knownAgeAppropriateness = 0.8
	honeyWarning            = "Honey not recommended for children under 12 months"
)

// Patterns are substrings, so "12 year" also satisfies the toddler pattern
// "2 year" and wins because toddler is checked first.
var ageRules = []rule[models.AgeGroup]{
	{models.AgeToddler, keywords("toddler", "2 year", "3 year")},
	{models.AgePreschool, keywords("preschool", "4 year", "5 year")},
	{models.AgeSchoolAge, keywords("6 year", "7 year", "8 year", "9 year", "10 year", "11 year")},
	{models.AgeTeen, keywords("teen", "12 year", "13 year", "14 year", "15 year", "16 year", "17 year", "18 year")},
}

var (
	toddlerChokingHazards = []string{"nuts", "grapes", "popcorn", "hard candy"}
	chokingHazards        = []string{"whole grapes", "nuts", "popcorn", "hard candy", "whole cherry tomatoes"}
	allergens             = []string{"peanut", "tree nut", "milk", "egg", "soy", "wheat", "fish", "shellfish"}
)

// DetectAgeGroup finds the age group a question is about.
func DetectAgeGroup(question string) (models.AgeGroup, bool) {
	return firstMatch(ageRules, strings.ToLower(question))
}

// AssessAge detects the age group in the question and, for toddlers, flags
// choking hazards named in the response.
func AssessAge(question, response string) models.AgeAssessment {
	a := models.AgeAssessment{
		AgeGroup:             models.AgeUnknown,
		AppropriatenessScore: defaultAppropriateness,
		Concerns:             []string{},
	}

	group, ok := DetectAgeGroup(question)
	if !ok {
		return a
	}
	a.AgeMentioned = true
	a.AgeGroup = group
	a.AppropriatenessScore = knownAgeAppropriateness

	if group == models.AgeToddler {
		for _, hazard := range matchingTerms(strings.ToLower(response), toddlerChokingHazards) {
			a.Concerns = append(a.Concerns, fmt.Sprintf("Potential choking hazard: %s", hazard))
		}
	}
	return a
}

// SafetyConsiderations lists allergen, choking and honey warnings for the
// response. Each detector runs on its own; overlapping findings are all kept.
func SafetyConsiderations(response string) []string {
	lower := strings.ToLower(response)
	out := []string{}

	for _, allergen := range matchingTerms(lower, allergens) {
		out = append(out, fmt.Sprintf("Consider allergies to %s", allergen))
	}
	for _, hazard := range matchingTerms(lower, chokingHazards) {
		out = append(out, fmt.Sprintf("Choking hazard: %s - supervise young children", hazard))
	}
	if strings.Contains(lower, "honey") {
		out = append(out, honeyWarning)
	}
	return out
}
