package explain

import (
	"strings"

	"mcp-kids-nutrition/internal/models"
)

// NutrientMatch is a nutrient found in a text. Explicit reports whether the
// display name itself occurred rather than only a word of its benefit text.
type NutrientMatch struct {
	Fact     models.NutrientFact
	Explicit bool
}

type CategoryMatch struct {
	Category string
	Foods    []string
}

// Matches is the result of one lexical scan.
type Matches struct {
	Nutrients []NutrientMatch
	Groups    []CategoryMatch
}

// ExplicitNutrients counts nutrients whose display name occurred verbatim.
func (m Matches) ExplicitNutrients() int {
	n := 0
	for _, nm := range m.Nutrients {
		if nm.Explicit {
			n++
		}
	}
	return n
}

// DistinctFoods counts matched foods across categories, counting a food listed
// under several categories once.
func (m Matches) DistinctFoods() int {
	seen := make(map[string]struct{})
	for _, g := range m.Groups {
		for _, f := range g.Foods {
			seen[f] = struct{}{}
		}
	}
	return len(seen)
}

type nutrientTerms struct {
	fact     models.NutrientFact
	display  string
	keywords []string
}

// Matcher does plain substring matching against the reference tables. There is
// no tokenization or stemming, so "cheeseburger" matches "cheese"; callers rely
// on that behavior.
type Matcher struct {
	nutrients []nutrientTerms
	groups    []models.FoodGroup
}

func NewMatcher(nutrients []models.NutrientFact, groups []models.FoodGroup) *Matcher {
	m := &Matcher{groups: groups}
	for _, n := range nutrients {
		m.nutrients = append(m.nutrients, nutrientTerms{
			fact:     n,
			display:  strings.ToLower(n.DisplayName()),
			keywords: strings.Fields(strings.ToLower(n.Benefits)),
		})
	}
	return m
}

// Categories is the number of food categories in the catalog.
func (m *Matcher) Categories() int {
	return len(m.groups)
}

// Scan matches text (any case) against the tables.
func (m *Matcher) Scan(text string) Matches {
	lower := strings.ToLower(text)
	res := Matches{
		Nutrients: []NutrientMatch{},
		Groups:    []CategoryMatch{},
	}

	for _, n := range m.nutrients {
		explicit := strings.Contains(lower, n.display)
		if explicit || containsAny(lower, n.keywords...) {
			res.Nutrients = append(res.Nutrients, NutrientMatch{Fact: n.fact, Explicit: explicit})
		}
	}

	for _, g := range m.groups {
		var found []string
		for _, food := range g.Foods {
			if strings.Contains(lower, food) {
				found = append(found, food)
			}
		}
		if len(found) > 0 {
			res.Groups = append(res.Groups, CategoryMatch{Category: g.Category, Foods: found})
		}
	}

	return res
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func containsAll(text string, terms ...string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// matchingTerms returns the terms found in text, in list order.
func matchingTerms(text string, terms []string) []string {
	var out []string
	for _, t := range terms {
		if strings.Contains(text, t) {
			out = append(out, t)
		}
	}
	return out
}

// rule is one entry of an ordered first-match-wins classification list.
type rule[L any] struct {
	label L
	match func(text string) bool
}

func firstMatch[L any](rules []rule[L], text string) (L, bool) {
	for _, r := range rules {
		if r.match(text) {
			return r.label, true
		}
	}
	var zero L
	return zero, false
}
