// internal/knowledge/knowledge.go

// Package knowledge holds the static nutrition reference tables used by the
// explanation engine and the lookup tools. The tables are decoded once from an
// embedded YAML document and are read-only afterwards; accessors hand out copies.
package knowledge

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mcp-kids-nutrition/internal/models"
)

//go:embed knowledge.yaml
var embedded []byte

type document struct {
	Nutrients       []models.NutrientFact               `yaml:"nutrients"`
	FoodGroups      []models.FoodGroup                  `yaml:"food_groups"`
	FoodFacts       map[string]models.FoodFacts         `yaml:"food_facts"`
	MealPlans       map[models.AgeGroup]models.MealPlan `yaml:"meal_plans"`
	CannedResponses map[string]string                   `yaml:"canned_responses"`
}

// Base is an immutable view over the reference tables.
type Base struct {
	doc document
}

var defaultBase = mustParse(embedded)

// Default returns the process-wide knowledge base built from the embedded tables.
func Default() *Base {
	return defaultBase
}

// Parse decodes a knowledge document in the embedded format.
func Parse(data []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	if len(doc.Nutrients) == 0 {
		return nil, fmt.Errorf("knowledge base has no nutrients")
	}
	if len(doc.FoodGroups) == 0 {
		return nil, fmt.Errorf("knowledge base has no food groups")
	}
	for i, n := range doc.Nutrients {
		if n.ID == "" {
			return nil, fmt.Errorf("nutrient %d has no id", i)
		}
	}
	return &Base{doc: doc}, nil
}

func mustParse(data []byte) *Base {
	b, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Nutrients returns the nutrient table in table order.
func (b *Base) Nutrients() []models.NutrientFact {
	out := make([]models.NutrientFact, len(b.doc.Nutrients))
	for i, n := range b.doc.Nutrients {
		n.Sources = slices.Clone(n.Sources)
		needs := make(map[string]string, len(n.DailyNeeds))
		for k, v := range n.DailyNeeds {
			needs[k] = v
		}
		n.DailyNeeds = needs
		out[i] = n
	}
	return out
}

// FoodGroups returns the food catalog in table order.
func (b *Base) FoodGroups() []models.FoodGroup {
	out := make([]models.FoodGroup, len(b.doc.FoodGroups))
	for i, g := range b.doc.FoodGroups {
		out[i] = models.FoodGroup{Category: g.Category, Foods: slices.Clone(g.Foods)}
	}
	return out
}

// LookupFood finds facts for a food name, ignoring case and surrounding space.
func (b *Base) LookupFood(name string) (models.FoodFacts, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	facts, ok := b.doc.FoodFacts[key]
	if !ok {
		return models.FoodFacts{}, false
	}
	facts.Food = key
	return facts, true
}

// KnownFoods lists the foods that have fact sheets, sorted.
func (b *Base) KnownFoods() []string {
	out := make([]string, 0, len(b.doc.FoodFacts))
	for k := range b.doc.FoodFacts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MealPlan returns the sample daily plan for an age group label such as "Preschool".
func (b *Base) MealPlan(ageGroup string) (models.MealPlan, bool) {
	group := models.AgeGroup(strings.ToLower(strings.TrimSpace(ageGroup)))
	plan, ok := b.doc.MealPlans[group]
	if !ok {
		return models.MealPlan{}, false
	}
	plan.AgeGroup = group
	return plan, true
}

// MealPlanGroups lists age groups that have a plan, sorted.
func (b *Base) MealPlanGroups() []string {
	out := make([]string, 0, len(b.doc.MealPlans))
	for k := range b.doc.MealPlans {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// CannedResponse returns a stored demo answer by key ("breakfast", "snack",
// "vegetables", "default").
func (b *Base) CannedResponse(key string) (string, bool) {
	r, ok := b.doc.CannedResponses[key]
	return r, ok
}
