// internal/models/knowledge.go
package models

import "strings"

// NutrientFact is a static reference entry for one tracked nutrient.
type NutrientFact struct {
	ID         string            `json:"id" yaml:"id"`
	Benefits   string            `json:"benefits" yaml:"benefits"`
	Sources    []string          `json:"sources" yaml:"sources"`
	DailyNeeds map[string]string `json:"daily_needs" yaml:"daily_needs"`
}

// DisplayName renders the id with underscores as spaces ("vitamin_c" -> "vitamin c").
func (n NutrientFact) DisplayName() string {
	return strings.ReplaceAll(n.ID, "_", " ")
}

// FoodGroup is one category of the food catalog with its foods in table order.
type FoodGroup struct {
	Category string   `json:"category" yaml:"category"`
	Foods    []string `json:"foods" yaml:"foods"`
}

type FoodFacts struct {
	Food         string `json:"food"`
	Calories     string `json:"calories" yaml:"calories"`
	KeyNutrients string `json:"key_nutrients" yaml:"key_nutrients"`
	Benefits     string `json:"benefits" yaml:"benefits"`
	KidFriendly  string `json:"kid_friendly" yaml:"kid_friendly"`
}

type MealPlan struct {
	AgeGroup  AgeGroup `json:"age_group"`
	Breakfast string   `json:"breakfast" yaml:"breakfast"`
	Lunch     string   `json:"lunch" yaml:"lunch"`
	Dinner    string   `json:"dinner" yaml:"dinner"`
	Snacks    string   `json:"snacks" yaml:"snacks"`
}
