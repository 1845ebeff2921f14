// internal/models/explanation.go
package models

// Explanation is the scored analysis of one (question, response) pair.
// It is built once by the explain package and never modified afterwards.
type Explanation struct {
	Question             string              `json:"question"`
	Response             string              `json:"response"`
	ConfidenceScore      float64             `json:"confidence_score"`
	ConfidenceLevel      ConfidenceLevel     `json:"confidence_level"`
	ConfidenceBreakdown  ConfidenceBreakdown `json:"confidence_breakdown"`
	KeyFactors           map[string]float64  `json:"key_factors"`
	NutritionalAnalysis  NutritionalAnalysis `json:"nutritional_analysis"`
	Reasoning            Reasoning           `json:"reasoning"`
	EvidenceFacts        []EvidenceFact      `json:"evidence_based_facts"`
	AgeAppropriateness   AgeAssessment       `json:"age_appropriateness"`
	SafetyConsiderations []string            `json:"safety_considerations"`
}

// ConfidenceBreakdown holds the four independently capped score components.
type ConfidenceBreakdown struct {
	NutrientSpecificity float64 `json:"nutrient_specificity"`
	FoodVariety         float64 `json:"food_variety"`
	PortionGuidance     float64 `json:"portion_guidance"`
	AgeSpecificity      float64 `json:"age_specificity"`
}

// Total sums the components without re-normalizing.
func (b ConfidenceBreakdown) Total() float64 {
	return b.NutrientSpecificity + b.FoodVariety + b.PortionGuidance + b.AgeSpecificity
}

type NutritionalAnalysis struct {
	MentionedNutrients []MentionedNutrient `json:"mentioned_nutrients"`
	FoodGroupsCovered  []CoveredFoodGroup  `json:"food_groups_covered"`
	Balance            Balance             `json:"nutritional_balance"`
	PortionGuidance    bool                `json:"portion_guidance"`
}

type MentionedNutrient struct {
	Nutrient            string `json:"nutrient"`
	Benefits            string `json:"benefits"`
	MentionedExplicitly bool   `json:"mentioned_explicitly"`
}

type CoveredFoodGroup struct {
	Category       string   `json:"category"`
	FoodsMentioned []string `json:"foods_mentioned"`
}

type BalanceRating string

const (
	BalanceExcellent BalanceRating = "Excellent"
	BalanceGood      BalanceRating = "Good"
	BalanceFair      BalanceRating = "Fair"
	BalanceLimited   BalanceRating = "Limited"
)

type Balance struct {
	Score      float64       `json:"score"`
	Rating     BalanceRating `json:"rating"`
	Assessment string        `json:"assessment"`
}

type QuestionType string

const (
	QuestionMealRecommendation  QuestionType = "meal_recommendation"
	QuestionHealthAssessment    QuestionType = "health_assessment"
	QuestionPortionGuidance     QuestionType = "portion_guidance"
	QuestionSnackRecommendation QuestionType = "snack_recommendation"
	QuestionPickyEaterAdvice    QuestionType = "picky_eater_advice"
	QuestionNutrientGuidance    QuestionType = "nutrient_guidance"
	QuestionGeneralNutrition    QuestionType = "general_nutrition"
)

type Reasoning struct {
	QuestionType        QuestionType `json:"question_type"`
	RecommendationBasis []string     `json:"recommendation_basis"`
	EducationalContent  []string     `json:"educational_content"`
	PracticalTips       []string     `json:"practical_tips"`
}

type EvidenceFact struct {
	Nutrient      string `json:"nutrient"`
	Benefit       string `json:"benefit"`
	GoodSources   string `json:"good_sources"`
	EvidenceLevel string `json:"evidence_level"`
	DailyNeed     string `json:"daily_need,omitempty"`
}

type AgeGroup string

const (
	AgeToddler   AgeGroup = "toddler"
	AgePreschool AgeGroup = "preschool"
	AgeSchoolAge AgeGroup = "school_age"
	AgeTeen      AgeGroup = "teen"
	AgeUnknown   AgeGroup = "unknown"
)

type AgeAssessment struct {
	AgeMentioned         bool     `json:"age_mentioned"`
	AgeGroup             AgeGroup `json:"age_group"`
	AppropriatenessScore float64  `json:"appropriateness_score"`
	Concerns             []string `json:"concerns"`
}
