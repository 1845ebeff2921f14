package explain

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"mcp-kids-nutrition/internal/models"
)

const defaultMaxFactors = 10

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "my": {}, "your": {}, "to": {}, "of": {}, "for": {},
	"and": {}, "or": {}, "with": {}, "i": {}, "me": {}, "we": {}, "our": {}, "it": {},
	"do": {}, "does": {}, "at": {}, "on": {}, "in": {}, "be": {}, "are": {},
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func contentWords(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, stop := stopwords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// relevance scores how well a tokenized question is served by the response:
// a recognised question type, a detectable age group and word overlap.
func relevance(tokens []string, lowerResponse string) float64 {
	q := strings.Join(tokens, " ")
	score := 0.0
	if ClassifyQuestion(q) != models.QuestionGeneralNutrition {
		score += 0.5
	}
	if _, ok := DetectAgeGroup(q); ok {
		score += 0.3
	}
	words := contentWords(tokens)
	if len(words) > 0 {
		present := 0
		for _, w := range words {
			if strings.Contains(lowerResponse, w) {
				present++
			}
		}
		score += 0.2 * float64(present) / float64(len(words))
	}
	return score
}

func without(tokens []string, term string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != term {
			out = append(out, t)
		}
	}
	return out
}

// KeyFactors attributes the relevance of a question to its terms by occlusion:
// each term's weight is the drop in relevance when the term is removed. At most
// limit terms are returned, largest magnitude first.
func KeyFactors(question, response string, limit int) map[string]float64 {
	out := map[string]float64{}
	if limit <= 0 {
		return out
	}

	tokens := tokenize(question)
	lowerResponse := strings.ToLower(response)
	base := relevance(tokens, lowerResponse)

	type factor struct {
		term   string
		weight float64
	}
	var factors []factor
	for _, term := range contentWords(tokens) {
		w := base - relevance(without(tokens, term), lowerResponse)
		w = math.Round(w*1e4) / 1e4
		if w == 0 {
			continue
		}
		factors = append(factors, factor{term, w})
	}

	sort.Slice(factors, func(i, j int) bool {
		ai, aj := math.Abs(factors[i].weight), math.Abs(factors[j].weight)
		if ai != aj {
			return ai > aj
		}
		return factors[i].term < factors[j].term
	})
	if len(factors) > limit {
		factors = factors[:limit]
	}
	for _, f := range factors {
		out[f.term] = f.weight
	}
	return out
}
