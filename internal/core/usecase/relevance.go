package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

var FoodKeywords = []string{
	"food", "dish", "meal", "recipe", "cooking",
	"cuisine", "delicious", "fresh", "gourmet", "restaurant",
}

var ProfessionalKeywords = []string{
	"styled", "photography", "professional", "studio", "plated", "garnish",
}

// RelevanceScorer computes the additive heuristic used to rank candidates
// returned by a single provider call.
type RelevanceScorer struct {
	weights domain.ScoringWeights
}

func NewRelevanceScorer(weights domain.ScoringWeights) RelevanceScorer {
	return RelevanceScorer{weights: weights.Normalize()}
}

func (s RelevanceScorer) Score(c domain.Candidate, recipeName, matchedTerm string) domain.ScoredCandidate {
	w := s.weights
	text := strings.ToLower(c.Description)

	score := math.Min(c.Popularity/w.LikesDivisor, w.LikesCap)
	score += math.Min(c.SecondaryPopularity/w.DownloadsDivisor, w.DownloadsCap)

	score += w.FoodKeyword * float64(countContained(text, FoodKeywords))

	for _, word := range strings.Split(strings.ToLower(recipeName), " ") {
		if utf8.RuneCountInString(word) >= w.NameWordMinLength && strings.Contains(text, word) {
			score += w.NameWord
		}
	}

	score += w.ProfessionalKeyword * float64(countContained(text, ProfessionalKeywords))

	if c.Width >= w.HighResolutionWidth && c.Height >= w.HighResolutionHeight {
		score += w.HighResolution
	}
	if c.Height > 0 {
		ratio := float64(c.Width) / float64(c.Height)
		if ratio >= w.LandscapeMinRatio && ratio <= w.LandscapeMaxRatio {
			score += w.Landscape
		}
	}

	return domain.ScoredCandidate{Candidate: c, Score: score, Term: matchedTerm}
}

// Rank scores all candidates and orders them best first. Ties keep their
// encounter order.
func (s RelevanceScorer) Rank(candidates []domain.Candidate, recipeName, matchedTerm string) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, s.Score(c, recipeName, matchedTerm))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func countContained(text string, keywords []string) int {
	n := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			n++
		}
	}
	return n
}
