package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// BlacklistTerms mark candidates that are probably not a photo of food.
var BlacklistTerms = []string{
	"person", "people", "man", "woman", "child", "portrait", "selfie",
	"landscape", "building", "car", "animal", "text", "logo",
}

var imageExtensionPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

const relevanceWordMinLength = 4

// QualityPolicy decides whether a raw candidate is usable. Each provider stage
// carries its own policy.
type QualityPolicy struct {
	MinWidth              int
	MinHeight             int
	MinPopularity         float64
	RequireImageExtension bool
	ApplyBlacklist        bool
	RequireNameMatch      bool
}

func (p QualityPolicy) Accept(c domain.Candidate, req domain.SearchRequest) bool {
	if strings.TrimSpace(c.URL) == "" {
		return false
	}
	if c.Width < p.MinWidth || c.Height < p.MinHeight {
		return false
	}
	if c.Popularity < p.MinPopularity {
		return false
	}
	if p.RequireImageExtension && !imageExtensionPattern.MatchString(c.URL) {
		return false
	}

	description := strings.ToLower(c.Description)
	if p.ApplyBlacklist && containsBlacklisted(description) {
		return false
	}
	if p.RequireNameMatch && !mentionsRequest(description, req) {
		return false
	}
	return true
}

// Filter keeps the accepted candidates in encounter order.
func (p QualityPolicy) Filter(candidates []domain.Candidate, req domain.SearchRequest) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if p.Accept(c, req) {
			out = append(out, c)
		}
	}
	return out
}

func containsBlacklisted(description string) bool {
	for _, term := range BlacklistTerms {
		if strings.Contains(description, term) {
			return true
		}
	}
	return false
}

func mentionsRequest(description string, req domain.SearchRequest) bool {
	words := strings.Split(strings.ToLower(req.Name), " ")
	if req.Cuisine != "" {
		words = append(words, strings.Split(strings.ToLower(req.Cuisine), " ")...)
	}
	for _, word := range words {
		if utf8.RuneCountInString(word) >= relevanceWordMinLength && strings.Contains(description, word) {
			return true
		}
	}
	return false
}

// Stage policies for the three provider kinds. TextSearchPolicy fits web
// image search results (Google), whose links end in a file extension and
// carry no popularity. ImageSearchPolicy fits photo-library search
// (Unsplash), whose URLs carry query strings and report likes.
var (
	TextSearchPolicy = QualityPolicy{
		MinWidth:              300,
		MinHeight:             200,
		RequireImageExtension: true,
	}
	CollectionPolicy = QualityPolicy{
		MinWidth:         600,
		MinHeight:        400,
		ApplyBlacklist:   true,
		RequireNameMatch: true,
	}
	ImageSearchPolicy = QualityPolicy{
		MinWidth:       600,
		MinHeight:      400,
		MinPopularity:  5,
		ApplyBlacklist: true,
	}
)
