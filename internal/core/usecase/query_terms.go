package usecase

import (
	"regexp"
	"strings"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

const minQueryTermLength = 3

var (
	stopWordPattern    = regexp.MustCompile(`(?i)recipe|cooking|homemade|easy|quick|best|delicious|perfect|traditional`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// foodCategories is checked in order; the first matching pattern wins.
var foodCategories = []struct {
	pattern  *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`(?i)chicken|beef|pork|lamb|fish|salmon|tuna|shrimp|turkey`), "protein"},
	{regexp.MustCompile(`(?i)pasta|spaghetti|noodle|rice|risotto|biryani`), "pasta rice"},
	{regexp.MustCompile(`(?i)soup|stew|broth|curry|chili`), "soup stew"},
	{regexp.MustCompile(`(?i)cake|cookie|pie|dessert|ice cream|chocolate|sweet`), "dessert"},
	{regexp.MustCompile(`(?i)pancake|waffle|eggs|breakfast|cereal|toast`), "breakfast"},
	{regexp.MustCompile(`(?i)salad|vegetable|veggie|green|healthy`), "salad vegetable"},
	{regexp.MustCompile(`(?i)bread|pizza|sandwich|burger|baked`), "bread baked"},
}

var nameTermSuffixes = []string{
	"food photography",
	"gourmet food",
	"restaurant food",
	"food styling",
	"dish",
	"meal",
	"food",
}

// BuildQueryTerms expands a recipe name and optional cuisine into search
// phrases, most specific first.
func BuildQueryTerms(name, cuisine string) []domain.QueryTerm {
	clean := cleanRecipeName(name)
	cuisine = strings.TrimSpace(cuisine)

	raw := make([]string, 0, 11)
	if cuisine != "" {
		raw = append(raw,
			cuisine+" "+clean+" food photography",
			cuisine+" "+clean+" dish",
			cuisine+" "+clean,
		)
	}
	for _, suffix := range nameTermSuffixes {
		raw = append(raw, clean+" "+suffix)
	}
	if category := foodCategory(clean); category != "" {
		raw = append(raw, category+" food photography")
	}

	terms := make([]domain.QueryTerm, 0, len(raw))
	for _, text := range raw {
		text = normalizeWhitespace(text)
		if len(text) < minQueryTermLength {
			continue
		}
		terms = append(terms, domain.QueryTerm{Text: text, Priority: len(terms)})
	}
	return terms
}

func cleanRecipeName(name string) string {
	clean := strings.ToLower(name)
	clean = stopWordPattern.ReplaceAllString(clean, "")
	clean = punctuationPattern.ReplaceAllString(clean, " ")
	return normalizeWhitespace(clean)
}

func foodCategory(clean string) string {
	for _, c := range foodCategories {
		if c.pattern.MatchString(clean) {
			return c.category
		}
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
