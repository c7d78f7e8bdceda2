package domain

import "time"

type SearchRequest struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine,omitempty"`
}

// QueryTerm is one search phrase; lower Priority is tried first.
type QueryTerm struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
}

// SearchAttempt is a single provider lookup. Scope carries provider-specific
// addressing such as a collection id; it is empty for plain term searches.
type SearchAttempt struct {
	Term  QueryTerm `json:"term"`
	Scope string    `json:"scope,omitempty"`
}

type Candidate struct {
	URL                 string  `json:"url"`
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	Description         string  `json:"description"`
	Popularity          float64 `json:"popularity"`
	SecondaryPopularity float64 `json:"secondary_popularity"`
	Provider            string  `json:"provider"`
}

type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
	Term  string  `json:"term"`
}

type ImageSource string

const (
	SourceGoogle             ImageSource = "google"
	SourceUnsplashCollection ImageSource = "unsplash_collection"
	SourceUnsplashSearch     ImageSource = "unsplash_search"
	SourceFallbackDish       ImageSource = "fallback_dish"
	SourceFallbackCuisine    ImageSource = "fallback_cuisine"
	SourceFallbackCategory   ImageSource = "fallback_category"
	SourceFallbackGeneric    ImageSource = "fallback_generic"
)

// IsFallback reports whether the image came from the static tables.
func (s ImageSource) IsFallback() bool {
	switch s {
	case SourceFallbackDish, SourceFallbackCuisine, SourceFallbackCategory, SourceFallbackGeneric:
		return true
	default:
		return false
	}
}

type FallbackEntry struct {
	Keyword string
	URL     string
}

type Resolution struct {
	URL      string      `json:"url"`
	Source   ImageSource `json:"source"`
	Provider string      `json:"provider,omitempty"`
	Term     string      `json:"term,omitempty"`
	Score    float64     `json:"score,omitempty"`
}

type RecipeImage struct {
	RecipeID   string      `json:"recipe_id"`
	RecipeName string      `json:"recipe_name"`
	Cuisine    string      `json:"cuisine,omitempty"`
	ImageURL   string      `json:"image_url"`
	Source     ImageSource `json:"image_source"`
	Provider   string      `json:"provider,omitempty"`
	SearchTerm string      `json:"search_term,omitempty"`
	Score      float64     `json:"score"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type RecipeImageUpdate struct {
	RecipeID   string      `json:"recipe_id"`
	RecipeName string      `json:"recipe_name"`
	OldImage   string      `json:"old_image,omitempty"`
	NewImage   string      `json:"new_image"`
	Source     ImageSource `json:"image_source"`
	SearchTerm string      `json:"search_term"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type BatchItem struct {
	RecipeID   string `json:"recipe_id"`
	RecipeName string `json:"recipe_name,omitempty"`
}

type BatchStatus string

const (
	BatchStatusSuccess BatchStatus = "success"
	BatchStatusError   BatchStatus = "error"
)

type BatchItemResult struct {
	RecipeID   string      `json:"recipe_id"`
	RecipeName string      `json:"recipe_name,omitempty"`
	Status     BatchStatus `json:"status"`
	OldImage   string      `json:"old_image,omitempty"`
	NewImage   string      `json:"new_image,omitempty"`
	Source     ImageSource `json:"image_source,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type BatchSummary struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Errors     int               `json:"errors"`
	Results    []BatchItemResult `json:"results"`
}

// ImageRequest is the payload queued for asynchronous resolution.
type ImageRequest struct {
	ID          string    `json:"id"`
	RecipeID    string    `json:"recipe_id"`
	RecipeName  string    `json:"recipe_name,omitempty"`
	Cuisine     string    `json:"cuisine,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
