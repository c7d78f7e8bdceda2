package ports

import (
	"context"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// ImageProvider is one external image source. Plan expands query terms into
// the lookups the provider wants to make; Fetch performs one of them.
type ImageProvider interface {
	Name() string
	Plan(terms []domain.QueryTerm) []domain.SearchAttempt
	Fetch(ctx context.Context, attempt domain.SearchAttempt) ([]domain.Candidate, error)
}

// RecipeImageRepository persists image assignments per recipe.
type RecipeImageRepository interface {
	GetByRecipeID(ctx context.Context, recipeID string) (*domain.RecipeImage, error)
	Upsert(ctx context.Context, image *domain.RecipeImage) error
}

// ImageRequestQueue publishes/consumes asynchronous image requests.
type ImageRequestQueue interface {
	PublishImageRequested(ctx context.Context, req domain.ImageRequest) error
	SubscribeImageRequested(ctx context.Context, handler func(context.Context, domain.ImageRequest) error) error
}

// ResolutionRecorder receives stage outcomes for observability.
type ResolutionRecorder interface {
	RecordStage(provider string, outcome domain.OutcomeKind, seconds float64)
	RecordResolution(source domain.ImageSource, seconds float64)
}
