package ports

import (
	"context"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// ImageResolver is the inbound contract for the image cascade. It never fails.
type ImageResolver interface {
	Resolve(ctx context.Context, req domain.SearchRequest) domain.Resolution
	ResolveImage(ctx context.Context, name, cuisine string) string
}

// RecipeImageUpdater assigns resolved images to stored recipes.
type RecipeImageUpdater interface {
	UpdateImage(ctx context.Context, recipeID, recipeName, cuisine string) (*domain.RecipeImageUpdate, error)
	BatchUpdate(ctx context.Context, items []domain.BatchItem, cuisine string) domain.BatchSummary
	GetImage(ctx context.Context, recipeID string) (*domain.RecipeImage, error)
}

// ImageRequestPublisher is the inbound contract for asynchronous resolution.
type ImageRequestPublisher interface {
	RequestImage(ctx context.Context, recipeID, recipeName, cuisine string) (*domain.ImageRequest, error)
}
