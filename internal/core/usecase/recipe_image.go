package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
)

const (
	DefaultBatchCuisine = "International"
	DefaultBatchDelay   = 100 * time.Millisecond
)

type UpdateRecipeImageUseCase struct {
	repo       ports.RecipeImageRepository
	resolver   ports.ImageResolver
	batchDelay time.Duration
	now        func() time.Time
}

func NewUpdateRecipeImageUseCase(
	repo ports.RecipeImageRepository,
	resolver ports.ImageResolver,
	batchDelay time.Duration,
) *UpdateRecipeImageUseCase {
	if batchDelay < 0 {
		batchDelay = DefaultBatchDelay
	}
	return &UpdateRecipeImageUseCase{
		repo:       repo,
		resolver:   resolver,
		batchDelay: batchDelay,
		now:        time.Now,
	}
}

func (uc *UpdateRecipeImageUseCase) GetImage(ctx context.Context, recipeID string) (*domain.RecipeImage, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get recipe image", errors.New("recipe id is required"))
	}
	return uc.repo.GetByRecipeID(ctx, recipeID)
}

// UpdateImage resolves a fresh image for the recipe and stores it. An empty
// name or cuisine falls back to the values stored with the previous image.
func (uc *UpdateRecipeImageUseCase) UpdateImage(
	ctx context.Context,
	recipeID, recipeName, cuisine string,
) (*domain.RecipeImageUpdate, error) {
	const op = "update recipe image"

	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("recipe id is required"))
	}

	existing, err := uc.repo.GetByRecipeID(ctx, recipeID)
	if err != nil && !domain.IsKind(err, domain.ErrRecipeNotFound) {
		return nil, fmt.Errorf("load recipe image: %w", err)
	}

	name := strings.TrimSpace(recipeName)
	if name == "" {
		if existing == nil || strings.TrimSpace(existing.RecipeName) == "" {
			return nil, domain.WrapError(domain.ErrRecipeNotFound, op, fmt.Errorf("recipe %s has no stored name", recipeID))
		}
		name = existing.RecipeName
	}
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" && existing != nil {
		cuisine = existing.Cuisine
	}

	res := uc.resolver.Resolve(ctx, domain.SearchRequest{Name: name, Cuisine: cuisine})
	now := uc.now().UTC()
	searchTerm := res.Term
	if searchTerm == "" {
		searchTerm = strings.TrimSpace(name + " " + cuisine)
	}

	image := &domain.RecipeImage{
		RecipeID:   recipeID,
		RecipeName: name,
		Cuisine:    cuisine,
		ImageURL:   res.URL,
		Source:     res.Source,
		Provider:   res.Provider,
		SearchTerm: searchTerm,
		Score:      res.Score,
		UpdatedAt:  now,
	}
	if err := uc.repo.Upsert(ctx, image); err != nil {
		return nil, fmt.Errorf("save recipe image: %w", err)
	}

	update := &domain.RecipeImageUpdate{
		RecipeID:   recipeID,
		RecipeName: name,
		NewImage:   res.URL,
		Source:     res.Source,
		SearchTerm: searchTerm,
		UpdatedAt:  now,
	}
	if existing != nil {
		update.OldImage = existing.ImageURL
	}
	return update, nil
}

// BatchUpdate updates recipes one after another, pausing between them so
// the upstream providers are not flooded. Failures are reported per item.
func (uc *UpdateRecipeImageUseCase) BatchUpdate(ctx context.Context, items []domain.BatchItem, cuisine string) domain.BatchSummary {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		cuisine = DefaultBatchCuisine
	}

	summary := domain.BatchSummary{
		Total:   len(items),
		Results: make([]domain.BatchItemResult, 0, len(items)),
	}

	limit := rate.Inf
	if uc.batchDelay > 0 {
		limit = rate.Every(uc.batchDelay)
	}
	pacer := rate.NewLimiter(limit, 1)

	for i, item := range items {
		if err := pacer.Wait(ctx); err != nil {
			for _, rest := range items[i:] {
				summary.Results = append(summary.Results, batchError(rest, fmt.Errorf("batch cancelled: %w", err)))
				summary.Errors++
			}
			slog.Warn("batch_update_cancelled", "processed", i, "total", len(items), "error", err)
			break
		}

		update, err := uc.UpdateImage(ctx, item.RecipeID, item.RecipeName, cuisine)
		if err != nil {
			summary.Results = append(summary.Results, batchError(item, err))
			summary.Errors++
			continue
		}
		summary.Results = append(summary.Results, domain.BatchItemResult{
			RecipeID:   update.RecipeID,
			RecipeName: update.RecipeName,
			Status:     domain.BatchStatusSuccess,
			OldImage:   update.OldImage,
			NewImage:   update.NewImage,
			Source:     update.Source,
		})
		summary.Successful++
	}

	slog.Info("batch_update_completed",
		"total", summary.Total,
		"successful", summary.Successful,
		"errors", summary.Errors,
	)
	return summary
}

func batchError(item domain.BatchItem, err error) domain.BatchItemResult {
	return domain.BatchItemResult{
		RecipeID:   item.RecipeID,
		RecipeName: item.RecipeName,
		Status:     domain.BatchStatusError,
		Error:      err.Error(),
	}
}
