package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
)

type RequestImageUseCase struct {
	queue ports.ImageRequestQueue
}

func NewRequestImageUseCase(queue ports.ImageRequestQueue) *RequestImageUseCase {
	return &RequestImageUseCase{queue: queue}
}

func (uc *RequestImageUseCase) RequestImage(ctx context.Context, recipeID, recipeName, cuisine string) (*domain.ImageRequest, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "request recipe image", errors.New("recipe id is required"))
	}

	req := domain.ImageRequest{
		ID:          uuid.NewString(),
		RecipeID:    recipeID,
		RecipeName:  strings.TrimSpace(recipeName),
		Cuisine:     strings.TrimSpace(cuisine),
		RequestedAt: time.Now().UTC(),
	}
	if err := uc.queue.PublishImageRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("publish image request: %w", err)
	}
	return &req, nil
}
