package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

type recipeImageRepoFake struct {
	stored    map[string]*domain.RecipeImage
	getErr    error
	upsertErr error
	upserts   int
}

func (f *recipeImageRepoFake) GetByRecipeID(_ context.Context, recipeID string) (*domain.RecipeImage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	image, ok := f.stored[recipeID]
	if !ok {
		return nil, domain.WrapError(domain.ErrRecipeNotFound, "get recipe image", errors.New(recipeID))
	}
	copyImage := *image
	return &copyImage, nil
}

func (f *recipeImageRepoFake) Upsert(_ context.Context, image *domain.RecipeImage) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.stored == nil {
		f.stored = map[string]*domain.RecipeImage{}
	}
	copyImage := *image
	f.stored[image.RecipeID] = &copyImage
	f.upserts++
	return nil
}

type resolverFake struct {
	requests []domain.SearchRequest
}

func (f *resolverFake) Resolve(_ context.Context, req domain.SearchRequest) domain.Resolution {
	f.requests = append(f.requests, req)
	return FallbackResolver{}.Resolve(req.Name, req.Cuisine)
}

func (f *resolverFake) ResolveImage(ctx context.Context, name, cuisine string) string {
	return f.Resolve(ctx, domain.SearchRequest{Name: name, Cuisine: cuisine}).URL
}

func TestUpdateImageStoresResolution(t *testing.T) {
	repo := &recipeImageRepoFake{stored: map[string]*domain.RecipeImage{
		"r-1": {RecipeID: "r-1", RecipeName: "Old Name", Cuisine: "Mexican", ImageURL: "https://old/img"},
	}}
	resolver := &resolverFake{}
	uc := NewUpdateRecipeImageUseCase(repo, resolver, 0)
	uc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	update, err := uc.UpdateImage(context.Background(), "r-1", "Fish Tacos", "")
	if err != nil {
		t.Fatalf("update image: %v", err)
	}
	if update.OldImage != "https://old/img" {
		t.Fatalf("expected old image to be reported, got %q", update.OldImage)
	}
	if update.Source != domain.SourceFallbackDish {
		t.Fatalf("unexpected source %s", update.Source)
	}
	if resolver.requests[0].Cuisine != "Mexican" {
		t.Fatalf("expected stored cuisine to be reused, got %q", resolver.requests[0].Cuisine)
	}
	stored := repo.stored["r-1"]
	if stored.ImageURL != update.NewImage || stored.RecipeName != "Fish Tacos" || !stored.UpdatedAt.Equal(uc.now()) {
		t.Fatalf("unexpected stored image: %+v", stored)
	}
	if update.SearchTerm != "fish" || stored.SearchTerm != update.SearchTerm {
		t.Fatalf("expected the matched term to be reported and stored, got update=%q stored=%q", update.SearchTerm, stored.SearchTerm)
	}
}

func TestUpdateImageSearchTermWithoutMatchedTerm(t *testing.T) {
	repo := &recipeImageRepoFake{}
	uc := NewUpdateRecipeImageUseCase(repo, &resolverFake{}, 0)

	update, err := uc.UpdateImage(context.Background(), "r-9", "Zzqx Wobble", "Nonexistent")
	if err != nil {
		t.Fatalf("update image: %v", err)
	}
	if update.Source != domain.SourceFallbackGeneric {
		t.Fatalf("expected generic fallback, got %s", update.Source)
	}
	if update.SearchTerm != "Zzqx Wobble Nonexistent" {
		t.Fatalf("expected name and cuisine as search term, got %q", update.SearchTerm)
	}
}

func TestUpdateImageUsesStoredName(t *testing.T) {
	repo := &recipeImageRepoFake{stored: map[string]*domain.RecipeImage{
		"r-2": {RecipeID: "r-2", RecipeName: "Beef Stew"},
	}}
	resolver := &resolverFake{}
	uc := NewUpdateRecipeImageUseCase(repo, resolver, 0)

	if _, err := uc.UpdateImage(context.Background(), "r-2", " ", "French"); err != nil {
		t.Fatalf("update image: %v", err)
	}
	if resolver.requests[0].Name != "Beef Stew" {
		t.Fatalf("expected stored name, got %q", resolver.requests[0].Name)
	}
}

func TestUpdateImageUnknownRecipeWithoutName(t *testing.T) {
	uc := NewUpdateRecipeImageUseCase(&recipeImageRepoFake{}, &resolverFake{}, 0)
	_, err := uc.UpdateImage(context.Background(), "missing", "", "")
	if !domain.IsKind(err, domain.ErrRecipeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateImageRequiresID(t *testing.T) {
	uc := NewUpdateRecipeImageUseCase(&recipeImageRepoFake{}, &resolverFake{}, 0)
	_, err := uc.UpdateImage(context.Background(), "", "Pizza", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateImageRepositoryFailure(t *testing.T) {
	repoErr := errors.New("db down")
	uc := NewUpdateRecipeImageUseCase(&recipeImageRepoFake{getErr: repoErr}, &resolverFake{}, 0)
	_, err := uc.UpdateImage(context.Background(), "r-1", "Pizza", "")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}

	uc = NewUpdateRecipeImageUseCase(&recipeImageRepoFake{upsertErr: repoErr}, &resolverFake{}, 0)
	_, err = uc.UpdateImage(context.Background(), "r-1", "Pizza", "")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected upsert error, got %v", err)
	}
}

func TestBatchUpdateSummary(t *testing.T) {
	repo := &recipeImageRepoFake{}
	resolver := &resolverFake{}
	uc := NewUpdateRecipeImageUseCase(repo, resolver, time.Millisecond)

	summary := uc.BatchUpdate(context.Background(), []domain.BatchItem{
		{RecipeID: "a", RecipeName: "Salmon Teriyaki"},
		{RecipeID: "", RecipeName: "No ID"},
		{RecipeID: "c", RecipeName: "Zzqx"},
	}, "")

	if summary.Total != 3 || summary.Successful != 2 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Results[1].Status != domain.BatchStatusError || summary.Results[1].Error == "" {
		t.Fatalf("expected second item to fail: %+v", summary.Results[1])
	}
	if summary.Results[2].Source != domain.SourceFallbackGeneric {
		t.Fatalf("unexpected source for third item: %s", summary.Results[2].Source)
	}
	for _, req := range resolver.requests {
		if req.Cuisine != DefaultBatchCuisine {
			t.Fatalf("expected default cuisine, got %q", req.Cuisine)
		}
	}
}

func TestBatchUpdateWaitsBetweenItems(t *testing.T) {
	uc := NewUpdateRecipeImageUseCase(&recipeImageRepoFake{}, &resolverFake{}, 30*time.Millisecond)
	started := time.Now()
	uc.BatchUpdate(context.Background(), []domain.BatchItem{
		{RecipeID: "a", RecipeName: "Soup"},
		{RecipeID: "b", RecipeName: "Salad"},
		{RecipeID: "c", RecipeName: "Cake"},
	}, "Italian")
	if elapsed := time.Since(started); elapsed < 50*time.Millisecond {
		t.Fatalf("expected pacing between items, took %s", elapsed)
	}
}

func TestBatchUpdateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := &recipeImageRepoFake{}
	uc := NewUpdateRecipeImageUseCase(repo, &resolverFake{}, time.Millisecond)

	summary := uc.BatchUpdate(ctx, []domain.BatchItem{{RecipeID: "a", RecipeName: "Soup"}, {RecipeID: "b", RecipeName: "Salad"}}, "")
	if summary.Errors != 2 || summary.Successful != 0 || len(summary.Results) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no writes after cancellation")
	}
}
