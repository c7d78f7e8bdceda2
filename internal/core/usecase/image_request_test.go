package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

type imageQueueFake struct {
	published []domain.ImageRequest
	err       error
}

func (f *imageQueueFake) PublishImageRequested(_ context.Context, req domain.ImageRequest) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, req)
	return nil
}

func (f *imageQueueFake) SubscribeImageRequested(context.Context, func(context.Context, domain.ImageRequest) error) error {
	return nil
}

func TestRequestImagePublishes(t *testing.T) {
	queue := &imageQueueFake{}
	uc := NewRequestImageUseCase(queue)

	req, err := uc.RequestImage(context.Background(), " r-9 ", "Pad Thai ", "Thai")
	if err != nil {
		t.Fatalf("request image: %v", err)
	}
	if req.ID == "" || req.RequestedAt.IsZero() {
		t.Fatalf("expected id and timestamp: %+v", req)
	}
	if len(queue.published) != 1 || queue.published[0].RecipeID != "r-9" || queue.published[0].RecipeName != "Pad Thai" {
		t.Fatalf("unexpected published requests: %+v", queue.published)
	}
}

func TestRequestImageValidation(t *testing.T) {
	uc := NewRequestImageUseCase(&imageQueueFake{})
	if _, err := uc.RequestImage(context.Background(), "", "x", ""); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRequestImagePublishFailure(t *testing.T) {
	queueErr := errors.New("nats closed")
	uc := NewRequestImageUseCase(&imageQueueFake{err: queueErr})
	if _, err := uc.RequestImage(context.Background(), "r-1", "", ""); !errors.Is(err, queueErr) {
		t.Fatalf("expected queue error, got %v", err)
	}
}
