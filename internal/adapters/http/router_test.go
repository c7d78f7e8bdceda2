package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vinarmkumar/HappMeal/internal/config"
	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/observability/metrics"
)

type resolverFake struct {
	lastReq domain.SearchRequest
}

func (f *resolverFake) Resolve(_ context.Context, req domain.SearchRequest) domain.Resolution {
	f.lastReq = req
	return domain.Resolution{URL: "https://img.example/pasta.jpg", Source: domain.SourceGoogle, Provider: "google", Term: req.Name, Score: 12}
}

func (f *resolverFake) ResolveImage(ctx context.Context, name, cuisine string) string {
	return f.Resolve(ctx, domain.SearchRequest{Name: name, Cuisine: cuisine}).URL
}

type updaterFake struct {
	getErr      error
	updateErr   error
	lastID      string
	lastName    string
	lastItems   []domain.BatchItem
	lastCuisine string
}

func (f *updaterFake) UpdateImage(_ context.Context, recipeID, recipeName, cuisine string) (*domain.RecipeImageUpdate, error) {
	f.lastID = recipeID
	f.lastName = recipeName
	f.lastCuisine = cuisine
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.RecipeImageUpdate{
		RecipeID:   recipeID,
		RecipeName: "Stored Name",
		OldImage:   "https://old.example/a.jpg",
		NewImage:   "https://new.example/b.jpg",
		Source:     domain.SourceUnsplashSearch,
	}, nil
}

func (f *updaterFake) BatchUpdate(_ context.Context, items []domain.BatchItem, cuisine string) domain.BatchSummary {
	f.lastItems = items
	f.lastCuisine = cuisine
	summary := domain.BatchSummary{Total: len(items)}
	for _, item := range items {
		summary.Successful++
		summary.Results = append(summary.Results, domain.BatchItemResult{
			RecipeID:   item.RecipeID,
			RecipeName: item.RecipeName,
			Status:     domain.BatchStatusSuccess,
		})
	}
	return summary
}

func (f *updaterFake) GetImage(_ context.Context, recipeID string) (*domain.RecipeImage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.RecipeImage{RecipeID: recipeID, RecipeName: "Pad Thai", ImageURL: "https://img.example/pad-thai.jpg"}, nil
}

type publisherFake struct {
	err error
}

func (f publisherFake) RequestImage(_ context.Context, recipeID, recipeName, cuisine string) (*domain.ImageRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImageRequest{ID: "req-1", RecipeID: recipeID, RecipeName: recipeName, Cuisine: cuisine}, nil
}

func newTestRouter(cfg config.Config, updater *updaterFake, publisher *publisherFake) http.Handler {
	if cfg.BatchMaxRecipes == 0 {
		cfg.BatchMaxRecipes = 3
	}
	if updater == nil {
		updater = &updaterFake{}
	}
	if publisher == nil {
		return NewRouter(cfg, &resolverFake{}, updater, nil).Handler()
	}
	return NewRouter(cfg, &resolverFake{}, updater, publisher).Handler()
}

func serve(handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthzEndpoint(t *testing.T) {
	res := serve(newTestRouter(config.Config{}, nil, nil), http.MethodGet, "/healthz", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header to be set")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-abc")
	res := httptest.NewRecorder()
	newTestRouter(config.Config{}, nil, nil).ServeHTTP(res, req)
	if got := res.Header().Get(requestIDHeader); got != "req-abc" {
		t.Fatalf("expected incoming request id to be echoed, got %q", got)
	}
}

func TestResolveImageRequiresName(t *testing.T) {
	res := serve(newTestRouter(config.Config{}, nil, nil), http.MethodGet, "/v1/images/resolve?name=%20%20", nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var body map[string]string
	decodeBody(t, res, &body)
	if !strings.Contains(body["error"], "name") {
		t.Fatalf("expected error to name the field, got %q", body["error"])
	}
}

func TestResolveImageReturnsResolution(t *testing.T) {
	resolver := &resolverFake{}
	handler := NewRouter(config.Config{}, resolver, &updaterFake{}, nil).Handler()

	res := serve(handler, http.MethodGet, "/v1/images/resolve?name=Carbonara&cuisine=Italian", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var got domain.Resolution
	decodeBody(t, res, &got)
	if got.Source != domain.SourceGoogle || got.URL == "" {
		t.Fatalf("unexpected resolution %+v", got)
	}
	if resolver.lastReq.Cuisine != "Italian" {
		t.Fatalf("expected cuisine to be forwarded, got %+v", resolver.lastReq)
	}
}

func TestGetRecipeImageReturns404ForNotFound(t *testing.T) {
	updater := &updaterFake{getErr: domain.WrapError(domain.ErrRecipeNotFound, "get", errors.New("id=missing"))}
	res := serve(newTestRouter(config.Config{}, updater, nil), http.MethodGet, "/v1/recipes/missing/image", nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetRecipeImageHidesInternalErrors(t *testing.T) {
	updater := &updaterFake{getErr: errors.New("pq: connection reset")}
	res := serve(newTestRouter(config.Config{}, updater, nil), http.MethodGet, "/v1/recipes/r1/image", nil)
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "pq:") {
		t.Fatalf("internal error details leaked: %s", res.Body.String())
	}
}

func TestUpdateRecipeImageAcceptsEmptyBody(t *testing.T) {
	updater := &updaterFake{}
	res := serve(newTestRouter(config.Config{}, updater, nil), http.MethodPatch, "/v1/recipes/r-42/image", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if updater.lastID != "r-42" || updater.lastName != "" {
		t.Fatalf("unexpected update call id=%q name=%q", updater.lastID, updater.lastName)
	}
	var got domain.RecipeImageUpdate
	decodeBody(t, res, &got)
	if got.OldImage == "" || got.NewImage == "" {
		t.Fatalf("expected old and new image in response, got %+v", got)
	}
}

func TestUpdateRecipeImageRejectsInvalidJSON(t *testing.T) {
	res := serve(newTestRouter(config.Config{}, nil, nil), http.MethodPatch, "/v1/recipes/r-42/image", "{not json")
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUpdateRecipeImageMapsTemporaryTo503(t *testing.T) {
	updater := &updaterFake{updateErr: domain.WrapError(domain.ErrTemporary, "upsert", errors.New("db down"))}
	res := serve(newTestRouter(config.Config{}, updater, nil), http.MethodPatch, "/v1/recipes/r-42/image",
		map[string]string{"recipe_name": "Ramen", "cuisine": "Japanese"})
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
	if updater.lastName != "Ramen" || updater.lastCuisine != "Japanese" {
		t.Fatalf("expected body fields to be forwarded, got name=%q cuisine=%q", updater.lastName, updater.lastCuisine)
	}
}

func TestBatchUpdateValidatesItems(t *testing.T) {
	payload := map[string]any{
		"recipes": []map[string]string{{"recipe_name": "Pho"}},
	}
	res := serve(newTestRouter(config.Config{}, nil, nil), http.MethodPost, "/v1/recipes/images/batch", payload)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var body map[string]string
	decodeBody(t, res, &body)
	if !strings.Contains(body["error"], "recipe_id") {
		t.Fatalf("expected error to mention recipe_id, got %q", body["error"])
	}
}

func TestBatchUpdateAllowsStoredNames(t *testing.T) {
	updater := &updaterFake{}
	payload := map[string]any{
		"recipes": []map[string]string{{"recipe_id": "r1"}, {"recipe_id": "r2", "recipe_name": "Laksa"}},
	}
	res := serve(newTestRouter(config.Config{}, updater, nil), http.MethodPost, "/v1/recipes/images/batch", payload)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if len(updater.lastItems) != 2 || updater.lastItems[0].RecipeName != "" || updater.lastItems[1].RecipeName != "Laksa" {
		t.Fatalf("unexpected batch items %+v", updater.lastItems)
	}
}

func TestBatchUpdateRejectsOversizedBatch(t *testing.T) {
	recipes := make([]map[string]string, 0, 4)
	for _, id := range []string{"a", "b", "c", "d"} {
		recipes = append(recipes, map[string]string{"recipe_id": id, "recipe_name": "Dish " + id})
	}
	res := serve(newTestRouter(config.Config{BatchMaxRecipes: 3}, nil, nil), http.MethodPost, "/v1/recipes/images/batch",
		map[string]any{"recipes": recipes})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestBatchUpdateReturnsSummaryAndRecordsMetrics(t *testing.T) {
	updater := &updaterFake{}
	m := metrics.NewHTTPServerMetrics(serviceName)
	handler := NewRouter(config.Config{BatchMaxRecipes: 10}, &resolverFake{}, updater, nil).WithMetrics(m).Handler()

	payload := map[string]any{
		"recipes": []map[string]string{
			{"recipe_id": "r1", "recipe_name": "Pho"},
			{"recipe_id": "r2", "recipe_name": "Banh Mi"},
		},
		"cuisine": "Vietnamese",
	}
	res := serve(handler, http.MethodPost, "/v1/recipes/images/batch", payload)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var summary domain.BatchSummary
	decodeBody(t, res, &summary)
	if summary.Total != 2 || summary.Successful != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if updater.lastCuisine != "Vietnamese" || len(updater.lastItems) != 2 {
		t.Fatalf("unexpected batch call cuisine=%q items=%v", updater.lastCuisine, updater.lastItems)
	}

	scrape := serve(handler, http.MethodGet, "/metrics", nil)
	if !strings.Contains(scrape.Body.String(), "happmeal_batch_items_total") {
		t.Fatalf("expected batch metrics in scrape output")
	}
}

func TestRequestRecipeImageReturns202(t *testing.T) {
	res := serve(newTestRouter(config.Config{}, nil, &publisherFake{}), http.MethodPost, "/v1/recipes/r7/image-requests",
		map[string]string{"recipe_name": "Tacos", "cuisine": "Mexican"})
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var got domain.ImageRequest
	decodeBody(t, res, &got)
	if got.RecipeID != "r7" || got.RecipeName != "Tacos" {
		t.Fatalf("unexpected image request %+v", got)
	}
}

func TestRequestRecipeImageWithoutQueueReturns503(t *testing.T) {
	res := serve(newTestRouter(config.Config{}, nil, nil), http.MethodPost, "/v1/recipes/r7/image-requests", nil)
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestRequestRecipeImageMapsTemporaryTo503(t *testing.T) {
	publisher := &publisherFake{err: domain.WrapError(domain.ErrTemporary, "publish", errors.New("nats down"))}
	res := serve(newTestRouter(config.Config{}, nil, publisher), http.MethodPost, "/v1/recipes/r7/image-requests", nil)
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := newTestRouter(config.Config{APIRateLimitRPS: 1, APIRateLimitBurst: 1}, nil, nil)

	first := serve(handler, http.MethodGet, "/v1/recipes/r1/image", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", first.Code)
	}

	second := serve(handler, http.MethodGet, "/v1/recipes/r1/image", nil)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}

	health := serve(handler, http.MethodGet, "/healthz", nil)
	if health.Code != http.StatusOK {
		t.Fatalf("health checks must bypass the rate limit, got %d", health.Code)
	}
}

func TestBackpressureMiddlewareReturns503WhenSaturated(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int, 1)

	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	var rejected []string
	handler := backpressureMiddleware(base, 1, 20*time.Millisecond, func(reason string) {
		rejected = append(rejected, reason)
	})

	go func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/images/resolve", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		done <- res.Code
	}()

	<-started

	req2 := httptest.NewRequest(http.MethodGet, "/v1/images/resolve", nil)
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for saturated backpressure gate, got %d", res2.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(bytes.NewReader(res2.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode overload response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected overload error message in response")
	}
	if len(rejected) != 1 || rejected[0] != rejectReasonOverloaded {
		t.Fatalf("expected one overload rejection, got %v", rejected)
	}

	close(release)

	select {
	case code := <-done:
		if code != http.StatusNoContent {
			t.Fatalf("first request expected 204, got %d", code)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for first request completion")
	}
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.WrapError(domain.ErrInvalidInput, "op", errors.New("x")), http.StatusBadRequest},
		{domain.WrapError(domain.ErrRecipeNotFound, "op", errors.New("x")), http.StatusNotFound},
		{domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
			t.Fatalf("mapErrorToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
