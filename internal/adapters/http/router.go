package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vinarmkumar/HappMeal/internal/config"
	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
	"github.com/vinarmkumar/HappMeal/internal/observability/metrics"
)

const (
	serviceName     = "api"
	maxRequestBytes = 1 << 20
)

type Router struct {
	cfg      config.Config
	resolver ports.ImageResolver
	updater  ports.RecipeImageUpdater
	requests ports.ImageRequestPublisher
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	resolver ports.ImageResolver,
	updater ports.RecipeImageUpdater,
	requests ports.ImageRequestPublisher,
) *Router {
	return &Router{
		cfg:      cfg,
		resolver: resolver,
		updater:  updater,
		requests: requests,
	}
}

// WithMetrics exposes /metrics and instruments every request.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /v1/images/resolve", routed(rt.resolveImage))
	api.HandleFunc("GET /v1/recipes/{id}/image", routed(rt.getRecipeImage))
	api.HandleFunc("PATCH /v1/recipes/{id}/image", routed(rt.updateRecipeImage))
	api.HandleFunc("POST /v1/recipes/images/batch", routed(rt.batchUpdateImages))
	api.HandleFunc("POST /v1/recipes/{id}/image-requests", routed(rt.requestRecipeImage))

	var guarded http.Handler = api
	guarded = backpressureMiddleware(guarded, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait, rt.recordRejected)
	guarded = rateLimitMiddleware(guarded, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.recordRejected)
	mux.Handle("/v1/", guarded)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestLogMiddleware(handler)
}

func (rt *Router) recordRejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type resolveQuery struct {
	Name    string `json:"name" validate:"required,max=200"`
	Cuisine string `json:"cuisine" validate:"omitempty,max=80"`
}

func (rt *Router) resolveImage(w http.ResponseWriter, r *http.Request) {
	query := resolveQuery{
		Name:    strings.TrimSpace(r.URL.Query().Get("name")),
		Cuisine: strings.TrimSpace(r.URL.Query().Get("cuisine")),
	}
	if err := validateRequest("resolve image", query); err != nil {
		rt.writeError(w, r, err)
		return
	}

	resolution := rt.resolver.Resolve(r.Context(), domain.SearchRequest{Name: query.Name, Cuisine: query.Cuisine})
	writeJSON(w, http.StatusOK, resolution)
}

func (rt *Router) getRecipeImage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if err := validateRecipeID("get recipe image", id); err != nil {
		rt.writeError(w, r, err)
		return
	}

	image, err := rt.updater.GetImage(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, image)
}

type updateImageRequest struct {
	RecipeName string `json:"recipe_name" validate:"omitempty,max=200"`
	Cuisine    string `json:"cuisine" validate:"omitempty,max=80"`
}

func (rt *Router) updateRecipeImage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if err := validateRecipeID("update recipe image", id); err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req updateImageRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if err := validateRequest("update recipe image", req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	update, err := rt.updater.UpdateImage(r.Context(), id, req.RecipeName, req.Cuisine)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

type batchRecipe struct {
	RecipeID   string `json:"recipe_id" validate:"required,max=128"`
	RecipeName string `json:"recipe_name" validate:"omitempty,max=200"`
}

type batchUpdateRequest struct {
	Recipes []batchRecipe `json:"recipes" validate:"required,min=1,dive"`
	Cuisine string        `json:"cuisine" validate:"omitempty,max=80"`
}

func (rt *Router) batchUpdateImages(w http.ResponseWriter, r *http.Request) {
	var req batchUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if err := validateRequest("batch update images", req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if limit := rt.cfg.BatchMaxRecipes; limit > 0 && len(req.Recipes) > limit {
		rt.writeError(w, r, domain.WrapError(
			domain.ErrInvalidInput,
			"batch update images",
			fmt.Errorf("at most %d recipes per batch, got %d", limit, len(req.Recipes)),
		))
		return
	}

	items := make([]domain.BatchItem, 0, len(req.Recipes))
	for _, recipe := range req.Recipes {
		items = append(items, domain.BatchItem{RecipeID: recipe.RecipeID, RecipeName: recipe.RecipeName})
	}

	started := time.Now()
	summary := rt.updater.BatchUpdate(r.Context(), items, req.Cuisine)
	if rt.metrics != nil {
		rt.metrics.RecordBatch(serviceName, summary.Successful, summary.Errors, time.Since(started))
	}
	writeJSON(w, http.StatusOK, summary)
}

type imageRequestBody struct {
	RecipeName string `json:"recipe_name" validate:"omitempty,max=200"`
	Cuisine    string `json:"cuisine" validate:"omitempty,max=80"`
}

func (rt *Router) requestRecipeImage(w http.ResponseWriter, r *http.Request) {
	if rt.requests == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "asynchronous image requests are disabled"})
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if err := validateRecipeID("request recipe image", id); err != nil {
		rt.writeError(w, r, err)
		return
	}

	var body imageRequestBody
	if err := decodeOptionalJSON(w, r, &body); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if err := validateRequest("request recipe image", body); err != nil {
		rt.writeError(w, r, err)
		return
	}

	req, err := rt.requests.RequestImage(r.Context(), id, body.RecipeName, body.Cuisine)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, req)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	return nil
}

// decodeOptionalJSON accepts an empty body as the zero value.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, out any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := decodeJSON(w, r, out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("http_request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
