package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
)

// ProviderStage is one step of the cascade. A stage with ContinueOnError
// keeps going through its remaining attempts after a failed one.
type ProviderStage struct {
	Provider        ports.ImageProvider
	Policy          QualityPolicy
	Source          domain.ImageSource
	ContinueOnError bool
}

type ResolveImageUseCase struct {
	stages   []ProviderStage
	scorer   RelevanceScorer
	fallback FallbackResolver
	recorder ports.ResolutionRecorder
}

func NewResolveImageUseCase(stages []ProviderStage, weights domain.ScoringWeights, recorder ports.ResolutionRecorder) *ResolveImageUseCase {
	active := make([]ProviderStage, 0, len(stages))
	for _, stage := range stages {
		if stage.Provider != nil {
			active = append(active, stage)
		}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &ResolveImageUseCase{
		stages:   active,
		scorer:   NewRelevanceScorer(weights),
		recorder: recorder,
	}
}

// Resolve walks the provider stages in order and returns the first accepted
// candidate, or a static fallback. It always returns a non-empty URL.
func (uc *ResolveImageUseCase) Resolve(ctx context.Context, req domain.SearchRequest) domain.Resolution {
	started := time.Now()
	req.Name = strings.TrimSpace(req.Name)
	req.Cuisine = strings.TrimSpace(req.Cuisine)

	terms := BuildQueryTerms(req.Name, req.Cuisine)
	if len(terms) > 0 {
		for _, stage := range uc.stages {
			stageStarted := time.Now()
			outcome := uc.runStage(ctx, stage, req, terms)
			uc.recorder.RecordStage(outcome.Provider, outcome.Kind, time.Since(stageStarted).Seconds())

			switch outcome.Kind {
			case domain.OutcomeTransportError:
				slog.Warn("provider_stage_failed",
					"provider", outcome.Provider,
					"recipe", req.Name,
					"error", outcome.Err,
				)
				continue
			case domain.OutcomeEmpty:
				slog.Debug("provider_stage_empty", "provider", outcome.Provider, "recipe", req.Name)
				continue
			}
			if !outcome.IsAccepted() {
				continue
			}

			res := domain.Resolution{
				URL:      outcome.Candidate.URL,
				Source:   stage.Source,
				Provider: outcome.Provider,
				Term:     outcome.Candidate.Term,
				Score:    outcome.Candidate.Score,
			}
			uc.finish(req, res, started)
			return res
		}
	}

	res := uc.fallback.Resolve(req.Name, req.Cuisine)
	uc.finish(req, res, started)
	return res
}

func (uc *ResolveImageUseCase) ResolveImage(ctx context.Context, name, cuisine string) string {
	return uc.Resolve(ctx, domain.SearchRequest{Name: name, Cuisine: cuisine}).URL
}

func (uc *ResolveImageUseCase) finish(req domain.SearchRequest, res domain.Resolution, started time.Time) {
	elapsed := time.Since(started)
	uc.recorder.RecordResolution(res.Source, elapsed.Seconds())
	slog.Info("image_resolved",
		"recipe", req.Name,
		"cuisine", req.Cuisine,
		"source", string(res.Source),
		"provider", res.Provider,
		"term", res.Term,
		"score", res.Score,
		"duration_ms", elapsed.Milliseconds(),
	)
}

func (uc *ResolveImageUseCase) runStage(
	ctx context.Context,
	stage ProviderStage,
	req domain.SearchRequest,
	terms []domain.QueryTerm,
) (outcome domain.ProviderOutcome) {
	name := stage.Provider.Name()
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.TransportFailure(name, fmt.Errorf("provider %s panicked: %v", name, r))
		}
	}()

	attempts := stage.Provider.Plan(terms)
	failed := 0
	var lastErr error
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return domain.TransportFailure(name, err)
		}

		candidates, err := stage.Provider.Fetch(ctx, attempt)
		if err != nil {
			if !stage.ContinueOnError {
				return domain.TransportFailure(name, err)
			}
			failed++
			lastErr = err
			slog.Warn("provider_attempt_failed",
				"provider", name,
				"term", attempt.Term.Text,
				"scope", attempt.Scope,
				"error", err,
			)
			continue
		}

		accepted := stage.Policy.Filter(candidates, req)
		if len(accepted) == 0 {
			continue
		}
		ranked := uc.scorer.Rank(accepted, req.Name, attempt.Term.Text)
		return domain.Accepted(name, ranked[0])
	}

	if failed > 0 && failed == len(attempts) {
		return domain.TransportFailure(name, lastErr)
	}
	return domain.Empty(name)
}

type noopRecorder struct{}

func (noopRecorder) RecordStage(string, domain.OutcomeKind, float64) {}
func (noopRecorder) RecordResolution(domain.ImageSource, float64)    {}
