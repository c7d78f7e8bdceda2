package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vinarmkumar/HappMeal/internal/config"
	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
	"github.com/vinarmkumar/HappMeal/internal/core/usecase"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/imagesearch/google"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/imagesearch/unsplash"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/queue/nats"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/repository/postgres"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/resilience"
	"github.com/vinarmkumar/HappMeal/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue    ports.ImageRequestQueue
	Repo     ports.RecipeImageRepository
	Resolver ports.ImageResolver
	Updater  ports.RecipeImageUpdater
	Requests ports.ImageRequestPublisher

	closeFn func()
}

// New wires the full application: storage, messaging and the image cascade.
// Resolver metrics are registered on registerer when it is not nil.
func New(ctx context.Context, cfg config.Config, service string, registerer prometheus.Registerer) (*App, error) {
	resolver, err := NewResolver(ctx, cfg, service, registerer)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRecipeImageRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup:         cfg.NATSQueueGroup,
		ClientName:         "happmeal-" + service,
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	updater := usecase.NewUpdateRecipeImageUseCase(repo, resolver, cfg.BatchDelay)
	requests := usecase.NewRequestImageUseCase(queue)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Repo:     repo,
		Resolver: resolver,
		Updater:  updater,
		Requests: requests,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewResolver builds the provider cascade. Providers without credentials are
// left out; with none configured every request resolves to a fallback image.
func NewResolver(ctx context.Context, cfg config.Config, service string, registerer prometheus.Registerer) (*usecase.ResolveImageUseCase, error) {
	weights, err := config.LoadScoringWeights(cfg.ScoringTuningFile)
	if err != nil {
		return nil, err
	}

	executor := resilience.NewExecutor(providerResilienceConfig(cfg))
	var recorder ports.ResolutionRecorder
	if registerer != nil {
		resolverMetrics := metrics.NewResolverMetrics(service, registerer)
		executor = executor.WithStateObserver(resolverMetrics.ObserveBreakerState)
		recorder = resolverMetrics
	}

	stages, err := providerStages(ctx, cfg, executor)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		slog.Warn("image_providers_disabled", "reason", "no provider credentials configured")
	}
	return usecase.NewResolveImageUseCase(stages, weights, recorder), nil
}

func providerStages(ctx context.Context, cfg config.Config, executor *resilience.Executor) ([]usecase.ProviderStage, error) {
	stages := make([]usecase.ProviderStage, 0, 3)

	if cfg.GoogleEnabled() {
		provider, err := google.New(ctx, cfg.GoogleAPIKey, cfg.GoogleSearchEngineID, google.Options{
			Endpoint: cfg.GoogleSearchEndpoint,
			Executor: executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init google image search: %w", err)
		}
		stages = append(stages, usecase.ProviderStage{
			Provider: provider,
			Policy:   usecase.TextSearchPolicy,
			Source:   domain.SourceGoogle,
		})
	}

	if cfg.UnsplashEnabled() {
		client := unsplash.New(cfg.UnsplashAccessKey, unsplash.Options{
			BaseURL:         cfg.UnsplashBaseURL,
			RequestsPerHour: cfg.UnsplashRequestsPerHour,
			Executor:        executor,
		})
		stages = append(stages,
			usecase.ProviderStage{
				Provider:        unsplash.NewCollectionsProvider(client, cfg.UnsplashCollections),
				Policy:          usecase.CollectionPolicy,
				Source:          domain.SourceUnsplashCollection,
				ContinueOnError: true,
			},
			usecase.ProviderStage{
				Provider: unsplash.NewSearchProvider(client),
				Policy:   usecase.ImageSearchPolicy,
				Source:   domain.SourceUnsplashSearch,
			},
		)
	}

	return stages, nil
}

func providerResilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.ProviderConfig()
	if cfg.ProviderRetryMaxAttempts > 0 {
		rc.RetryMaxAttempts = cfg.ProviderRetryMaxAttempts
	}
	rc.BreakerEnabled = cfg.ProviderBreakerEnabled
	if cfg.ProviderBreakerMinRequests > 0 {
		rc.BreakerMinRequests = uint32(cfg.ProviderBreakerMinRequests)
	}
	if cfg.ProviderBreakerFailureRatio > 0 {
		rc.BreakerFailureRatio = cfg.ProviderBreakerFailureRatio
	}
	if cfg.ProviderBreakerOpenTimeout > 0 {
		rc.BreakerOpenTimeout = cfg.ProviderBreakerOpenTimeout
	}
	return rc
}
