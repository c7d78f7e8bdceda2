package unsplash

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL         = "https://api.unsplash.com"
	DefaultRequestsPerHour = 50

	collectionTimeout = 5 * time.Second
	searchTimeout     = 8 * time.Second
)

// Client talks to the Unsplash REST API. It is safe for concurrent use and
// shared by the collection and search providers.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

type Options struct {
	BaseURL         string
	HTTPClient      *http.Client
	RequestsPerHour int
	Executor        *resilience.Executor
}

func New(accessKey string, options Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: searchTimeout}
	}

	var limiter *rate.Limiter
	if options.RequestsPerHour > 0 {
		burst := options.RequestsPerHour
		if burst > 10 {
			burst = 10
		}
		limiter = rate.NewLimiter(rate.Limit(float64(options.RequestsPerHour)/3600.0), burst)
	}

	return &Client{
		baseURL:    baseURL,
		accessKey:  strings.TrimSpace(accessKey),
		httpClient: httpClient,
		limiter:    limiter,
		executor:   options.Executor,
	}
}

type photo struct {
	ID             string  `json:"id"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Likes          int     `json:"likes"`
	Downloads      int     `json:"downloads"`
	Description    *string `json:"description"`
	AltDescription *string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

func (p photo) toCandidate(provider string) domain.Candidate {
	return domain.Candidate{
		URL:                 p.URLs.Regular,
		Width:               p.Width,
		Height:              p.Height,
		Description:         strings.TrimSpace(deref(p.Description) + " " + deref(p.AltDescription)),
		Popularity:          float64(p.Likes),
		SecondaryPopularity: float64(p.Downloads),
		Provider:            provider,
	}
}

func toCandidates(photos []photo, provider string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.toCandidate(provider))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c *Client) call(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.limiter != nil && !c.limiter.Allow() {
		return &RateLimitedError{Operation: operation}
	}
	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, fn, classifyUnsplashError)
	} else {
		err = fn(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(operation, err)
	}
	return nil
}
