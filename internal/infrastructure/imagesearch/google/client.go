package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/infrastructure/resilience"
)

const (
	ProviderName   = "google"
	requestTimeout = 8 * time.Second

	// Creative Commons licences accepted for recipe thumbnails.
	licenceRights = "cc_publicdomain,cc_attribute,cc_sharealike,cc_noncommercial,cc_nonderived"
)

// Provider searches Google Programmable Search for recipe photos.
type Provider struct {
	svc      *customsearch.Service
	apiKey   string
	engineID string
	executor *resilience.Executor
}

type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Executor   *resilience.Executor
}

func New(ctx context.Context, apiKey, engineID string, options Options) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	engineID = strings.TrimSpace(engineID)
	if apiKey == "" || engineID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "google provider", errors.New("api key and search engine id are required"))
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	clientOptions := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint := strings.TrimSpace(options.Endpoint); endpoint != "" {
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	svc, err := customsearch.NewService(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return &Provider{
		svc:      svc,
		apiKey:   apiKey,
		engineID: engineID,
		executor: options.Executor,
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Plan(terms []domain.QueryTerm) []domain.SearchAttempt {
	out := make([]domain.SearchAttempt, 0, len(terms))
	for _, term := range terms {
		out = append(out, domain.SearchAttempt{Term: term})
	}
	return out
}

func (p *Provider) Fetch(ctx context.Context, attempt domain.SearchAttempt) ([]domain.Candidate, error) {
	call := func(callCtx context.Context) ([]*customsearch.Result, error) {
		callCtx, cancel := context.WithTimeout(callCtx, requestTimeout)
		defer cancel()

		res, err := p.svc.Cse.List().
			Q(attempt.Term.Text).
			Cx(p.engineID).
			SearchType("image").
			ImgSize("medium").
			ImgType("photo").
			Safe("active").
			Num(10).
			FileType("jpg,jpeg,png").
			Rights(licenceRights).
			Context(callCtx).
			Do(googleapi.QueryParameter("key", p.apiKey))
		if err != nil {
			return nil, fmt.Errorf("google image search: %w", err)
		}
		return res.Items, nil
	}

	var (
		items []*customsearch.Result
		err   error
	)
	if p.executor != nil {
		items, err = resilience.Call(ctx, p.executor, "google.image_search", call, classifyGoogleError)
	} else {
		items, err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded(err)
	}
	return toCandidates(items), nil
}

func toCandidates(items []*customsearch.Result) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		c := domain.Candidate{
			URL:         item.Link,
			Description: strings.TrimSpace(item.Title + " " + item.Snippet),
			Provider:    ProviderName,
		}
		if item.Image != nil {
			c.Width = int(item.Image.Width)
			c.Height = int(item.Image.Height)
		}
		out = append(out, c)
	}
	return out
}
