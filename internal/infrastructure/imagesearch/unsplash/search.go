package unsplash

import (
	"context"
	"net/url"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

const SearchProviderName = "unsplash_search"

type SearchProvider struct {
	client *Client
}

func NewSearchProvider(client *Client) *SearchProvider {
	return &SearchProvider{client: client}
}

func (p *SearchProvider) Name() string { return SearchProviderName }

func (p *SearchProvider) Plan(terms []domain.QueryTerm) []domain.SearchAttempt {
	out := make([]domain.SearchAttempt, 0, len(terms))
	for _, term := range terms {
		out = append(out, domain.SearchAttempt{Term: term})
	}
	return out
}

func (p *SearchProvider) Fetch(ctx context.Context, attempt domain.SearchAttempt) ([]domain.Candidate, error) {
	query := url.Values{}
	query.Set("query", attempt.Term.Text)
	query.Set("per_page", "20")
	query.Set("orientation", "landscape")
	query.Set("order_by", "relevant")
	query.Set("content_filter", "low")

	var response struct {
		Results []photo `json:"results"`
	}
	err := p.client.call(ctx, "unsplash.search_photos", func(callCtx context.Context) error {
		response.Results = nil
		return p.client.getJSON(callCtx, "/search/photos", query, searchTimeout, &response, "search photos")
	})
	if err != nil {
		return nil, err
	}
	return toCandidates(response.Results, SearchProviderName), nil
}
