package unsplash

import (
	"context"
	"net/url"
	"strings"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// DefaultCollections are curated food photography collections.
var DefaultCollections = []string{"1114848", "1065976", "162213", "1319040", "3178572"}

const CollectionsProviderName = "unsplash_collections"

type CollectionsProvider struct {
	client      *Client
	collections []string
}

func NewCollectionsProvider(client *Client, collections []string) *CollectionsProvider {
	ids := make([]string, 0, len(collections))
	for _, id := range collections {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ids = append(ids, DefaultCollections...)
	}
	return &CollectionsProvider{client: client, collections: ids}
}

func (p *CollectionsProvider) Name() string { return CollectionsProviderName }

// Plan visits every collection once, all scored against the primary term.
func (p *CollectionsProvider) Plan(terms []domain.QueryTerm) []domain.SearchAttempt {
	if len(terms) == 0 {
		return nil
	}
	out := make([]domain.SearchAttempt, 0, len(p.collections))
	for _, id := range p.collections {
		out = append(out, domain.SearchAttempt{Term: terms[0], Scope: id})
	}
	return out
}

func (p *CollectionsProvider) Fetch(ctx context.Context, attempt domain.SearchAttempt) ([]domain.Candidate, error) {
	query := url.Values{}
	query.Set("per_page", "30")
	query.Set("orientation", "landscape")

	var photos []photo
	err := p.client.call(ctx, "unsplash.collection_photos", func(callCtx context.Context) error {
		photos = nil
		path := "/collections/" + url.PathEscape(attempt.Scope) + "/photos"
		return p.client.getJSON(callCtx, path, query, collectionTimeout, &photos, "collection photos")
	})
	if err != nil {
		return nil, err
	}
	return toCandidates(photos, CollectionsProviderName), nil
}
