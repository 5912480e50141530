// Package search queries the hosted product index: ranked free-text search
// for matching ingredients to products, and exact re-lookup by record
// identifier for restoring previously shared lists.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/buyfresh/buyfresh/app/grocery"
)

const (
	indexName   = "products"
	searchAgent = "buyfresh (go)"
)

// Client is a thin client for the hosted index's multi-query endpoint.
type Client struct {
	httpClient  *http.Client
	host        string
	appID       string
	apiKey      string
	userToken   string
	storeNumber string
}

func NewClient(httpClient *http.Client, host, appID, apiKey, userToken, storeNumber string) *Client {
	return &Client{
		httpClient:  httpClient,
		host:        host,
		appID:       appID,
		apiKey:      apiKey,
		userToken:   userToken,
		storeNumber: storeNumber,
	}
}

// Search runs a free-text query scoped to the configured store and in-store
// fulfillment, returning ranked hits as products.
func (c *Client) Search(ctx context.Context, query string) ([]grocery.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	request := queriesRequest{
		Requests: []indexRequest{
			{
				IndexName:             indexName,
				Query:                 query,
				Filters:               c.storeFilters(),
				Analytics:             true,
				AnalyticsTags:         []string{"product-search", "organic", "store-" + c.storeNumber},
				ClickAnalytics:        true,
				AttributesToHighlight: []string{},
				Facets:                []string{"*"},
				RuleContexts:          []string{"product-search", "organic"},
				ResponseFields:        defaultResponseFields(),
				UserToken:             c.userToken,
			},
			{
				IndexName:             indexName,
				Query:                 query,
				Filters:               c.storeFilters(),
				HitsPerPage:           30,
				Analytics:             true,
				AnalyticsTags:         []string{"product-search", "boosted"},
				AttributesToHighlight: []string{},
				Facets:                []string{"*"},
				RuleContexts:          []string{"boosted"},
				ResponseFields:        defaultResponseFields(),
				UserToken:             c.userToken,
			},
		},
	}

	response, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}

	// Hits of the first (organic) result; the boosted query only feeds the
	// provider's ranking.
	if len(response.Results) == 0 {
		return []grocery.Product{}, nil
	}

	return mapHits(response.Results[0].Hits), nil
}

// FetchByIDs restores a shared list's products. When every item carries the
// index's durable record identifier, one OR-combined filter query resolves
// the whole batch; results come back in request order with unmatched entries
// dropped. Items lacking identifiers, or a failed batch query, fall back to
// per-slug lookup.
func (c *Client) FetchByIDs(ctx context.Context, items []grocery.ListItem) ([]grocery.Product, error) {
	if len(items) == 0 {
		return []grocery.Product{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ObjectID == "" {
			break
		}
		ids = append(ids, item.ObjectID)
	}

	if len(ids) == len(items) {
		products, err := c.fetchByObjectIDs(ctx, ids)
		if err == nil {
			return products, nil
		}
		// Partial infrastructure failure; the slug path still works.
	}

	return c.fetchBySlugs(ctx, items), nil
}

func (c *Client) fetchByObjectIDs(ctx context.Context, ids []string) ([]grocery.Product, error) {
	clauses := make([]string, 0, len(ids))
	for _, id := range ids {
		clauses = append(clauses, fmt.Sprintf("objectID:%q", id))
	}
	filters := c.storeFilters() + " AND (" + strings.Join(clauses, " OR ") + ")"

	request := queriesRequest{
		Requests: []indexRequest{
			{
				IndexName:             indexName,
				Query:                 "",
				Filters:               filters,
				HitsPerPage:           1000,
				AttributesToHighlight: []string{},
				Facets:                []string{"*"},
				ResponseFields:        []string{"hits", "hitsPerPage", "nbHits", "page"},
				UserToken:             c.userToken,
			},
		},
	}

	response, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(response.Results) == 0 {
		return []grocery.Product{}, nil
	}

	byID := make(map[string]productHit, len(response.Results[0].Hits))
	for _, hit := range response.Results[0].Hits {
		byID[hit.ObjectID] = hit
	}

	// Request order, misses dropped.
	products := make([]grocery.Product, 0, len(ids))
	for _, id := range ids {
		if hit, ok := byID[id]; ok {
			products = append(products, hitToProduct(hit))
		}
	}
	return products, nil
}

// fetchBySlugs looks every item up with its slug as an exact phrase, fanned
// out concurrently, then matches the hits back by slug: exact first, then
// case-insensitive, trying the URL-decoded slug as well. A miss drops the
// item; it never fails the batch.
func (c *Client) fetchBySlugs(ctx context.Context, items []grocery.ListItem) []grocery.Product {
	results := FanOut(ctx, items, func(ctx context.Context, item grocery.ListItem) (*grocery.Product, error) {
		return c.lookupSlug(ctx, item.Slug)
	})

	products := make([]grocery.Product, 0, len(items))
	for _, product := range results {
		if product != nil {
			products = append(products, *product)
		}
	}
	return products
}

func (c *Client) lookupSlug(ctx context.Context, slug string) (*grocery.Product, error) {
	request := queriesRequest{
		Requests: []indexRequest{
			{
				IndexName:             indexName,
				Query:                 fmt.Sprintf("%q", slug),
				Filters:               c.storeFilters(),
				HitsPerPage:           50,
				AttributesToHighlight: []string{},
				Facets:                []string{"*"},
				ResponseFields:        []string{"hits", "hitsPerPage", "nbHits", "page"},
				UserToken:             c.userToken,
			},
		},
	}

	response, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(response.Results) == 0 {
		return nil, nil
	}

	hits := response.Results[0].Hits
	decoded, decodeErr := url.QueryUnescape(slug)
	if decodeErr != nil {
		decoded = slug
	}

	for _, hit := range hits {
		if hit.Slug == slug || hit.Slug == decoded {
			product := hitToProduct(hit)
			return &product, nil
		}
	}
	for _, hit := range hits {
		if strings.EqualFold(hit.Slug, slug) || strings.EqualFold(hit.Slug, decoded) {
			product := hitToProduct(hit)
			return &product, nil
		}
	}

	return nil, nil
}

func (c *Client) post(ctx context.Context, request queriesRequest) (*queriesResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	params := url.Values{}
	params.Set("x-algolia-agent", searchAgent)
	params.Set("x-algolia-api-key", c.apiKey)
	params.Set("x-algolia-application-id", c.appID)
	endpoint := c.host + "/1/indexes/*/queries?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: HTTP %d", resp.StatusCode)
	}

	var response queriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &response, nil
}

func (c *Client) storeFilters() string {
	return fmt.Sprintf(
		"storeNumber:%s AND fulfilmentType:instore AND excludeFromWeb:false AND isSoldAtStore:true",
		c.storeNumber)
}

func defaultResponseFields() []string {
	return []string{
		"hits", "facets", "hitsPerPage", "index", "nbHits", "nbPages", "page", "query",
	}
}

func mapHits(hits []productHit) []grocery.Product {
	products := make([]grocery.Product, 0, len(hits))
	for _, hit := range hits {
		products = append(products, hitToProduct(hit))
	}
	return products
}

func hitToProduct(hit productHit) grocery.Product {
	planogram := grocery.UnknownPlanogram()
	if hit.Planogram != nil {
		planogram = grocery.Planogram{
			Aisle:     hit.Planogram.Aisle,
			Section:   hit.Planogram.Section,
			Shelf:     hit.Planogram.Shelf,
			AisleSide: hit.Planogram.AisleSide,
		}
	}

	// In-store price first, delivery price as fallback, 0 when the record
	// carries neither.
	price := 0.0
	if hit.PriceInStore != nil {
		price = hit.PriceInStore.Amount
	} else if hit.PriceDelivery != nil {
		price = hit.PriceDelivery.Amount
	}

	return grocery.Product{
		ObjectID:  hit.ObjectID,
		Slug:      hit.Slug,
		Name:      hit.ProductName,
		Price:     price,
		Size:      hit.PackSize,
		Href:      "https://www.wegmans.com/shop/product/" + hit.Slug,
		Store:     "wegmans",
		Images:    hit.Images,
		Planogram: planogram,
	}
}
