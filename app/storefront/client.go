package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/buyfresh/buyfresh/app/grocery"
)

const apiVersion = "2024-01-30"

// Client runs session-gated product searches against the storefront.
type Client struct {
	sessions   *SessionManager
	httpClient *http.Client
	baseURL    string
	userAgent  string
	storeName  string
}

func NewClient(sessions *SessionManager, httpClient *http.Client, baseURL, userAgent, storeName string) *Client {
	return &Client{
		sessions:   sessions,
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		storeName:  storeName,
	}
}

// Search queries the storefront's product endpoint. A failed attempt with a
// cached credential triggers exactly one forced re-authentication and one
// retry; the second failure is surfaced. The retry budget is 1, never more.
func (c *Client) Search(ctx context.Context, query string) ([]grocery.Product, error) {
	products, err := c.searchOnce(ctx, query)
	if err == nil {
		return products, nil
	}

	slog.Debug("Storefront search failed, re-authenticating", "query", query, "error", err)
	c.sessions.Invalidate()

	products, retryErr := c.searchOnce(ctx, query)
	if retryErr != nil {
		return nil, fmt.Errorf("storefront search failed after re-authentication: %w", retryErr)
	}
	return products, nil
}

func (c *Client) searchOnce(ctx context.Context, query string) ([]grocery.Product, error) {
	credential, err := c.sessions.Credential(ctx, c.storeName)
	if err != nil {
		return nil, err
	}

	searchURL := c.baseURL + "/api/v2/store_products?" + searchParams(query).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cookie", credential)
	req.Header.Set("Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search rejected: HTTP %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := make([]grocery.Product, 0, len(result.Items))
	for _, item := range result.Items {
		products = append(products, itemToProduct(item))
	}
	return products, nil
}

func searchParams(query string) url.Values {
	params := url.Values{}
	params.Set("fulfillment_type", "pickup")
	params.Set("ads_enabled", "false")
	params.Set("limit", "10")
	params.Set("offset", "0")
	params.Set("page", "1")
	params.Set("sort", "rank")
	params.Set("allow_autocorrect", "true")
	params.Set("search_provider", "ic")
	params.Set("search_term", query+" organic")
	params.Set("secondary_results", "true")
	return params
}

func itemToProduct(item storeItem) grocery.Product {
	planogram := grocery.UnknownPlanogram()
	if item.Aisle != "" {
		planogram.Aisle = item.Aisle
	}

	var images []string
	if item.Images.Tile.Large != "" {
		images = append(images, item.Images.Tile.Large)
	}

	return grocery.Product{
		ObjectID:  item.ID,
		Slug:      item.ID,
		Name:      item.Name,
		Price:     item.BasePrice,
		Size:      item.SizeString,
		Href:      "https://shop.wegmans.com/product/" + item.ID,
		Store:     "wegmans",
		Images:    images,
		Planogram: planogram,
	}
}
