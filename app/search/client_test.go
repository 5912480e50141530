package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/buyfresh/buyfresh/app/grocery"
)

// fakeIndex serves the multi-query endpoint over a small in-memory catalog.
type fakeIndex struct {
	mu       sync.Mutex
	catalog  []productHit
	requests []indexRequest
	failAll  bool
}

func (f *fakeIndex) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail := f.failAll
		f.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var request queriesRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, request.Requests...)
		f.mu.Unlock()

		type result struct {
			Hits   []productHit `json:"hits"`
			NbHits int          `json:"nbHits"`
		}
		var results []result
		for _, req := range request.Requests {
			hits := f.match(req)
			results = append(results, result{Hits: hits, NbHits: len(hits)})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	})
}

// match mimics the hosted index just enough for the client's two query
// shapes: objectID filter clauses and free-text (or quoted slug) queries.
func (f *fakeIndex) match(req indexRequest) []productHit {
	var hits []productHit
	for _, hit := range f.catalog {
		if strings.Contains(req.Filters, "objectID:") {
			if strings.Contains(req.Filters, fmt.Sprintf("objectID:%q", hit.ObjectID)) {
				hits = append(hits, hit)
			}
			continue
		}
		query := strings.Trim(req.Query, `"`)
		if query == "" ||
			strings.Contains(strings.ToLower(hit.ProductName), strings.ToLower(query)) ||
			strings.EqualFold(hit.Slug, query) {
			hits = append(hits, hit)
		}
	}
	return hits
}

func newTestClient(t *testing.T, index *fakeIndex) *Client {
	t.Helper()
	server := httptest.NewServer(index.handler())
	t.Cleanup(server.Close)
	return NewClient(&http.Client{Timeout: 5 * time.Second},
		server.URL, "TESTAPP", "test-key", "anonymous-test", "156")
}

func testCatalog() []productHit {
	price := func(v float64) *hitPrice { return &hitPrice{Amount: v} }
	return []productHit{
		{
			ObjectID:     "obj-1",
			Slug:         "organic-broccoli",
			ProductName:  "Organic Broccoli Crowns",
			PackSize:     "1 head",
			Images:       []string{"https://img/broccoli.jpg"},
			PriceInStore: price(2.49),
			Planogram:    &hitPlanogram{Aisle: "07", Shelf: "2", AisleSide: "Left", Section: "Produce"},
		},
		{
			ObjectID:      "obj-2",
			Slug:          "soy-sauce-low-sodium",
			ProductName:   "Low-Sodium Soy Sauce",
			PackSize:      "15 fl oz",
			PriceDelivery: price(4.99),
		},
		{
			ObjectID:    "obj-3",
			Slug:        "jasmine-rice",
			ProductName: "Jasmine Rice",
			PackSize:    "5 lb",
		},
	}
}

func TestSearchMapsHits(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	products, err := client.Search(context.Background(), "broccoli")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got: %d", len(products))
	}

	p := products[0]
	if p.Name != "Organic Broccoli Crowns" {
		t.Errorf("Unexpected name: %q", p.Name)
	}
	if p.Price != 2.49 {
		t.Errorf("Expected in-store price, got: %v", p.Price)
	}
	if p.Planogram.Aisle != "07" || p.Planogram.Section != "Produce" {
		t.Errorf("Unexpected planogram: %+v", p.Planogram)
	}
	if !strings.HasSuffix(p.Href, "/organic-broccoli") {
		t.Errorf("Unexpected href: %q", p.Href)
	}
}

func TestSearchPriceFallback(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	products, err := client.Search(context.Background(), "soy sauce")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got: %d", len(products))
	}
	if products[0].Price != 4.99 {
		t.Errorf("Expected delivery price fallback, got: %v", products[0].Price)
	}

	products, err = client.Search(context.Background(), "jasmine")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 1 || products[0].Price != 0 {
		t.Errorf("Expected price 0 when no price present, got: %+v", products)
	}
}

func TestSearchUnknownPlanogram(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	products, err := client.Search(context.Background(), "jasmine")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got: %d", len(products))
	}
	p := products[0].Planogram
	if p.Aisle != "Unknown" || p.Shelf != "Unknown" || p.Section != "Unknown" || p.AisleSide != "Unknown" {
		t.Errorf("Expected all-Unknown planogram, got: %+v", p)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	if _, err := client.Search(context.Background(), "   "); err == nil {
		t.Error("Expected error for empty query, got none")
	}
}

func TestSearchStoreScopedFilters(t *testing.T) {
	index := &fakeIndex{catalog: testCatalog()}
	client := newTestClient(t, index)

	if _, err := client.Search(context.Background(), "rice"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	index.mu.Lock()
	defer index.mu.Unlock()
	if len(index.requests) == 0 {
		t.Fatal("Expected recorded requests")
	}
	filters := index.requests[0].Filters
	for _, clause := range []string{"storeNumber:156", "fulfilmentType:instore", "excludeFromWeb:false", "isSoldAtStore:true"} {
		if !strings.Contains(filters, clause) {
			t.Errorf("Expected filter clause %q in %q", clause, filters)
		}
	}
}

func TestFetchByIDsPreservesOrder(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	items := []grocery.ListItem{
		{ObjectID: "obj-3", Slug: "jasmine-rice", Ingredient: "rice"},
		{ObjectID: "obj-9", Slug: "missing", Ingredient: "unicorn"},
		{ObjectID: "obj-1", Slug: "organic-broccoli", Ingredient: "broccoli"},
	}

	products, err := client.FetchByIDs(context.Background(), items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Request order with the unmatched entry omitted, never null-padded.
	if len(products) != 2 {
		t.Fatalf("Expected 2 products, got: %d", len(products))
	}
	if products[0].ObjectID != "obj-3" || products[1].ObjectID != "obj-1" {
		t.Errorf("Expected request order preserved, got: %q, %q",
			products[0].ObjectID, products[1].ObjectID)
	}
}

func TestFetchByIDsSlugFallback(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	// Second item has no objectID, so the whole batch goes the slug route.
	items := []grocery.ListItem{
		{ObjectID: "obj-1", Slug: "organic-broccoli", Ingredient: "broccoli"},
		{Slug: "Jasmine-Rice", Ingredient: "rice"},
		{Slug: "no-such-slug", Ingredient: "unicorn"},
	}

	products, err := client.FetchByIDs(context.Background(), items)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("Expected 2 products (miss dropped), got: %d", len(products))
	}
	if products[0].Slug != "organic-broccoli" {
		t.Errorf("Expected exact slug match first, got: %q", products[0].Slug)
	}
	// "Jasmine-Rice" only matches case-insensitively.
	if products[1].Slug != "jasmine-rice" {
		t.Errorf("Expected case-insensitive slug match, got: %q", products[1].Slug)
	}
}

func TestFetchByIDsEmpty(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	products, err := client.FetchByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("Expected empty result, got: %v", products)
	}
}

func TestSearchBatchPartialFailureIsolation(t *testing.T) {
	index := &fakeIndex{catalog: testCatalog()}
	server := httptest.NewServer(index.handler())
	defer server.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	healthy := NewClient(&http.Client{Timeout: 5 * time.Second},
		server.URL, "TESTAPP", "test-key", "anonymous-test", "156")
	broken := NewClient(&http.Client{Timeout: 5 * time.Second},
		failing.URL, "TESTAPP", "test-key", "anonymous-test", "156")

	results := healthy.SearchBatch(context.Background(), []string{"broccoli", "rice"})
	if len(results) != 2 {
		t.Fatalf("Expected 2 result slots, got: %d", len(results))
	}
	if len(results[0]) != 1 || len(results[1]) != 1 {
		t.Errorf("Expected hits in both slots, got: %d and %d", len(results[0]), len(results[1]))
	}

	// Every query failing still yields one (empty) slot per query.
	results = broken.SearchBatch(context.Background(), []string{"broccoli", "rice"})
	if len(results) != 2 {
		t.Fatalf("Expected 2 result slots, got: %d", len(results))
	}
	for i, slot := range results {
		if slot == nil || len(slot) != 0 {
			t.Errorf("Slot %d: expected empty non-nil slice, got: %v", i, slot)
		}
	}
}

func TestSearchBatchOrderPreserved(t *testing.T) {
	client := newTestClient(t, &fakeIndex{catalog: testCatalog()})

	queries := []string{"broccoli", "soy sauce", "jasmine"}
	results := client.SearchBatch(context.Background(), queries)

	if len(results) != 3 {
		t.Fatalf("Expected 3 result slots, got: %d", len(results))
	}
	expected := []string{"obj-1", "obj-2", "obj-3"}
	for i, want := range expected {
		if len(results[i]) != 1 || results[i][0].ObjectID != want {
			t.Errorf("Slot %d: expected %q, got: %+v", i, want, results[i])
		}
	}
}
