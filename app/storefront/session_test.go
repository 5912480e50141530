package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in-memory stand-in for the durable cache.
type fakeStore struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	sets    int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (s *fakeStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *fakeStore) Set(key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.ttls[key] = ttl
	s.sets++
	return nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.deletes++
	return nil
}

// fakeStorefront implements the login protocol endpoints and counts how many
// full authentications ran.
type fakeStorefront struct {
	mu                sync.Mutex
	bootstraps        int
	storeSelects      int
	selectedStore     string // raw JSON of the store_id field
	omitToken         bool
	omitCookies       bool
	cookieName        string
	searchStatus      int
	failFirstSearches int
	searchRequests    int
}

func (f *fakeStorefront) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v2/user_sessions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.bootstraps++
		omit := f.omitToken
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if omit {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"session_token": "token-123"}`))
	})

	mux.HandleFunc("POST /api/v2/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		omit := f.omitCookies
		name := f.cookieName
		f.mu.Unlock()

		if !omit {
			http.SetCookie(w, &http.Cookie{Name: name, Value: "abc123", Path: "/"})
			http.SetCookie(w, &http.Cookie{Name: "other", Value: "zzz", Path: "/"})
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("PATCH /api/v2/user", func(w http.ResponseWriter, r *http.Request) {
		// Raw field capture: store_id must arrive as a JSON number, so a
		// quoted "115" would show up here as `"115"` and fail the assertions.
		var selection map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&selection)
		f.mu.Lock()
		f.storeSelects++
		f.selectedStore = string(selection["store_id"])
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/v2/store_products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.searchRequests++
		status := f.searchStatus
		if f.failFirstSearches > 0 {
			f.failFirstSearches--
			status = http.StatusUnauthorized
		}
		f.mu.Unlock()

		if status != 0 && status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"id": "p1", "name": "Organic Broccoli", "aisle": "07", "base_price": 2.49,
			 "size_string": "1 head", "images": {"tile": {"large": "https://img/p1.jpg"}}}
		]}`))
	})

	return mux
}

func newTestSetup(t *testing.T, front *fakeStorefront) (*Client, *SessionManager, *fakeStore) {
	t.Helper()
	if front.cookieName == "" {
		front.cookieName = sessionCookieName
	}

	server := httptest.NewServer(front.handler())
	t.Cleanup(server.Close)

	store := newFakeStore()
	httpClient := &http.Client{Timeout: 5 * time.Second}
	sessions := NewSessionManager(httpClient, store, server.URL, "buyfresh-test/1.0",
		map[string]string{"Astor Pl": "115"}, "115")
	client := NewClient(sessions, httpClient, server.URL, "buyfresh-test/1.0", "Astor Pl")

	return client, sessions, store
}

func TestCredentialRunsProtocolOnce(t *testing.T) {
	front := &fakeStorefront{}
	_, sessions, store := newTestSetup(t, front)

	credential, err := sessions.Credential(context.Background(), "Astor Pl")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if credential != sessionCookieName+"=abc123" {
		t.Errorf("Unexpected credential: %q", credential)
	}
	if front.bootstraps != 1 || front.storeSelects != 1 {
		t.Errorf("Expected one full protocol run, got bootstraps=%d selects=%d",
			front.bootstraps, front.storeSelects)
	}
	if front.selectedStore != "115" {
		t.Errorf("Expected store '115' selected, got: %q", front.selectedStore)
	}

	// Second call must come from the in-memory slot.
	if _, err := sessions.Credential(context.Background(), "Astor Pl"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if front.bootstraps != 1 {
		t.Errorf("Expected cached credential, got %d bootstraps", front.bootstraps)
	}

	// Durable cache must hold the credential with the safety-margin TTL.
	if store.values[sessionCacheKey] != credential {
		t.Errorf("Expected credential persisted, got: %q", store.values[sessionCacheKey])
	}
	if store.ttls[sessionCacheKey] != 23*time.Hour {
		t.Errorf("Expected 23h TTL, got: %v", store.ttls[sessionCacheKey])
	}
}

func TestCredentialUsesDurableCache(t *testing.T) {
	front := &fakeStorefront{}
	_, sessions, store := newTestSetup(t, front)

	store.values[sessionCacheKey] = sessionCookieName + "=cached"

	credential, err := sessions.Credential(context.Background(), "Astor Pl")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if credential != sessionCookieName+"=cached" {
		t.Errorf("Expected durable credential, got: %q", credential)
	}
	if front.bootstraps != 0 {
		t.Errorf("Expected no authentication, got %d bootstraps", front.bootstraps)
	}
}

func TestCredentialUnknownStoreFallsBack(t *testing.T) {
	front := &fakeStorefront{}
	_, sessions, _ := newTestSetup(t, front)

	if _, err := sessions.Credential(context.Background(), "Nowhere"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if front.selectedStore != "115" {
		t.Errorf("Expected default store for unknown name, got: %q", front.selectedStore)
	}
}

func TestCredentialProtocolFailures(t *testing.T) {
	tests := []struct {
		name     string
		front    *fakeStorefront
		expected error
	}{
		{"missing token", &fakeStorefront{omitToken: true}, ErrNoSessionToken},
		{"missing cookies", &fakeStorefront{omitCookies: true}, ErrNoCookies},
		{"missing session cookie", &fakeStorefront{cookieName: "unrelated"}, ErrNoSessionCookie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sessions, _ := newTestSetup(t, tt.front)
			_, err := sessions.Credential(context.Background(), "Astor Pl")
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got: %v", tt.expected, err)
			}
		})
	}
}

func TestSearchMapsProducts(t *testing.T) {
	front := &fakeStorefront{}
	client, _, _ := newTestSetup(t, front)

	products, err := client.Search(context.Background(), "broccoli")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got: %d", len(products))
	}

	p := products[0]
	if p.Name != "Organic Broccoli" {
		t.Errorf("Expected product name, got: %q", p.Name)
	}
	if p.Price != 2.49 {
		t.Errorf("Expected price 2.49, got: %v", p.Price)
	}
	if p.Planogram.Aisle != "07" {
		t.Errorf("Expected aisle '07', got: %q", p.Planogram.Aisle)
	}
	if p.Planogram.Shelf != "Unknown" {
		t.Errorf("Expected 'Unknown' shelf, got: %q", p.Planogram.Shelf)
	}
	if len(p.Images) != 1 || p.Images[0] != "https://img/p1.jpg" {
		t.Errorf("Unexpected images: %v", p.Images)
	}
}

func TestSearchRetriesExactlyOnce(t *testing.T) {
	front := &fakeStorefront{searchStatus: http.StatusUnauthorized}
	client, _, store := newTestSetup(t, front)

	// Seed a stale credential so the first attempt skips authentication.
	store.values[sessionCacheKey] = sessionCookieName + "=stale"

	_, err := client.Search(context.Background(), "broccoli")
	if err == nil {
		t.Fatal("Expected hard error after exhausted retry, got none")
	}

	// One rejected attempt with the stale credential, one forced
	// re-authentication, one retry, then surface. Never a third attempt.
	if front.searchRequests != 2 {
		t.Errorf("Expected exactly 2 search attempts, got: %d", front.searchRequests)
	}
	if front.bootstraps != 1 {
		t.Errorf("Expected exactly 1 forced re-authentication, got: %d", front.bootstraps)
	}
	if store.deletes != 1 {
		t.Errorf("Expected stale credential discarded once, got %d deletes", store.deletes)
	}
}

func TestSearchRecoversAfterReauth(t *testing.T) {
	// The stale credential is rejected once; the retry with a fresh session
	// succeeds.
	front := &fakeStorefront{failFirstSearches: 1}
	client, _, store := newTestSetup(t, front)

	store.values[sessionCacheKey] = sessionCookieName + "=stale"

	products, err := client.Search(context.Background(), "broccoli")
	if err != nil {
		t.Fatalf("Expected recovery after re-authentication, got: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("Expected 1 product, got: %d", len(products))
	}
	if front.bootstraps != 1 {
		t.Errorf("Expected one re-authentication, got: %d", front.bootstraps)
	}
	if front.searchRequests != 2 {
		t.Errorf("Expected 2 search attempts, got: %d", front.searchRequests)
	}
}
