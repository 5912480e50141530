// Package storefront talks to the grocery storefront's private API: a
// cookie-based login sequence and the session-gated product search endpoint.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/buyfresh/buyfresh/app/cache"
)

// sessionCookieName is the one cookie the search endpoint actually checks.
const sessionCookieName = "session-prd-weg"

// sessionCacheKey and sessionTTL control the durable credential cache. The
// provider's sessions last about 24 hours; caching for 23 leaves a safety
// margin so a cached credential is never handed out already expired.
const (
	sessionCacheKey = "storefront_session"
	sessionTTL      = 23 * time.Hour
)

// SessionManager obtains and caches the store-scoped session credential. The
// credential lives in one in-memory slot for the process plus the durable
// cache. Concurrent first authentications may race; that is tolerated because
// authenticating twice just produces two valid credentials and the last
// durable write wins.
type SessionManager struct {
	httpClient     *http.Client
	cache          cache.Store
	baseURL        string
	userAgent      string
	stores         map[string]string
	defaultStoreID string

	mu         sync.Mutex
	credential string
}

func NewSessionManager(httpClient *http.Client, store cache.Store, baseURL, userAgent string,
	stores map[string]string, defaultStoreID string) *SessionManager {
	return &SessionManager{
		httpClient:     httpClient,
		cache:          store,
		baseURL:        baseURL,
		userAgent:      userAgent,
		stores:         stores,
		defaultStoreID: defaultStoreID,
	}
}

// Credential returns the session cookie for the named store, authenticating
// only when neither the in-memory slot nor the durable cache has one.
func (m *SessionManager) Credential(ctx context.Context, storeName string) (string, error) {
	m.mu.Lock()
	cached := m.credential
	m.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	if durable, err := m.cache.Get(sessionCacheKey); err != nil {
		slog.Warn("Session cache read failed", "error", err)
	} else if durable != "" {
		m.mu.Lock()
		m.credential = durable
		m.mu.Unlock()
		return durable, nil
	}

	return m.authenticate(ctx, storeName)
}

// Invalidate discards the cached credential so the next Credential call runs
// the full login sequence again.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.credential = ""
	m.mu.Unlock()

	if err := m.cache.Delete(sessionCacheKey); err != nil {
		slog.Warn("Session cache delete failed", "error", err)
	}
}

// authenticate runs the storefront's login sequence: bootstrap a bearer
// token with a device fingerprint, provision a user to receive cookies, bind
// the session to a store, then keep the one cookie search requires.
func (m *SessionManager) authenticate(ctx context.Context, storeName string) (string, error) {
	token, err := m.bootstrapSession(ctx)
	if err != nil {
		return "", err
	}

	cookies, err := m.provisionUser(ctx, token)
	if err != nil {
		return "", err
	}

	if err := m.selectStore(ctx, cookies, m.resolveStoreID(storeName)); err != nil {
		return "", err
	}

	credential := ""
	for _, c := range cookies {
		if c.Name == sessionCookieName {
			credential = c.Name + "=" + c.Value
			break
		}
	}
	if credential == "" {
		return "", ErrNoSessionCookie
	}

	m.mu.Lock()
	m.credential = credential
	m.mu.Unlock()

	if err := m.cache.Set(sessionCacheKey, credential, sessionTTL); err != nil {
		slog.Warn("Session cache write failed", "error", err)
	}

	slog.Info("Storefront session established", "store", storeName)

	return credential, nil
}

func (m *SessionManager) bootstrapSession(ctx context.Context) (string, error) {
	body, err := json.Marshal(defaultFingerprint())
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/api/v2/user_sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("session bootstrap failed: %w", err)
	}
	defer resp.Body.Close()

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.SessionToken == "" {
		return "", ErrNoSessionToken
	}

	return session.SessionToken, nil
}

func (m *SessionManager) provisionUser(ctx context.Context, token string) ([]*http.Cookie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/v2/users", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user provisioning failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, ErrNoCookies
	}

	return cookies, nil
}

// selectStore binds the session cookies to a physical store. The endpoint's
// response body is irrelevant; only the request matters.
func (m *SessionManager) selectStore(ctx context.Context, cookies []*http.Cookie, storeID string) error {
	id, err := strconv.Atoi(storeID)
	if err != nil {
		return fmt.Errorf("invalid store id %q: %w", storeID, err)
	}

	body, err := json.Marshal(storeSelection{StoreID: id, HasChangedStore: true})
	if err != nil {
		return fmt.Errorf("failed to encode store selection: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		m.baseURL+"/api/v2/user", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create store selection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", m.userAgent)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store selection failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return nil
}

// resolveStoreID maps a store name to its number, falling back to the
// default store for names the directory does not know.
func (m *SessionManager) resolveStoreID(storeName string) string {
	if id, ok := m.stores[storeName]; ok {
		return id
	}
	return m.defaultStoreID
}
