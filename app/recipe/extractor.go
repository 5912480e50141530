// Package recipe extracts structured recipes from arbitrary web pages. Pages
// embedding schema.org Recipe data as ld+json script blocks yield a full
// Document; anything else degrades to the page's readable text so the user
// can paste the ingredients manually.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewExtractor(httpClient *http.Client, userAgent string) *Extractor {
	return &Extractor{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run fetches the page and extracts a recipe from it. Extraction failure is
// not an error: the fallback Result carries the page's plain text. The error
// return covers network and HTTP failures only.
func (e *Extractor) Run(ctx context.Context, url string) (*Result, error) {
	doc, err := e.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	candidate := findLinkedData(doc)
	if candidate == nil {
		slog.Debug("No recipe linked data found", "url", url)
		return &Result{
			Success: false,
			Message: "LD+JSON not found.",
			RawText: extractRawText(doc),
		}, nil
	}

	recipe := normalizeRecipe(candidate)
	if recipe == nil {
		slog.Debug("Linked data block is not a recipe", "url", url)
		return &Result{
			Success: false,
			Message: "Recipe not found.",
			RawText: extractRawText(doc),
		}, nil
	}

	slog.Debug("Recipe extracted", "url", url, "name", recipe.Name,
		"ingredients", len(recipe.Ingredients))

	return &Result{Success: true, Recipe: recipe}, nil
}

func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("failed to fetch page: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// findLinkedData scans every ld+json script block and returns the first
// Recipe-typed object. Blocks with invalid JSON are skipped. Within a block,
// a top-level array is scanned for a Recipe element (falling back to the
// array's first element), then an @graph collection, then the object's own
// @type.
func findLinkedData(doc *goquery.Document) map[string]any {
	var found map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var content any
		if err := json.Unmarshal([]byte(raw), &content); err != nil {
			return true
		}

		if candidate := candidateFromBlock(content); candidate != nil {
			found = candidate
			return false
		}
		return true
	})

	return found
}

func candidateFromBlock(content any) map[string]any {
	switch v := content.(type) {
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if ok && isRecipeType(obj["@type"]) {
				return obj
			}
		}
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
		return nil
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				obj, ok := item.(map[string]any)
				if ok && isRecipeType(obj["@type"]) {
					return obj
				}
			}
		}
		if isRecipeType(v["@type"]) {
			return v
		}
		return nil
	}
	return nil
}

// isRecipeType handles both "@type": "Recipe" and "@type": ["Recipe", ...].
func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}
