package api

import (
	"context"

	"github.com/buyfresh/buyfresh/app/database"
	"github.com/buyfresh/buyfresh/app/grocery"
	"github.com/buyfresh/buyfresh/app/ingredient"
	"github.com/buyfresh/buyfresh/app/recipe"
	"github.com/buyfresh/buyfresh/app/search"
	"github.com/buyfresh/buyfresh/app/storefront"
)

type RecipeExtractorInterface interface {
	Run(ctx context.Context, url string) (*recipe.Result, error)
}

var _ RecipeExtractorInterface = (*recipe.Extractor)(nil)

type ProductSearcherInterface interface {
	Search(ctx context.Context, query string) ([]grocery.Product, error)
	SearchBatch(ctx context.Context, queries []string) [][]grocery.Product
	FetchByIDs(ctx context.Context, items []grocery.ListItem) ([]grocery.Product, error)
}

var _ ProductSearcherInterface = (*search.Client)(nil)

type StorefrontSearcherInterface interface {
	Search(ctx context.Context, query string) ([]grocery.Product, error)
}

var _ StorefrontSearcherInterface = (*storefront.Client)(nil)

type Handler struct {
	parser     *ingredient.Parser
	extractor  RecipeExtractorInterface
	searcher   ProductSearcherInterface
	storefront StorefrontSearcherInterface
	listRepo   database.ListRepository
}
