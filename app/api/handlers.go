package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buyfresh/buyfresh/app/convert"
	"github.com/buyfresh/buyfresh/app/database"
	"github.com/buyfresh/buyfresh/app/grocery"
	"github.com/buyfresh/buyfresh/app/ingredient"
)

func NewHandler(parser *ingredient.Parser, extractor RecipeExtractorInterface,
	searcher ProductSearcherInterface, storefrontClient StorefrontSearcherInterface,
	listRepo database.ListRepository) *Handler {
	return &Handler{
		parser:     parser,
		extractor:  extractor,
		searcher:   searcher,
		storefront: storefrontClient,
		listRepo:   listRepo,
	}
}

func (h *Handler) GetRecipe(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter required"})
		return
	}

	result, err := h.extractor.Run(c.Request.Context(), url)
	if err != nil {
		slog.Error("Recipe fetch failed", "url", url, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch recipe page"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type parseIngredientsRequest struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

func (h *Handler) ParseIngredients(c *gin.Context) {
	var req parseIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var parsed []ingredient.Parsed
	if len(req.Lines) > 0 {
		parsed = h.parser.RunLines(req.Lines)
	} else {
		parsed = h.parser.Run(req.Text)
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": parsed})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter required"})
		return
	}

	products, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		slog.Error("Product search failed", "query", query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "product search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type batchSearchRequest struct {
	Queries []string `json:"queries"`
}

func (h *Handler) SearchProductsBatch(c *gin.Context) {
	var req batchSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	results := h.searcher.SearchBatch(c.Request.Context(), req.Queries)

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) SearchStoreProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter required"})
		return
	}

	products, err := h.storefront.Search(c.Request.Context(), query)
	if err != nil {
		slog.Error("Storefront search failed", "query", query, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storefront search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type createListRequest struct {
	Items []grocery.ListItem `json:"items"`
}

func (h *Handler) CreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.listRepo.CreateList(req.Items)
	if err != nil {
		slog.Error("List creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create list"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) GetList(c *gin.Context) {
	list, ok := h.loadList(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         list.ID,
		"items":      list.Items,
		"created_at": list.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) GetListProducts(c *gin.Context) {
	list, ok := h.loadList(c)
	if !ok {
		return
	}

	products, err := h.searcher.FetchByIDs(c.Request.Context(), list.Items)
	if err != nil {
		slog.Error("List product lookup failed", "list", list.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "product lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": list.ID, "products": products})
}

func (h *Handler) loadList(c *gin.Context) (*database.List, bool) {
	id := c.Param("id")

	list, err := h.listRepo.GetList(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_list", "list", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load list"})
		return nil, false
	}
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		return nil, false
	}

	return list, true
}

func (h *Handler) ConvertUnits(c *gin.Context) {
	have := c.Query("have")
	need := c.Query("need")
	if have == "" || need == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "have and need query parameters required"})
		return
	}

	result, err := convert.Multiplier(have, need)
	if err != nil {
		if errors.Is(err, convert.ErrMissingAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "both values need an amount and a unit"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "units are not convertible"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}
