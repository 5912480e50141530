package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Health endpoint
	r.GET("/health", handler.HealthCheck)

	api := r.Group("/api")

	// Read endpoints are open
	api.GET("/recipe", handler.GetRecipe)
	api.GET("/products", handler.SearchProducts)
	api.GET("/store/products", handler.SearchStoreProducts)
	api.GET("/lists/:id", handler.GetList)
	api.GET("/lists/:id/products", handler.GetListProducts)
	api.GET("/convert", handler.ConvertUnits)

	// Mutating endpoints require authentication when a key is configured
	mutating := api.Group("")
	if apiAccessKey != "" {
		mutating.Use(authMiddleware(apiAccessKey))
		log.Printf("Mutating endpoints enabled with authentication")
	} else {
		log.Printf("Mutating endpoints enabled without authentication (API_ACCESS_KEY not set)")
	}
	mutating.POST("/ingredients", handler.ParseIngredients)
	mutating.POST("/products/batch", handler.SearchProductsBatch)
	mutating.POST("/lists", handler.CreateList)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "BuyFresh",
			"version":     "1.0.0",
			"description": "Recipe extraction, ingredient parsing, and priced shopping lists",
			"endpoints": map[string]string{
				"recipe":         "/api/recipe?url=<recipe page>",
				"ingredients":    "/api/ingredients (POST)",
				"products":       "/api/products?q=<query>",
				"store_products": "/api/store/products?q=<query>",
				"batch":          "/api/products/batch (POST)",
				"lists":          "/api/lists (POST), /api/lists/<id>, /api/lists/<id>/products",
				"convert":        "/api/convert?have=<size>&need=<size>",
				"health":         "/health",
			},
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// Check if API key is provided and matches
		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		// Continue to next middleware/handler
		c.Next()
	}
}
