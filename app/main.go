package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buyfresh/buyfresh/app/api"
	"github.com/buyfresh/buyfresh/app/cache"
	"github.com/buyfresh/buyfresh/app/cfg"
	"github.com/buyfresh/buyfresh/app/config"
	"github.com/buyfresh/buyfresh/app/database"
	"github.com/buyfresh/buyfresh/app/ingredient"
	"github.com/buyfresh/buyfresh/app/recipe"
	"github.com/buyfresh/buyfresh/app/search"
	"github.com/buyfresh/buyfresh/app/storefront"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	if appConfig.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Println("Starting BuyFresh server...")

	// Database connection
	log.Printf("Opening database at %s...", appConfig.DBPath)
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %v)", version, dirty)

	// Redis-backed session cache
	log.Printf("Connecting to Redis at %s...", appConfig.RedisAddr)
	sessionCache, err := cache.NewCache(appConfig.RedisAddr)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer sessionCache.Close()

	// Load store directory
	log.Printf("Loading store directory from %s...", appConfig.StoresFile)
	stores, err := config.NewLoader(appConfig.StoresFile).Load()
	if err != nil {
		log.Fatal("Failed to load store directory:", err)
	}
	log.Printf("Loaded %d stores", len(stores))

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// Initialize core components
	parser := ingredient.NewParser()
	extractor := recipe.NewExtractor(httpClient, appConfig.UserAgent)
	sessions := storefront.NewSessionManager(httpClient, sessionCache,
		appConfig.StorefrontURL, appConfig.UserAgent, stores, appConfig.DefaultStoreID)
	storeClient := storefront.NewClient(sessions, httpClient,
		appConfig.StorefrontURL, appConfig.UserAgent, appConfig.StoreName)
	searchClient := search.NewClient(httpClient, appConfig.SearchHost,
		appConfig.SearchAppID, appConfig.SearchAPIKey,
		appConfig.SearchUserToken, appConfig.StoreNumber)
	listRepo := database.NewListRepository(db)

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(parser, extractor, searchClient, storeClient, listRepo)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		log.Printf("Endpoints available:")
		log.Printf("  Recipe:        http://localhost:%s/api/recipe?url=<page>", appConfig.Port)
		log.Printf("  Ingredients:   http://localhost:%s/api/ingredients (POST)", appConfig.Port)
		log.Printf("  Products:      http://localhost:%s/api/products?q=<query>", appConfig.Port)
		log.Printf("  Lists:         http://localhost:%s/api/lists", appConfig.Port)
		log.Printf("  Convert:       http://localhost:%s/api/convert?have=<size>&need=<size>", appConfig.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appConfig.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("BuyFresh server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("BuyFresh server shutdown complete")
}
