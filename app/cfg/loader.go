package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./buyfresh.db" description:"Path to the SQLite database file"`

	// Cache configuration
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis server address"`

	// Storefront configuration
	StoresFile     string `long:"stores-file" env:"STORES_FILE" default:"./stores.yml" description:"YAML file mapping store names to store numbers"`
	StoreName      string `long:"store-name" env:"STORE_NAME" description:"Store name to shop, resolved through the stores file (falls back to the default store id)"`
	DefaultStoreID string `long:"default-store-id" env:"DEFAULT_STORE_ID" default:"115" description:"Store number used when a store name is not configured"`
	StorefrontURL  string `long:"storefront-url" env:"STOREFRONT_URL" default:"https://shop.wegmans.com" description:"Storefront API base URL"`

	// Product index configuration
	SearchHost      string `long:"search-host" env:"SEARCH_HOST" description:"Product index host URL (required)" required:"true"`
	SearchAppID     string `long:"search-app-id" env:"SEARCH_APP_ID" description:"Product index application ID (required)" required:"true"`
	SearchAPIKey    string `long:"search-api-key" env:"SEARCH_API_KEY" description:"Product index API key (required)" required:"true"`
	SearchUserToken string `long:"search-user-token" env:"SEARCH_USER_TOKEN" default:"anonymous" description:"User token sent with index queries"`
	StoreNumber     string `long:"store-number" env:"STORE_NUMBER" default:"115" description:"Store number for index filters"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"BuyFresh/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		RedisAddr:       raw.RedisAddr,
		StoresFile:      raw.StoresFile,
		StoreName:       raw.StoreName,
		DefaultStoreID:  raw.DefaultStoreID,
		StorefrontURL:   raw.StorefrontURL,
		SearchHost:      raw.SearchHost,
		SearchAppID:     raw.SearchAppID,
		SearchAPIKey:    raw.SearchAPIKey,
		SearchUserToken: raw.SearchUserToken,
		StoreNumber:     raw.StoreNumber,
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
