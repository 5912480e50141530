package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Cache configuration
	RedisAddr string

	// Storefront configuration
	StoresFile     string
	StoreName      string
	DefaultStoreID string
	StorefrontURL  string

	// Product index configuration
	SearchHost      string
	SearchAppID     string
	SearchAPIKey    string
	SearchUserToken string
	StoreNumber     string

	// Application configuration
	Port         string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
