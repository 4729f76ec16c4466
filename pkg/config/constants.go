package config

import "time"

const (
	DefaultServiceName = "marquee"

	// Server ports.
	DefaultHTTPPort        = 8080
	DefaultGRPCPort        = 9090
	DefaultShutdownTimeout = 30 * time.Second

	// Catalog defaults.
	DefaultCatalogBaseURL  = "https://api.themoviedb.org/3"
	DefaultCatalogLanguage = "en-US"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultCacheTTL        = 10 * time.Minute

	// Explainer defaults.
	DefaultExplainerBaseURL = "https://openrouter.ai/api/v1"
	DefaultExplainerModel   = "deepseek/deepseek-r1:free"

	// Store defaults.
	DefaultCollectionKey = "movies"

	// Database defaults.
	DefaultPostgresPort    = 5432
	DefaultMaxConnections  = 10
	DefaultMinConnections  = 2
	DefaultConnectAttempts = 5
)

// Store backends.
const (
	StoreBackendFile     = "file"
	StoreBackendDatabase = "database"
	StoreBackendS3       = "s3"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Event forwarders.
const (
	ForwarderNone  = "none"
	ForwarderNATS  = "nats"
	ForwarderKafka = "kafka"
)
