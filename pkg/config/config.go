package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/narwhalmedia/marquee/pkg/logger"
)

// Config is the interface that all service configs must implement.
type Config interface {
	Validate() error
}

// MarqueeConfig is the full configuration of the dashboard backend.
type MarqueeConfig struct {
	Service   ServiceConfig   `koanf:"service"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Explainer ExplainerConfig `koanf:"explainer"`
	Store     StoreConfig     `koanf:"store"`
	Database  DatabaseConfig  `koanf:"database"`
	S3        S3Config        `koanf:"s3"`
	Events    EventsConfig    `koanf:"events"`
	Logger    logger.Config   `koanf:"logger"`
}

// ServiceConfig contains service-specific metadata.
type ServiceConfig struct {
	Name            string        `koanf:"name"`
	Version         string        `koanf:"version"`
	Environment     string        `koanf:"environment"` // dev, staging, production
	Port            int           `koanf:"port"`
	GRPCPort        int           `koanf:"grpc_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// CatalogConfig configures the TMDB catalog client and snapshot caching.
type CatalogConfig struct {
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	Language       string        `koanf:"language"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// ExplainerConfig configures the optional chat-completion storyteller.
type ExplainerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

// StoreConfig selects the blob backend of the own-movie collection.
type StoreConfig struct {
	Backend       string `koanf:"backend"` // file, database, s3
	CollectionKey string `koanf:"collection_key"`
	DataDir       string `koanf:"data_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"` // sqlite, postgres
	DSN             string        `koanf:"dsn"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"database"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	ConnectAttempts uint          `koanf:"connect_attempts"`
}

// S3Config contains object storage settings for the s3 backend.
type S3Config struct {
	Bucket       string `koanf:"bucket"`
	Prefix       string `koanf:"prefix"`
	Region       string `koanf:"region"`
	Endpoint     string `koanf:"endpoint"`
	UsePathStyle bool   `koanf:"use_path_style"`
}

// EventsConfig selects where own-movie change events are forwarded.
type EventsConfig struct {
	Forwarder string   `koanf:"forwarder"` // none, nats, kafka
	NATSURL   string   `koanf:"nats_url"`
	Subject   string   `koanf:"subject"`
	Brokers   []string `koanf:"brokers"`
	Topic     string   `koanf:"topic"`
}

// Manager handles configuration loading and parsing.
type Manager struct {
	k           *koanf.Koanf
	serviceName string
	configPaths []string
}

// NewManager creates a new configuration manager.
func NewManager(serviceName string) *Manager {
	return &Manager{
		k:           koanf.New("."),
		serviceName: serviceName,
		configPaths: getDefaultConfigPaths(serviceName),
	}
}

// WithPaths replaces the config file search paths.
func (m *Manager) WithPaths(paths ...string) *Manager {
	m.configPaths = paths
	return m
}

// LoadConfig loads configuration from all sources.
func (m *Manager) LoadConfig(cfg Config) error {
	// 1. Load defaults from struct tags
	if err := m.k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load from config files (in order of precedence)
	for _, path := range m.configPaths {
		if err := m.loadFromFile(path); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	// 3. Load from environment variables
	if err := m.loadFromEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	// 4. Unmarshal into the config struct
	if err := m.k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// loadFromFile loads configuration from a file.
func (m *Manager) loadFromFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return m.k.Load(file.Provider(path), parser)
}

// loadFromEnv loads configuration from environment variables.
// MARQUEE_CATALOG__API_KEY maps to catalog.api_key: a double underscore
// separates sections, a single underscore stays part of the key.
func (m *Manager) loadFromEnv() error {
	prefix := strings.ToUpper(m.serviceName) + "_"

	return m.k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "__", ".")
	}), nil)
}

// getDefaultConfigPaths returns the default config paths to check.
func getDefaultConfigPaths(serviceName string) []string {
	paths := []string{
		"config.yaml",
		"config.json",
		fmt.Sprintf("%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.%s.yaml", serviceName, getEnvironment()),
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		paths = append([]string{configPath}, paths...)
	}

	return paths
}

// getEnvironment returns the current environment.
func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "dev"
}

// Validate validates the configuration.
func (c *MarqueeConfig) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service name is required")
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}
	if c.Service.GRPCPort < 0 || c.Service.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Service.GRPCPort)
	}
	if _, err := url.ParseRequestURI(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("invalid catalog base url: %w", err)
	}
	if c.Catalog.APIKey == "" {
		return errors.New("catalog api key is required (set MARQUEE_CATALOG__API_KEY)")
	}
	if c.Catalog.CacheTTL < 0 {
		return errors.New("catalog cache ttl must not be negative")
	}
	if c.Explainer.Enabled && c.Explainer.APIKey == "" {
		return errors.New("explainer api key is required when the explainer is enabled")
	}
	if c.Store.CollectionKey == "" {
		return errors.New("store collection key is required")
	}

	switch c.Store.Backend {
	case StoreBackendFile:
		if c.Store.DataDir == "" {
			return errors.New("store data dir is required for the file backend")
		}
	case StoreBackendDatabase:
		if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
			return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
		}
	case StoreBackendS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Store.Backend)
	}

	switch c.Events.Forwarder {
	case "", ForwarderNone:
	case ForwarderNATS:
		if c.Events.NATSURL == "" {
			return errors.New("nats url is required for the nats forwarder")
		}
	case ForwarderKafka:
		if len(c.Events.Brokers) == 0 || c.Events.Topic == "" {
			return errors.New("kafka brokers and topic are required for the kafka forwarder")
		}
	default:
		return fmt.Errorf("unsupported event forwarder: %q", c.Events.Forwarder)
	}

	return nil
}

// GetDefaults returns default configuration values.
func GetDefaults() *MarqueeConfig {
	return &MarqueeConfig{
		Service: ServiceConfig{
			Name:            DefaultServiceName,
			Environment:     "dev",
			Port:            DefaultHTTPPort,
			GRPCPort:        DefaultGRPCPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Catalog: CatalogConfig{
			BaseURL:        DefaultCatalogBaseURL,
			Language:       DefaultCatalogLanguage,
			RequestTimeout: DefaultRequestTimeout,
			CacheTTL:       DefaultCacheTTL,
		},
		Explainer: ExplainerConfig{
			BaseURL:     DefaultExplainerBaseURL,
			Model:       DefaultExplainerModel,
			Temperature: 0.9,
			Timeout:     30 * time.Second,
		},
		Store: StoreConfig{
			Backend:       StoreBackendFile,
			CollectionKey: DefaultCollectionKey,
			DataDir:       "data",
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			DSN:             "data/marquee.db",
			Port:            DefaultPostgresPort,
			SSLMode:         "disable",
			MaxConnections:  DefaultMaxConnections,
			MinConnections:  DefaultMinConnections,
			MaxConnLifetime: time.Hour,
			ConnectAttempts: DefaultConnectAttempts,
		},
		S3: S3Config{
			Prefix: "marquee",
			Region: "us-east-1",
		},
		Events: EventsConfig{
			Forwarder: ForwarderNone,
			Subject:   "marquee.own_movies",
			Topic:     "marquee.own-movies",
		},
		Logger: *logger.DefaultConfig(),
	}
}
