package container

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/narwhalmedia/marquee/internal/application/dashboard"
	"github.com/narwhalmedia/marquee/internal/catalog"
	"github.com/narwhalmedia/marquee/internal/handler/rest"
	"github.com/narwhalmedia/marquee/internal/infrastructure/adapters/external/openrouter"
	"github.com/narwhalmedia/marquee/internal/infrastructure/adapters/external/tmdb"
	"github.com/narwhalmedia/marquee/internal/infrastructure/events/kafka"
	"github.com/narwhalmedia/marquee/internal/infrastructure/events/nats"
	grpcinfra "github.com/narwhalmedia/marquee/internal/infrastructure/grpc"
	"github.com/narwhalmedia/marquee/internal/owned/domain"
	"github.com/narwhalmedia/marquee/internal/owned/repository"
	"github.com/narwhalmedia/marquee/internal/owned/service"
	"github.com/narwhalmedia/marquee/pkg/cache"
	"github.com/narwhalmedia/marquee/pkg/config"
	"github.com/narwhalmedia/marquee/pkg/database"
	"github.com/narwhalmedia/marquee/pkg/events"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

// App holds everything cmd/marquee runs.
type App struct {
	Config   *config.MarqueeConfig
	Logger   interfaces.Logger
	Router   *mux.Router
	GRPC     *grpcinfra.Server
	Cache    *cache.SnapshotCache
	EventBus *events.InMemoryEventBus
	Forwards Forwarding
}

// Forwarding names the active event forwarder, or "none".
type Forwarding string

// StoreBackend is the chosen blob store plus its readiness check.
type StoreBackend struct {
	Blobs repository.BlobStore
	Check rest.ReadinessCheck
}

func provideZap(log *logger.ZapLogger) *zap.Logger {
	return log.Zap()
}

func provideEventBus(log interfaces.Logger) *events.InMemoryEventBus {
	return events.NewInMemoryEventBus(log)
}

func provideCatalogProvider(cfg *config.MarqueeConfig) catalog.Provider {
	return tmdb.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey,
		tmdb.WithLanguage(cfg.Catalog.Language),
		tmdb.WithTimeout(cfg.Catalog.RequestTimeout))
}

func provideCatalogService(cfg *config.MarqueeConfig, provider catalog.Provider, log interfaces.Logger) *catalog.Service {
	return catalog.NewService(provider, cfg.Catalog.Language, log)
}

func provideExplainer(cfg *config.MarqueeConfig) dashboard.Explainer {
	if !cfg.Explainer.Enabled {
		return nil
	}
	return openrouter.NewClient(
		cfg.Explainer.BaseURL,
		cfg.Explainer.APIKey,
		cfg.Explainer.Model,
		cfg.Explainer.Temperature,
		cfg.Explainer.Timeout,
	)
}

// provideStoreBackend opens the blob store selected by store.backend.
func provideStoreBackend(ctx context.Context, cfg *config.MarqueeConfig, log interfaces.Logger, zl *zap.Logger) (*StoreBackend, func(), error) {
	var (
		blobs   repository.BlobStore
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case config.StoreBackendFile:
		fileStore, err := repository.NewFileBlobStore(afero.NewOsFs(), filepath.Clean(cfg.Store.DataDir), log)
		if err != nil {
			return nil, nil, err
		}
		blobs = fileStore

	case config.StoreBackendDatabase:
		db, closeDB, err := database.Open(ctx, cfg.Database.ToDatabaseConfig(), zl)
		if err != nil {
			return nil, nil, err
		}
		applied, err := database.NewMigrator(db, repository.Migrations()...).Migrate()
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		if len(applied) > 0 {
			log.Info("Applied migrations", interfaces.Any("versions", applied))
		}
		blobs = repository.NewGormBlobStore(db, log)
		cleanup = closeDB

	case config.StoreBackendS3:
		client, err := repository.NewS3Client(ctx, repository.S3Options{
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		blobs = repository.NewS3BlobStore(client, cfg.S3.Bucket, cfg.S3.Prefix, log)

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}

	log.Info("Own-movie store ready", interfaces.String("backend", cfg.Store.Backend))

	key := cfg.Store.CollectionKey
	return &StoreBackend{
		Blobs: blobs,
		Check: func(ctx context.Context) error {
			_, err := blobs.Load(ctx, key)
			return err
		},
	}, cleanup, nil
}

func provideStore(cfg *config.MarqueeConfig, backend *StoreBackend, bus *events.InMemoryEventBus, log interfaces.Logger) *service.Store {
	return service.NewStore(backend.Blobs, cfg.Store.CollectionKey, bus, log)
}

func provideDashboard(
	cfg *config.MarqueeConfig,
	catalogService *catalog.Service,
	store *service.Store,
	snapshots *cache.SnapshotCache,
	explainer dashboard.Explainer,
	log interfaces.Logger,
) *dashboard.Service {
	return dashboard.NewService(catalogService, store, snapshots, explainer, cfg.Catalog.CacheTTL, log)
}

// provideForwarding subscribes the configured forwarder to every own-movie
// event on the bus.
func provideForwarding(ctx context.Context, cfg *config.MarqueeConfig, bus *events.InMemoryEventBus, log interfaces.Logger) (Forwarding, func(), error) {
	var (
		handler interfaces.EventHandler
		cleanup = func() {}
	)

	switch cfg.Events.Forwarder {
	case config.ForwarderNone, "":
		return Forwarding(config.ForwarderNone), cleanup, nil

	case config.ForwarderNATS:
		js, drain, err := nats.Connect(ctx, cfg.Events.NATSURL, cfg.Events.Subject, log)
		if err != nil {
			return "", nil, err
		}
		handler = nats.NewForwarder(js, cfg.Events.Subject, log)
		cleanup = drain

	case config.ForwarderKafka:
		producer, err := kafka.NewSyncProducer(cfg.Events.Brokers)
		if err != nil {
			return "", nil, err
		}
		fwd := kafka.NewForwarder(producer, cfg.Events.Topic, log)
		handler = fwd
		cleanup = func() {
			if err := fwd.Close(); err != nil {
				log.Error("Failed to close Kafka producer", interfaces.Error(err))
			}
		}

	default:
		return "", nil, fmt.Errorf("unsupported event forwarder: %s", cfg.Events.Forwarder)
	}

	for _, eventType := range domain.EventTypes {
		if err := bus.Subscribe(eventType, handler); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	log.Info("Event forwarding enabled", interfaces.String("forwarder", cfg.Events.Forwarder))
	return Forwarding(cfg.Events.Forwarder), cleanup, nil
}

func provideHandler(dash *dashboard.Service, store *service.Store, backend *StoreBackend, log interfaces.Logger) *rest.Handler {
	return rest.NewHandler(dash, store, map[string]rest.ReadinessCheck{
		"store": backend.Check,
	}, log)
}

func provideRouter(cfg *config.MarqueeConfig, h *rest.Handler) *mux.Router {
	return rest.NewRouter(h, cfg.Service.AllowedOrigins)
}

func provideGRPCServer(cfg *config.MarqueeConfig, log interfaces.Logger) *grpcinfra.Server {
	return grpcinfra.NewServer(cfg.Service.Name, log)
}
