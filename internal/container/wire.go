//go:build wireinject
// +build wireinject

package container

import (
	"context"

	"github.com/google/wire"

	"github.com/narwhalmedia/marquee/pkg/cache"
	"github.com/narwhalmedia/marquee/pkg/config"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

// InitializeApp wires the marquee service from its configuration
func InitializeApp(ctx context.Context, cfg *config.MarqueeConfig, log *logger.ZapLogger) (*App, func(), error) {
	wire.Build(
		// Logging
		wire.Bind(new(interfaces.Logger), new(*logger.ZapLogger)),
		provideZap,

		// Events
		provideEventBus,
		provideForwarding,

		// Catalog
		provideCatalogProvider,
		provideCatalogService,
		provideExplainer,
		cache.NewSnapshotCache,

		// Own movies
		provideStoreBackend,
		provideStore,

		// Application
		provideDashboard,

		// Transport
		provideHandler,
		provideRouter,
		provideGRPCServer,

		// Container
		wire.Struct(new(App), "*"),
	)

	return nil, nil, nil
}
