//go:build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/catalog"
	"github.com/HendryAvila/interview-prep-mcp/internal/config"
	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
	"github.com/HendryAvila/interview-prep-mcp/internal/logging"
	"github.com/HendryAvila/interview-prep-mcp/internal/resolver"
	"github.com/HendryAvila/interview-prep-mcp/internal/server"
)

// InitializeApp wires the application components together. The cleanup
// function releases the catalog index.
func InitializeApp() (*server.App, func(), error) {
	wire.Build(
		config.Load,
		logging.New,
		provideRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		leetcode.NewMetrics,
		provideClient,
		provideCache,
		provideResolver,
		server.NewApp,
	)
	return nil, nil, nil
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideClient(cfg *config.Config, logger *logrus.Logger, metrics *leetcode.Metrics) *leetcode.Client {
	return leetcode.New(cfg.Upstream, logger, metrics)
}

func provideCache(client *leetcode.Client, logger *logrus.Logger) (*catalog.Cache, func()) {
	cache := catalog.New(client, logger)
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.WithError(err).Warn("Closing catalog cache")
		}
	}
}

func provideResolver(client *leetcode.Client, cache *catalog.Cache) *resolver.Resolver {
	return resolver.New(client, cache)
}
