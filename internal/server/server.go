// Package server wires the MCP components and creates the server instance.
//
// This is the composition root: it takes the concrete upstream client,
// identity cache and resolver and injects them into the tools, prompts
// and resources that depend on abstractions. No business logic lives
// here, only wiring and process lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/catalog"
	"github.com/HendryAvila/interview-prep-mcp/internal/config"
	"github.com/HendryAvila/interview-prep-mcp/internal/prompts"
	"github.com/HendryAvila/interview-prep-mcp/internal/resolver"
	"github.com/HendryAvila/interview-prep-mcp/internal/resources"
	"github.com/HendryAvila/interview-prep-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// serveStdio is a package-level var to allow test injection.
var serveStdio = func(s *server.MCPServer) error { return server.ServeStdio(s) }

// NewMCPServer creates the MCP server with all tools, prompts and
// resources registered.
func NewMCPServer(r *resolver.Resolver, cache *catalog.Cache, logger *logrus.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"interview-prep",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Tools ---

	loadTool := tools.NewLoadProblemTool(r, logger)
	s.AddTool(loadTool.Definition(), loadTool.Handle)

	searchTool := tools.NewSearchProblemsTool(cache, logger)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	languagesTool := tools.NewListLanguagesTool(r, logger)
	s.AddTool(languagesTool.Definition(), languagesTool.Handle)

	// --- Prompts ---

	practicePrompt := prompts.NewPracticePrompt()
	s.AddPrompt(practicePrompt.Definition(), practicePrompt.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(cache)
	s.AddResource(resourceHandler.CatalogStatusResource(), resourceHandler.HandleCatalogStatus)

	return s
}

// App is the assembled process: the MCP server plus the pieces the
// command line needs direct access to.
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Cache    *catalog.Cache
	Resolver *resolver.Resolver
	MCP      *server.MCPServer
	Gatherer prometheus.Gatherer
}

// NewApp assembles an App.
func NewApp(cfg *config.Config, logger *logrus.Logger, cache *catalog.Cache, r *resolver.Resolver, gatherer prometheus.Gatherer) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Cache:    cache,
		Resolver: r,
		MCP:      NewMCPServer(r, cache, logger),
		Gatherer: gatherer,
	}
}

// Serve runs the stdio transport until the host disconnects. When
// configured it also warms the catalog in the background and exposes
// metrics over HTTP. Cancelling ctx stops the background work.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.WarmOnStart {
		go a.warm(ctx)
	}

	if a.Config.MetricsAddr != "" {
		ms := NewMetricsServer(a.Config.MetricsAddr, a.Gatherer, a.Cache, a.Logger)
		go func() {
			if err := ms.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Logger.WithError(err).Error("Metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = ms.Shutdown(shutdownCtx)
		}()
	}

	a.Logger.WithFields(logrus.Fields{
		"version":       Version,
		"warm_on_start": a.Config.WarmOnStart,
		"metrics_addr":  a.Config.MetricsAddr,
		"graphql_url":   a.Config.Upstream.GraphQLURL,
	}).Info("Starting interview-prep MCP server")

	if err := serveStdio(a.MCP); err != nil {
		return fmt.Errorf("serving stdio: %w", err)
	}
	return nil
}

func (a *App) warm(ctx context.Context) {
	if err := a.Cache.Warm(ctx); err != nil {
		// The next lookup retries the build.
		a.Logger.WithError(err).Warn("Background catalog warm-up failed")
	}
}
