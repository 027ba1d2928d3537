// interview-prep: LeetCode practice MCP server
//
// An MCP server that lets an AI coding tool load LeetCode problems by
// slug, number or title, with starter code for the language you practice in.
//
// Usage:
//
//	interview-prep serve                     # Start MCP server (stdio transport)
//	interview-prep warm                      # Download the catalog once and report its size
//	interview-prep fetch <problem> [lang]    # Print a problem payload as JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/HendryAvila/interview-prep-mcp/internal/di"
	"github.com/HendryAvila/interview-prep-mcp/internal/format"
	"github.com/HendryAvila/interview-prep-mcp/internal/resolver"
	"github.com/HendryAvila/interview-prep-mcp/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = run(serve)
	case "warm":
		err = run(warm)
	case "fetch":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: interview-prep fetch <slug|id|name> [language]\n")
			os.Exit(1)
		}
		err = run(func(ctx context.Context, app *server.App) error {
			return fetch(ctx, app, os.Args[2:])
		})
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("interview-prep v%s\n", server.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the app and calls fn with a context cancelled on interrupt.
func run(fn func(context.Context, *server.App) error) error {
	app, cleanup, err := di.InitializeApp()
	if err != nil {
		return fmt.Errorf("creating app: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, app)
}

func serve(ctx context.Context, app *server.App) error {
	return app.Serve(ctx)
}

func warm(ctx context.Context, app *server.App) error {
	if err := app.Cache.Warm(ctx); err != nil {
		return err
	}
	stats := app.Cache.Stats()
	fmt.Fprintf(os.Stderr, "Catalog loaded: %d problems from %s\n", stats.Entries, stats.Source)
	return nil
}

// fetch resolves args[0] the way a tool call would, choosing the
// identifier kind from its shape, and prints the payload to stdout.
func fetch(ctx context.Context, app *server.App, args []string) error {
	problem := args[0]
	lang := ""
	if len(args) > 1 {
		lang = args[1]
	}

	var q resolver.Query
	switch {
	case isNumber(problem):
		q.ProblemID = problem
	case strings.Contains(problem, "-") && !strings.Contains(problem, " "):
		q.TitleSlug = problem
	default:
		q.ProblemName = problem
	}

	res, err := app.Resolver.Resolve(ctx, q)
	if err != nil {
		return err
	}

	var payload any
	if res.Problem == nil {
		payload = format.Search(res.Query, res.Matches)
	} else {
		payload = format.Problem(res.Problem, lang)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `interview-prep v%s - LeetCode practice MCP server

Usage:
  interview-prep serve                    Start the MCP server (stdio transport)
  interview-prep warm                     Download the problem catalog and report its size
  interview-prep fetch <problem> [lang]   Print a problem as JSON (number, slug or title)
  interview-prep version                  Print the version

Configuration (environment or .env):
  LEETCODE_GRAPHQL_URL, LEETCODE_REST_URL, LEETCODE_REFERER
  REQUEST_TIMEOUT, RATE_LIMIT, RATE_WINDOW
  RETRY_MAX, RETRY_BASE, RETRY_CAP, CATALOG_PAGE_SIZE
  WARM_ON_START, LOG_LEVEL, LOG_FORMAT, METRICS_ADDR

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "interview-prep": {
        "command": "interview-prep",
        "args": ["serve"]
      }
    }
  }
`, server.Version)
}
