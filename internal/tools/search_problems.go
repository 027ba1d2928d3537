package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/format"
	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Searcher finds catalog entries by title or slug substring.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]leetcode.CatalogEntry, error)
}

// SearchProblemsTool handles the search_problems MCP tool.
type SearchProblemsTool struct {
	catalog Searcher
	logger  *logrus.Logger
}

// NewSearchProblemsTool creates a SearchProblemsTool.
func NewSearchProblemsTool(catalog Searcher, logger *logrus.Logger) *SearchProblemsTool {
	if logger == nil {
		logger = logrus.New()
	}
	return &SearchProblemsTool{catalog: catalog, logger: logger}
}

// Definition returns the MCP tool definition for search_problems.
func (t *SearchProblemsTool) Definition() mcp.Tool {
	return mcp.NewTool("search_problems",
		mcp.WithDescription(
			"Search the LeetCode catalog by title or slug substring, case-insensitive. "+
				"Returns matches in catalog order without loading full problems. "+
				"The first search downloads the catalog, which can take several seconds.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for in problem titles and slugs"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10, max: 50)"),
		),
	)
}

// Handle processes the search_problems tool call.
func (t *SearchProblemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	limit := intArg(req, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	log := requestLogger(t.logger, "search_problems", logrus.Fields{"query": query, "limit": limit})

	matches, err := t.catalog.Search(ctx, query, limit)
	if err != nil {
		log.WithError(err).Warn("search_problems failed")
		return errorResult(err), nil
	}

	log.WithField("matches", len(matches)).Info("search_problems done")
	return jsonResult(format.Search(query, matches))
}
