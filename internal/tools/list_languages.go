package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/format"
)

// ListLanguagesTool handles the list_languages MCP tool.
type ListLanguagesTool struct {
	resolver Resolver
	logger   *logrus.Logger
}

// NewListLanguagesTool creates a ListLanguagesTool.
func NewListLanguagesTool(r Resolver, logger *logrus.Logger) *ListLanguagesTool {
	if logger == nil {
		logger = logrus.New()
	}
	return &ListLanguagesTool{resolver: r, logger: logger}
}

// Definition returns the MCP tool definition for list_languages.
func (t *ListLanguagesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_languages",
		mcp.WithDescription(
			"List the languages a LeetCode problem has starter code for, with the file "+
				"extension used for each. Identify the problem as for load_problem.",
		),
		mcp.WithString("problem_name",
			mcp.Description("Free-text search over titles and slugs"),
		),
		mcp.WithString("problem_id",
			mcp.Description("Frontend problem number"),
		),
		mcp.WithString("title_slug",
			mcp.Description("URL slug, e.g. 'two-sum'"),
		),
	)
}

// Handle processes the list_languages tool call.
func (t *ListLanguagesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := queryArgs(req)
	log := requestLogger(t.logger, "list_languages", queryFields(q))

	res, err := t.resolver.Resolve(ctx, q)
	if err != nil {
		log.WithError(err).Warn("list_languages failed")
		return errorResult(err), nil
	}
	if res.Problem == nil {
		return jsonResult(format.Search(res.Query, res.Matches))
	}

	log.WithField("title_slug", res.Problem.TitleSlug).Info("list_languages resolved")
	return jsonResult(format.Languages(res.Problem))
}
