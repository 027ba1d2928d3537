package tools

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/format"
	"github.com/HendryAvila/interview-prep-mcp/internal/resolver"
)

// Resolver is the problem lookup the problem tools depend on.
type Resolver interface {
	Resolve(ctx context.Context, q resolver.Query) (*resolver.Result, error)
}

// LoadProblemTool handles the load_problem MCP tool.
type LoadProblemTool struct {
	resolver Resolver
	logger   *logrus.Logger
}

// NewLoadProblemTool creates a LoadProblemTool.
func NewLoadProblemTool(r Resolver, logger *logrus.Logger) *LoadProblemTool {
	if logger == nil {
		logger = logrus.New()
	}
	return &LoadProblemTool{resolver: r, logger: logger}
}

// Definition returns the MCP tool definition for load_problem.
func (t *LoadProblemTool) Definition() mcp.Tool {
	return mcp.NewTool("load_problem",
		mcp.WithDescription(
			"Load a LeetCode problem with its description, topics, hints, test cases and starter code. "+
				"Identify the problem by exactly one of problem_name (fuzzy title search), problem_id "+
				"(the number shown on LeetCode) or title_slug (the URL slug). If problem_name matches "+
				"several problems, a list of candidates is returned instead; call again with one of "+
				"their problem_id or title_slug values. Pass language to get only that language's "+
				"starter code plus a suggested file name.",
		),
		mcp.WithString("problem_name",
			mcp.Description("Free-text search over titles and slugs, e.g. 'two sum'. Takes precedence over the other identifiers."),
		),
		mcp.WithString("problem_id",
			mcp.Description("Frontend problem number, e.g. '1' or '42'"),
		),
		mcp.WithString("title_slug",
			mcp.Description("URL slug, e.g. 'two-sum'"),
		),
		mcp.WithString("language",
			mcp.Description("Starter code language: slug (python3, golang, cpp), display name (Python3, Go, C++) or alias (py, go, js, ts)"),
		),
	)
}

// Handle processes the load_problem tool call.
func (t *LoadProblemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := queryArgs(req)
	lang := strings.TrimSpace(req.GetString("language", ""))

	fields := queryFields(q)
	if lang != "" {
		fields["language"] = lang
	}
	log := requestLogger(t.logger, "load_problem", fields)
	start := time.Now()

	res, err := t.resolver.Resolve(ctx, q)
	if err != nil {
		log.WithError(err).Warn("load_problem failed")
		return errorResult(err), nil
	}

	log = log.WithField("duration", time.Since(start).String())
	if res.Problem == nil {
		log.WithField("matches", len(res.Matches)).Info("load_problem returned candidates")
		return jsonResult(format.Search(res.Query, res.Matches))
	}

	log.WithField("title_slug", res.Problem.TitleSlug).Info("load_problem resolved")
	return jsonResult(format.Problem(res.Problem, lang))
}
