// Package tools implements the MCP tool handlers.
//
// Each tool follows the same shape:
//   - a struct holding its dependencies, injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Payloads are returned as indented JSON text. Failures the caller can act
// on (bad arguments, unknown problems, upstream outages) are returned as
// tool error results, not Go errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
	"github.com/HendryAvila/interview-prep-mcp/internal/resolver"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// queryArgs reads the three problem identifiers shared by several tools.
func queryArgs(req mcp.CallToolRequest) resolver.Query {
	return resolver.Query{
		ProblemName: req.GetString("problem_name", ""),
		ProblemID:   idArg(req, "problem_id"),
		TitleSlug:   req.GetString("title_slug", ""),
	}
}

// idArg accepts an id sent either as a string or as a JSON number.
func idArg(req mcp.CallToolRequest, key string) string {
	switch v := req.GetArguments()[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int64(v))
	default:
		return ""
	}
}

// jsonResult renders v as the text content of a successful result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts a resolution or upstream failure into a tool error.
func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, resolver.ErrInvalidArgument), errors.Is(err, resolver.ErrNotFound):
		return mcp.NewToolResultError(err.Error())
	case leetcode.KindOf(err) != 0:
		return mcp.NewToolResultError(fmt.Sprintf("LeetCode request failed (%s): %v", leetcode.KindOf(err), err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("request failed: %v", err))
	}
}

// requestLogger tags a tool invocation with a fresh request id.
func requestLogger(logger *logrus.Logger, tool string, fields logrus.Fields) *logrus.Entry {
	entry := logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"tool":       tool,
	})
	return entry.WithFields(fields)
}

// queryFields lists the identifiers that were supplied.
func queryFields(q resolver.Query) logrus.Fields {
	fields := logrus.Fields{}
	if q.ProblemName != "" {
		fields["problem_name"] = q.ProblemName
	}
	if q.ProblemID != "" {
		fields["problem_id"] = q.ProblemID
	}
	if q.TitleSlug != "" {
		fields["title_slug"] = q.TitleSlug
	}
	return fields
}
