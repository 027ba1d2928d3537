// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (leetcode://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/interview-prep-mcp/internal/catalog"
)

// CatalogStatusURI addresses the identity cache status.
const CatalogStatusURI = "leetcode://catalog/status"

// StatsProvider reports the identity cache state.
type StatsProvider interface {
	Stats() catalog.Stats
}

// Handler manages resource endpoints.
type Handler struct {
	catalog StatsProvider
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(catalog StatsProvider) *Handler {
	return &Handler{catalog: catalog}
}

// CatalogStatusResource returns the MCP resource definition for the
// catalog cache status.
func (h *Handler) CatalogStatusResource() mcp.Resource {
	return mcp.NewResource(
		CatalogStatusURI,
		"LeetCode Catalog Status",
		mcp.WithResourceDescription("Whether the problem catalog is loaded, how many entries it holds, when and from which source it was built"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalogStatus returns the cache stats as JSON. Reading it never
// triggers a catalog build.
func (h *Handler) HandleCatalogStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.catalog.Stats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
