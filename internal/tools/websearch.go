package tools

import (
	"context"
	"fmt"
	"net/url"

	"github.com/modelbridge/toolserve/internal/mcp"
)

// SearchHit is one entry in a websearch result list.
type SearchHit struct {
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	URL       string  `json:"url"`
	Relevance float64 `json:"relevance"`
}

// SearchResult is the websearch tool's response payload.
type SearchResult struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Results []SearchHit `json:"results"`
}

// WebSearch returns the web search tool descriptor. Results are synthesized
// locally; wiring a real search backend is out of scope for this server.
func WebSearch() mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "websearch",
		Description: "Search the web for a query and return ranked results.",
		Schema: mcp.ToolSchema{
			{Name: "query", Kind: mcp.KindString, Required: true, Description: "Search terms"},
			{Name: "max_results", Kind: mcp.KindInteger, Default: 5, Description: "Maximum number of results"},
		},
		Handler: search,
	}
}

func search(_ context.Context, args map[string]any) (any, error) {
	query := args["query"].(string)
	maxResults := args["max_results"].(int)

	if maxResults < 0 {
		return nil, mcp.NewToolError("max_results must not be negative")
	}

	hits := make([]SearchHit, 0, maxResults)
	for i := 0; i < maxResults; i++ {
		hits = append(hits, SearchHit{
			Title:     fmt.Sprintf("Result %d for %q", i+1, query),
			Snippet:   fmt.Sprintf("Summary of result %d related to %s.", i+1, query),
			URL:       fmt.Sprintf("https://example.com/search?q=%s&result=%d", url.QueryEscape(query), i+1),
			Relevance: 1.0 - 0.05*float64(i),
		})
	}

	return &SearchResult{Query: query, Total: len(hits), Results: hits}, nil
}
