package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names
const (
	ToolSearch     = "jina_search"
	ToolReader     = "jina_reader"
	ToolClearCache = "clear_cache"
)

// Search parameter bounds
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 20
)

// searchTool returns the tool definition for jina_search
func searchTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolSearch,
		Description: "Search the web using Jina AI's Search API and return ranked results",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-20)",
					"default":     DefaultSearchLimit,
					"minimum":     1,
					"maximum":     MaxSearchLimit,
				},
				"with_images": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include image URLs in results",
					"default":     false,
				},
				"with_favicons": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include site favicons in results",
					"default":     false,
				},
				"locale": map[string]interface{}{
					"type":        "string",
					"description": "Browser locale for the search (e.g. 'en-US')",
				},
				"no_cache": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, bypass the response cache and force a fresh search",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

// readerTool returns the tool definition for jina_reader
func readerTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolReader,
		Description: "Read a web page through Jina AI's Reader API and return its content as markdown",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Absolute http(s) URL of the page to read",
				},
				"with_links_summary": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, append a summary of the page's links",
					"default":     false,
				},
				"with_images": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, append a summary of the page's images",
					"default":     false,
				},
				"no_cache": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, bypass the response cache and force a fresh read",
					"default":     false,
				},
			},
			Required: []string{"url"},
		},
	}
}

// clearCacheTool returns the tool definition for clear_cache
func clearCacheTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolClearCache,
		Description: "Flush all cached search and reader responses",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
