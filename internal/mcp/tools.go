package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jinaai/jina-mcp/internal/cache"
	"github.com/jinaai/jina-mcp/internal/jina"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32001 // Query parameter is empty
	ErrorCodeInvalidURL    = -32002 // URL parameter is missing or malformed
	ErrorCodeUpstreamError = -32003 // The Jina API returned an error
	ErrorCodeConfigError   = -32004 // Server is misconfigured (e.g. missing API key)
)

// handleSearch handles the jina_search tool invocation
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", DefaultSearchLimit)
	if limit < 1 || limit > MaxSearchLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", MaxSearchLimit), map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	req := jina.SearchRequest{
		Query:        query,
		Limit:        limit,
		WithImages:   getBoolDefault(args, "with_images", false),
		WithFavicons: getBoolDefault(args, "with_favicons", false),
		Locale:       getStringDefault(args, "locale", ""),
	}
	noCache := getBoolDefault(args, "no_cache", false)

	reqID := shortID()
	start := time.Now()
	log.Printf("[%s] %s query=%q limit=%d", reqID, ToolSearch, query, limit)

	key, cacheable := s.cacheKey(ToolSearch, req)
	if cacheable && !noCache {
		if cached, hit := s.cache.Get(ctx, key); hit {
			log.Printf("[%s] %s served from cache in %s", reqID, ToolSearch, time.Since(start))
			return mcp.NewToolResultText(string(cached)), nil
		}
	}

	results, err := s.client.Search(ctx, req)
	if err != nil {
		log.Printf("[%s] %s failed: %v", reqID, ToolSearch, err)
		return nil, relayError(err)
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}
	text := formatJSON(response)

	if cacheable {
		if err := s.cache.Put(ctx, key, []byte(text)); err != nil {
			log.Printf("[%s] cache write failed: %v", reqID, err)
		}
	}

	log.Printf("[%s] %s returned %d results in %s", reqID, ToolSearch, len(results), time.Since(start))
	return mcp.NewToolResultText(text), nil
}

// handleRead handles the jina_reader tool invocation
func (s *Server) handleRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	rawURL, ok := args["url"].(string)
	if !ok || strings.TrimSpace(rawURL) == "" {
		return nil, newMCPError(ErrorCodeInvalidURL, "url parameter is required and cannot be empty", map[string]interface{}{
			"param":  "url",
			"reason": "missing or empty",
		})
	}
	if err := jina.ValidateURL(rawURL); err != nil {
		return nil, newMCPError(ErrorCodeInvalidURL, "invalid url", map[string]interface{}{
			"param":  "url",
			"reason": err.Error(),
		})
	}

	req := jina.ReaderRequest{
		URL:              rawURL,
		WithLinksSummary: getBoolDefault(args, "with_links_summary", false),
		WithImages:       getBoolDefault(args, "with_images", false),
	}
	noCache := getBoolDefault(args, "no_cache", false)

	reqID := shortID()
	start := time.Now()
	log.Printf("[%s] %s url=%q", reqID, ToolReader, rawURL)

	key, cacheable := s.cacheKey(ToolReader, req)
	if cacheable && !noCache {
		if cached, hit := s.cache.Get(ctx, key); hit {
			log.Printf("[%s] %s served from cache in %s", reqID, ToolReader, time.Since(start))
			return mcp.NewToolResultText(string(cached)), nil
		}
	}

	doc, err := s.client.Read(ctx, req)
	if err != nil {
		log.Printf("[%s] %s failed: %v", reqID, ToolReader, err)
		return nil, relayError(err)
	}

	response := map[string]interface{}{
		"title":   doc.Title,
		"url":     doc.URL,
		"content": doc.Content,
	}
	text := formatJSON(response)

	if cacheable {
		if err := s.cache.Put(ctx, key, []byte(text)); err != nil {
			log.Printf("[%s] cache write failed: %v", reqID, err)
		}
	}

	log.Printf("[%s] %s read %d bytes in %s", reqID, ToolReader, len(doc.Content), time.Since(start))
	return mcp.NewToolResultText(text), nil
}

// handleClearCache handles the clear_cache tool invocation
func (s *Server) handleClearCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.cache == nil {
		return mcp.NewToolResultText("caching is disabled, nothing to clear"), nil
	}

	if err := s.cache.Purge(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Printf("%s: all cached responses cleared", ToolClearCache)
	return mcp.NewToolResultText("all cached responses cleared"), nil
}

// Helper functions

// cacheKey derives the cache key for a request. The second return is
// false when caching is disabled or the request cannot be serialized.
func (s *Server) cacheKey(tool string, req interface{}) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	return cache.Key(tool, payload), true
}

// relayError maps a client error to an MCP protocol error. Upstream
// HTTP failures keep their status code and message.
func relayError(err error) error {
	var apiErr *jina.APIError
	if errors.As(err, &apiErr) {
		return newMCPError(ErrorCodeUpstreamError, apiErr.Error(), map[string]interface{}{
			"status_code": apiErr.StatusCode,
		})
	}
	if errors.Is(err, jina.ErrAPIKeyRequired) {
		return newMCPError(ErrorCodeConfigError, "server is missing a Jina API key", nil)
	}
	return newMCPError(ErrorCodeInternalError, "request failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// shortID returns a short correlation id for log lines.
func shortID() string {
	return uuid.NewString()[:8]
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
