// Package mcp implements the Model Context Protocol (MCP) server that
// exposes Jina AI's Search Foundation APIs as tools.
//
// The server exposes three tools to AI assistants:
//   - jina_search: web search via s.jina.ai
//   - jina_reader: page extraction via r.jina.ai
//   - clear_cache: flush cached responses
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol. The default transport is stdio:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// For remote deployment the same tool surface is served over an SSE
// HTTP listener (see Server.ServeSSE).
//
// # Tool: jina_search
//
//	Request:
//	{
//	  "name": "jina_search",
//	  "arguments": {
//	    "query": "model context protocol",
//	    "limit": 5
//	  }
//	}
//
//	Response (JSON text content):
//	{
//	  "query": "model context protocol",
//	  "count": 5,
//	  "results": [
//	    {"title": "...", "url": "...", "description": "..."}
//	  ]
//	}
//
// # Tool: jina_reader
//
//	Request:
//	{
//	  "name": "jina_reader",
//	  "arguments": {
//	    "url": "https://example.com/article"
//	  }
//	}
//
//	Response (JSON text content):
//	{
//	  "title": "...",
//	  "url": "https://example.com/article",
//	  "content": "# Markdown body..."
//	}
//
// Every tool invocation maps to at most one outbound HTTP call against
// the Jina API. Argument validation happens before any network I/O, and
// upstream HTTP failures are relayed to the caller as tool-call errors
// carrying the upstream status code and message.
package mcp
