// Package jina provides an HTTP client for the Jina AI Search Foundation
// APIs: web search (s.jina.ai) and page reading (r.jina.ai).
//
// Both operations are single authenticated POST requests. The client
// validates input and the presence of an API key before any network I/O,
// and relays upstream HTTP failures as *APIError values carrying the
// status code and the upstream message. Nothing is retried.
package jina
