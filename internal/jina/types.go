package jina

import "fmt"

// SearchRequest describes one call to the Search API.
type SearchRequest struct {
	Query string // Required
	Limit int    // Number of results; 0 means the server default

	// Optional response shaping, sent as X-* headers
	WithImages   bool
	WithFavicons bool
	Locale       string // e.g. "en-US"
	TimeoutSecs  int    // Upstream page-fetch budget
}

// SearchResult is one entry of the Search API response data array.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}

// ReaderRequest describes one call to the Reader API.
type ReaderRequest struct {
	URL string // Required; absolute http(s) URL

	// Optional response shaping, sent as X-* headers
	WithLinksSummary bool
	WithImages       bool
	WithGeneratedAlt bool
}

// Document is the extracted content of one read page.
type Document struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// APIError is a non-2xx response from the upstream API. The message is
// the JSON "detail"/"message" field when the body carries one, otherwise
// the raw body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jina api error %d: %s", e.StatusCode, e.Message)
}

// searchPayload is the Search API request body.
type searchPayload struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

// readerPayload is the Reader API request body.
type readerPayload struct {
	URL string `json:"url"`
}

// searchResponse is the Search API response envelope.
type searchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// readerResponse is the Reader API response envelope.
type readerResponse struct {
	Code int      `json:"code"`
	Data Document `json:"data"`
}
