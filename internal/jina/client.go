package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default endpoints for the public Jina APIs
const (
	DefaultSearchEndpoint = "https://s.jina.ai/"
	DefaultReaderEndpoint = "https://r.jina.ai/"

	defaultTimeout = 60 * time.Second
)

// Common errors
var (
	ErrAPIKeyRequired = errors.New("api key is required")
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrEmptyURL       = errors.New("url cannot be empty")
	ErrInvalidURL     = errors.New("url must be an absolute http or https URL")
)

// Client calls the Jina Search and Reader APIs.
type Client struct {
	apiKey         string
	searchEndpoint string
	readerEndpoint string
	httpClient     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(j *Client) {
		j.httpClient = c
	}
}

// WithSearchEndpoint overrides the Search API endpoint.
func WithSearchEndpoint(endpoint string) Option {
	return func(j *Client) {
		j.searchEndpoint = endpoint
	}
}

// WithReaderEndpoint overrides the Reader API endpoint.
func WithReaderEndpoint(endpoint string) Option {
	return func(j *Client) {
		j.readerEndpoint = endpoint
	}
}

// WithTimeout sets the request timeout. Ignored when a custom HTTP
// client was supplied via WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(j *Client) {
		j.httpClient.Timeout = d
	}
}

// NewClient creates a client for the Jina APIs.
// Get an API key for free: https://jina.ai/?sui=apikey
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:         apiKey,
		searchEndpoint: DefaultSearchEndpoint,
		readerEndpoint: DefaultReaderEndpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Search runs a web search and returns the ranked result list.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	headers := http.Header{}
	if req.WithImages {
		headers.Set("X-With-Images", "true")
	}
	if req.WithFavicons {
		headers.Set("X-With-Favicons", "true")
	}
	if req.Locale != "" {
		headers.Set("X-Locale", req.Locale)
	}
	if req.TimeoutSecs > 0 {
		headers.Set("X-Timeout", strconv.Itoa(req.TimeoutSecs))
	}

	body, err := c.post(ctx, c.searchEndpoint, searchPayload{
		Query: req.Query,
		Num:   req.Limit,
	}, headers)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return resp.Data, nil
}

// Read fetches a URL through the Reader API and returns the extracted
// content as markdown.
func (c *Client) Read(ctx context.Context, req ReaderRequest) (*Document, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrEmptyURL
	}
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	headers := http.Header{}
	if req.WithLinksSummary {
		headers.Set("X-With-Links-Summary", "true")
	}
	if req.WithImages {
		headers.Set("X-With-Images-Summary", "true")
	}
	if req.WithGeneratedAlt {
		headers.Set("X-With-Generated-Alt", "true")
	}

	httpResp, err := c.postRaw(ctx, c.readerEndpoint, readerPayload{URL: req.URL}, headers)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	// The Reader API answers JSON when asked, but a proxy or an older
	// deployment may hand back plain text. Pass that through as content.
	if !strings.Contains(httpResp.Header.Get("Content-Type"), "application/json") {
		return &Document{URL: req.URL, Content: string(raw)}, nil
	}

	var resp readerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode reader response: %w", err)
	}

	doc := resp.Data
	if doc.URL == "" {
		doc.URL = req.URL
	}
	return &doc, nil
}

// post issues an authenticated JSON POST and returns the body of a 2xx
// response.
func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, headers http.Header) ([]byte, error) {
	resp, err := c.postRaw(ctx, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

func (c *Client) postRaw(ctx context.Context, endpoint string, payload interface{}, headers http.Header) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() {
			_ = resp.Body.Close()
		}()
		raw, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(raw),
		}
	}

	return resp, nil
}

// Close releases idle connections held by the HTTP client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// upstreamMessage extracts the error detail from a Jina error body.
func upstreamMessage(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

// ValidateURL reports whether rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
