package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	c, err := NewClient("")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestSearch_SendsOneAuthenticatedRequest(t *testing.T) {
	var calls atomic.Int32
	var gotAuth, gotContentType, gotAccept string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":[
			{"title":"Jina AI","url":"https://jina.ai","description":"Search foundation"},
			{"title":"Docs","url":"https://jina.ai/docs"}
		]}`))
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithSearchEndpoint(server.URL))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), SearchRequest{Query: "jina ai", Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "exactly one outbound call expected")
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "jina ai", gotPayload["q"])
	assert.Equal(t, float64(3), gotPayload["num"])

	require.Len(t, results, 2)
	assert.Equal(t, "Jina AI", results[0].Title)
	assert.Equal(t, "https://jina.ai", results[0].URL)
	assert.Equal(t, "Search foundation", results[0].Description)
}

func TestSearch_OptionalHeaders(t *testing.T) {
	var gotHeader http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":[]}`))
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithSearchEndpoint(server.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), SearchRequest{
		Query:        "golang",
		WithImages:   true,
		WithFavicons: true,
		Locale:       "en-US",
		TimeoutSecs:  20,
	})
	require.NoError(t, err)

	assert.Equal(t, "true", gotHeader.Get("X-With-Images"))
	assert.Equal(t, "true", gotHeader.Get("X-With-Favicons"))
	assert.Equal(t, "en-US", gotHeader.Get("X-Locale"))
	assert.Equal(t, "20", gotHeader.Get("X-Timeout"))
}

func TestSearch_EmptyQueryMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithSearchEndpoint(server.URL))
	require.NoError(t, err)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := c.Search(context.Background(), SearchRequest{Query: query})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Equal(t, int32(0), calls.Load(), "no network call expected for invalid input")
}

func TestSearch_UpstreamErrorRelayed(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"unauthorized with detail", http.StatusUnauthorized, `{"detail":"Invalid API key"}`, "Invalid API key"},
		{"server error with message", http.StatusInternalServerError, `{"message":"upstream exploded"}`, "upstream exploded"},
		{"plain text body", http.StatusBadGateway, "bad gateway\n", "bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := NewClient("test-key", WithSearchEndpoint(server.URL))
			require.NoError(t, err)

			_, err = c.Search(context.Background(), SearchRequest{Query: "anything"})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Message)
		})
	}
}

func TestRead_ReturnsDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "https://example.com/post", payload["url"])
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":{
			"title":"Example Post",
			"url":"https://example.com/post",
			"content":"# Example\n\nBody text."
		}}`))
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithReaderEndpoint(server.URL))
	require.NoError(t, err)

	doc, err := c.Read(context.Background(), ReaderRequest{URL: "https://example.com/post"})
	require.NoError(t, err)
	assert.Equal(t, "Example Post", doc.Title)
	assert.Equal(t, "https://example.com/post", doc.URL)
	assert.Equal(t, "# Example\n\nBody text.", doc.Content)
}

func TestRead_NonJSONBodyPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("raw markdown content"))
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithReaderEndpoint(server.URL))
	require.NoError(t, err)

	doc, err := c.Read(context.Background(), ReaderRequest{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "raw markdown content", doc.Content)
	assert.Equal(t, "https://example.com", doc.URL)
}

func TestRead_OptionalHeaders(t *testing.T) {
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":{"url":"https://example.com","content":"x"}}`))
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithReaderEndpoint(server.URL))
	require.NoError(t, err)

	_, err = c.Read(context.Background(), ReaderRequest{
		URL:              "https://example.com",
		WithLinksSummary: true,
		WithGeneratedAlt: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "true", gotHeader.Get("X-With-Links-Summary"))
	assert.Equal(t, "true", gotHeader.Get("X-With-Generated-Alt"))
	assert.Empty(t, gotHeader.Get("X-With-Images-Summary"))
}

func TestRead_InvalidURLMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c, err := NewClient("test-key", WithReaderEndpoint(server.URL))
	require.NoError(t, err)

	tests := []struct {
		url     string
		wantErr error
	}{
		{"", ErrEmptyURL},
		{"   ", ErrEmptyURL},
		{"ftp://example.com/file", ErrInvalidURL},
		{"example.com/no-scheme", ErrInvalidURL},
		{"https://", ErrInvalidURL},
	}

	for _, tt := range tests {
		_, err := c.Read(context.Background(), ReaderRequest{URL: tt.url})
		assert.ErrorIs(t, err, tt.wantErr, "url %q", tt.url)
	}
	assert.Equal(t, int32(0), calls.Load())
}
