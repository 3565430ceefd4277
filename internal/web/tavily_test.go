// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-graph/pkg/types"
)

func setupTavily(t *testing.T, handler http.HandlerFunc) *Tavily {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	t.Cleanup(func() { tavilyAPIBase = old })

	return NewTavily(types.WebConfig{APIKey: "tvly-test"}, ts.Client(), zerolog.Nop())
}

func TestSearch(t *testing.T) {
	var got map[string]any
	tv := setupTavily(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"results":[{"url":"https://arxiv.org/abs/2401.12345","title":"A","content":"c"}]}`))
	})

	results, err := tv.Search(context.Background(), SearchRequest{
		Query:          "transformers research paper",
		SearchDepth:    "advanced",
		MaxResults:     5,
		IncludeDomains: []string{"arxiv.org"},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "https://arxiv.org/abs/2401.12345", results[0].URL)
	assert.Equal(t, "transformers research paper", got["query"])
	assert.Equal(t, "advanced", got["search_depth"])
	assert.Equal(t, []any{"arxiv.org"}, got["include_domains"])
}

func TestCrawl(t *testing.T) {
	tv := setupTavily(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crawl", r.URL.Path)
		var req CrawlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.MaxDepth)
		assert.Equal(t, "find papers", req.Instructions)
		w.Write([]byte(`{"results":[{"url":"https://example.org/p","raw_content":"see arxiv.org/abs/2401.00001"}]}`))
	})

	pages, err := tv.Crawl(context.Background(), CrawlRequest{URL: "https://example.org", Instructions: "find papers", MaxDepth: 2})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].RawContent, "2401.00001")
}

func TestMap(t *testing.T) {
	tv := setupTavily(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/map", r.URL.Path)
		w.Write([]byte(`{"base_url":"https://arxiv.org","results":["https://arxiv.org/abs/2401.00001","https://arxiv.org/list/cs.AI"]}`))
	})

	urls, err := tv.Map(context.Background(), MapRequest{URL: "https://arxiv.org"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://arxiv.org/abs/2401.00001", "https://arxiv.org/list/cs.AI"}, urls)
}

func TestExtract(t *testing.T) {
	tv := setupTavily(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		var body struct {
			URLs []string `json:"urls"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"https://blog.example.org/post"}, body.URLs)
		w.Write([]byte(`{"results":[{"url":"https://blog.example.org/post","raw_content":"hello"}],"failed_results":[]}`))
	})

	pages, err := tv.Extract(context.Background(), []string{"https://blog.example.org/post"})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "hello", pages[0].RawContent)
}

func TestHTTPErrorIsReturned(t *testing.T) {
	tv := setupTavily(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid key"}`))
	})

	_, err := tv.Search(context.Background(), SearchRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tavily search returned HTTP 401")
}
