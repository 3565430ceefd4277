// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web queries a hosted web search service for search, crawl, site
// map and content extraction.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/httputil"
	"github.com/pdiddy/paper-graph/internal/metrics"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// tavilyAPIBase is the Tavily API root. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com"

// SearchRequest holds the parameters of a web search.
type SearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CrawlRequest holds the parameters of a guided site crawl.
type CrawlRequest struct {
	URL          string `json:"url"`
	Instructions string `json:"instructions,omitempty"`
	MaxDepth     int    `json:"max_depth,omitempty"`
	MaxBreadth   int    `json:"max_breadth,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// Page is a crawled or extracted page.
type Page struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	RawContent string `json:"raw_content"`
}

// MapRequest holds the parameters of a site map.
type MapRequest struct {
	URL        string `json:"url"`
	MaxDepth   int    `json:"max_depth,omitempty"`
	MaxBreadth int    `json:"max_breadth,omitempty"`
}

// Tavily calls the Tavily REST API.
type Tavily struct {
	cfg    types.WebConfig
	client *http.Client
	log    zerolog.Logger
}

// NewTavily returns a Tavily client. A nil client uses one with cfg.Timeout.
func NewTavily(cfg types.WebConfig, client *http.Client, log zerolog.Logger) *Tavily {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Tavily{cfg: cfg, client: client, log: log.With().Str("component", "web").Logger()}
}

// Search runs a web search.
func (t *Tavily) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	var out struct {
		Results []SearchResult `json:"results"`
	}
	if err := t.post(ctx, "search", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Crawl follows links from req.URL guided by natural-language instructions.
func (t *Tavily) Crawl(ctx context.Context, req CrawlRequest) ([]Page, error) {
	var out struct {
		Results []Page `json:"results"`
	}
	if err := t.post(ctx, "crawl", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Map lists the URLs reachable from req.URL.
func (t *Tavily) Map(ctx context.Context, req MapRequest) ([]string, error) {
	var out struct {
		Results []string `json:"results"`
	}
	if err := t.post(ctx, "map", req, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Extract fetches the cleaned content of each URL. Pages that fail to
// extract are omitted.
func (t *Tavily) Extract(ctx context.Context, urls []string) ([]Page, error) {
	var out struct {
		Results []Page `json:"results"`
	}
	if err := t.post(ctx, "extract", struct {
		URLs []string `json:"urls"`
	}{urls}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (t *Tavily) post(ctx context.Context, endpoint string, body, out any) (err error) {
	done := metrics.TimeCall("web", endpoint)
	defer func() { done(err == nil) }()

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase+"/"+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, t.client, req, t.cfg.MaxRetries, t.log)
	if err != nil {
		return fmt.Errorf("Tavily %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httputil.ReadError("Tavily "+endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Tavily %s response: %w", endpoint, err)
	}
	return nil
}
