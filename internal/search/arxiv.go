// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-graph/internal/metrics"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultRequestInterval = 3 * time.Second
	defaultMaxRetries      = 3
	defaultRetryStep       = 5 * time.Second
)

// ErrPaperNotFound is returned by FetchByID when arXiv has no such paper.
var ErrPaperNotFound = errors.New("paper not found")

// errRetryable marks responses worth another attempt (rate limiting and
// transient unavailability).
var errRetryable = errors.New("arXiv API temporarily unavailable")

// ArxivIndex looks papers up in the arXiv API. Requests are spaced by the
// configured interval and retried with a linearly increasing wait.
type ArxivIndex struct {
	cfg     types.IndexConfig
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger

	// sleep waits between retry attempts. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewArxivIndex returns an index client. A nil client uses one with cfg.Timeout.
func NewArxivIndex(cfg types.IndexConfig, client *http.Client, log zerolog.Logger) *ArxivIndex {
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = defaultRequestInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryStep <= 0 {
		cfg.RetryStep = defaultRetryStep
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ArxivIndex{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		log:     log.With().Str("component", "arxiv").Logger(),
		sleep:   sleepContext,
	}
}

// FetchByID returns the record for one arXiv identifier. The returned
// Identifier is id as given, so callers can use it as a stable key.
func (a *ArxivIndex) FetchByID(ctx context.Context, id string) (rec types.SearchResult, err error) {
	done := metrics.TimeCall("arxiv", "fetch_by_id")
	defer func() { done(err == nil) }()

	entries, err := a.query(ctx, fmt.Sprintf("%s?id_list=%s&max_results=1", arxivAPIBase, url.QueryEscape(id)))
	if err != nil {
		return types.SearchResult{}, err
	}
	if len(entries) == 0 {
		return types.SearchResult{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}

	rec, ok := entries[0].record()
	if !ok {
		return types.SearchResult{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
	}
	rec.Identifier = id
	return rec, nil
}

// SearchByName runs a relevance-sorted free-text search.
func (a *ArxivIndex) SearchByName(ctx context.Context, query string, maxResults int) (results []types.SearchResult, err error) {
	done := metrics.TimeCall("arxiv", "search_by_name")
	defer func() { done(err == nil) }()

	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	entries, err := a.query(ctx, fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, maxResults))
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if r, ok := entry.record(); ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// query performs the request with the retry loop. Attempt n (from 1) waits
// n*RetryStep before running; the last error is returned when all attempts
// fail.
func (a *ArxivIndex) query(ctx context.Context, reqURL string) ([]arxivEntry, error) {
	var lastErr error
	for attempt := 0; attempt < a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * a.cfg.RetryStep
			a.log.Warn().Err(lastErr).Dur("wait", wait).Int("attempt", attempt+1).Msg("retrying arXiv request")
			if err := a.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		entries, err := a.fetch(ctx, reqURL)
		if err == nil {
			return entries, nil
		}
		lastErr = err
		if !errors.Is(err, errRetryable) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (a *ArxivIndex) fetch(ctx context.Context, reqURL string) ([]arxivEntry, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if a.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", a.cfg.UserAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: HTTP %d", errRetryable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed.Entries, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// buildArxivQuery constructs the search_query parameter from free text.
// Terms are escaped individually and joined with "+", which arXiv reads
// as a space.
func buildArxivQuery(text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	return "all:" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// record converts a feed entry. Error entries (arXiv reports a bad id as an
// entry without an /abs/ URL) are rejected.
func (e arxivEntry) record() (types.SearchResult, bool) {
	arxivID := extractArxivID(e.ID)
	if arxivID == "" {
		return types.SearchResult{}, false
	}

	r := types.SearchResult{
		Identifier: arxivID,
		Title:      collapseSpace(e.Title),
		Abstract:   collapseSpace(e.Summary),
		Source:     "arxiv",
		PDFURL:     "https://arxiv.org/pdf/" + arxivID,
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			r.PDFURL = l.Href
			break
		}
	}
	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		r.Date = t
	}
	return r, true
}

// collapseSpace joins the line-wrapped text arXiv returns into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
