// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-graph/internal/llm"
	"github.com/pdiddy/paper-graph/internal/search"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// Substrings that identify each prompt.
const (
	promptRouter       = "You are a router agent"
	promptConcepts     = "Key concepts (comma-separated)"
	promptPaperName    = "Paper name:"
	promptPaperTitle   = "Paper title:"
	promptAnswer       = "You are a research assistant"
	promptURL          = "Extract the URL the user wants to analyze"
	promptSummarize    = "Summarize the following web page content"
	promptCrawlURL     = "Extract the URL or site the user wants to crawl"
	promptInstructions = "generate specific instructions for crawling"
)

// --- language model ---

type modelCall struct {
	Prompt string
	Opts   llm.Options
	PDF    []byte
}

type fakeModel struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   []modelCall

	docReply string
	docErr   error
}

func newFakeModel() *fakeModel {
	return &fakeModel{replies: make(map[string]string)}
}

// on sets the reply for prompts containing marker.
func (m *fakeModel) on(marker, reply string) *fakeModel {
	m.replies[marker] = reply
	return m
}

func (m *fakeModel) Complete(_ context.Context, prompt string, opts llm.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, modelCall{Prompt: prompt, Opts: opts})
	if m.err != nil {
		return "", m.err
	}
	for marker, reply := range m.replies {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return "", nil
}

func (m *fakeModel) CompleteWithDocument(_ context.Context, prompt string, pdf []byte, opts llm.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, modelCall{Prompt: prompt, Opts: opts, PDF: pdf})
	if m.docErr != nil {
		return "", m.docErr
	}
	return m.docReply, nil
}

// callsMatching returns the calls whose prompt contains marker.
func (m *fakeModel) callsMatching(marker string) []modelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []modelCall
	for _, c := range m.calls {
		if strings.Contains(c.Prompt, marker) {
			out = append(out, c)
		}
	}
	return out
}

func (m *fakeModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// --- web service ---

type fakeWeb struct {
	mu sync.Mutex

	searchResults []web.SearchResult
	searchErr     error
	searches      []web.SearchRequest

	pages      []web.Page
	crawlErr   error
	crawls     []web.CrawlRequest
	extractErr error
	extracts   [][]string

	mapped []string
	mapErr error
	maps   []web.MapRequest
}

func (w *fakeWeb) Search(_ context.Context, req web.SearchRequest) ([]web.SearchResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.searches = append(w.searches, req)
	return w.searchResults, w.searchErr
}

func (w *fakeWeb) Crawl(_ context.Context, req web.CrawlRequest) ([]web.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.crawls = append(w.crawls, req)
	return w.pages, w.crawlErr
}

func (w *fakeWeb) Map(_ context.Context, req web.MapRequest) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.maps = append(w.maps, req)
	return w.mapped, w.mapErr
}

func (w *fakeWeb) Extract(_ context.Context, urls []string) ([]web.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.extracts = append(w.extracts, urls)
	return w.pages, w.extractErr
}

// --- paper index ---

type fakeIndex struct {
	mu       sync.Mutex
	records  map[string]types.SearchResult
	fetchErr error
	idErrs   map[string]error
	fetched  []string

	results   []types.SearchResult
	searchErr error
	queries   []string
}

func newFakeIndex(records ...types.SearchResult) *fakeIndex {
	idx := &fakeIndex{records: make(map[string]types.SearchResult)}
	for _, r := range records {
		idx.records[r.Identifier] = r
	}
	return idx
}

func (f *fakeIndex) FetchByID(_ context.Context, id string) (types.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, id)
	if f.fetchErr != nil {
		return types.SearchResult{}, f.fetchErr
	}
	if err := f.idErrs[id]; err != nil {
		return types.SearchResult{}, err
	}
	r, ok := f.records[id]
	if !ok {
		return types.SearchResult{}, search.ErrPaperNotFound
	}
	r.Identifier = id
	return r, nil
}

func (f *fakeIndex) SearchByName(_ context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.results) > maxResults {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}

// --- documents ---

type fakeDocs struct {
	data []byte
	err  error
	urls []string
}

func (d *fakeDocs) FetchPDF(_ context.Context, url string) ([]byte, error) {
	d.urls = append(d.urls, url)
	if d.err != nil {
		return nil, d.err
	}
	return d.data, nil
}

// --- wiring ---

type fixture struct {
	model *fakeModel
	web   *fakeWeb
	index *fakeIndex
	docs  *fakeDocs
	store *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return &fixture{
		model: newFakeModel(),
		web:   &fakeWeb{},
		index: newFakeIndex(),
		docs:  &fakeDocs{data: []byte("%PDF-1.4")},
		store: s,
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Model: f.model,
		Web:   f.web,
		Index: f.index,
		Docs:  f.docs,
		Store: f.store,
		Log:   zerolog.Nop(),
	}
}

func (f *fixture) handlers() *handlers {
	return &handlers{Deps: f.deps()}
}

func (f *fixture) assistant(t *testing.T) *Assistant {
	t.Helper()
	a, err := NewAssistant(f.deps())
	require.NoError(t, err)
	return a
}

// seed stores papers directly.
func (f *fixture) seed(t *testing.T, papers ...types.Paper) {
	t.Helper()
	for _, p := range papers {
		_, _, err := f.store.AddPaper(context.Background(), p)
		require.NoError(t, err)
	}
}

func paper(id, title string, concepts ...string) types.Paper {
	return types.Paper{
		ID:          id,
		Title:       title,
		Authors:     []string{"First Author"},
		Summary:     "Summary of " + title,
		Published:   time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		PDFURL:      "https://arxiv.org/pdf/" + id,
		KeyConcepts: concepts,
	}
}

func attentionRecord() types.SearchResult {
	return types.SearchResult{
		Identifier: "1706.03762",
		Title:      "Attention Is All You Need",
		Authors:    []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar", "Jakob Uszkoreit"},
		Abstract:   "We propose a new architecture based solely on attention mechanisms.",
		Date:       time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		PDFURL:     "https://arxiv.org/pdf/1706.03762v7",
		Source:     "arxiv",
	}
}

var errBoom = errors.New("boom")
