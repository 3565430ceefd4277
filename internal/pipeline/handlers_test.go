// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-graph/internal/llm"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// --- search_paper ---

func TestSearchTopic(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptPaperName, "sparse attention")
	f.index = newFakeIndex(attentionRecord())
	f.index.idErrs = map[string]error{"2004.05150": errBoom}
	f.web.searchResults = []web.SearchResult{
		{URL: "https://arxiv.org/abs/1706.03762", Title: "web title"},
		{URL: "https://arxiv.org/pdf/1706.03762", Title: "duplicate"},
		{URL: "https://example.com/blog", Title: "not arxiv"},
		{URL: "https://arxiv.org/abs/9912.99999", Title: "withdrawn"},
		{URL: "https://arxiv.org/abs/2004.05150", Title: "Longformer"},
	}

	d, err := f.handlers().searchTopic(context.Background(), State{Message: "papers on sparse attention"})
	require.NoError(t, err)

	require.Len(t, f.web.searches, 1)
	req := f.web.searches[0]
	assert.Equal(t, "sparse attention research paper", req.Query)
	assert.Equal(t, "advanced", req.SearchDepth)
	assert.Equal(t, 5, req.MaxResults)
	assert.Equal(t, []string{"arxiv.org"}, req.IncludeDomains)

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, "1706.03762", d.Candidates[0].ArxivID)
	assert.Equal(t, "Attention Is All You Need", d.Candidates[0].Title)
	assert.Equal(t, 2017, d.Candidates[0].Year)
	assert.Len(t, d.Candidates[0].Authors, 3)

	// Unknown to the index: dropped. Lookup failed: web title, no authors, year zero.
	assert.Equal(t, types.PaperCandidate{ArxivID: "2004.05150", Title: "Longformer", Authors: []string{}}, d.Candidates[1])
	assert.Equal(t, "Found 2 papers matching 'sparse attention':", d.Response)
}

func TestSearchTopicNoResults(t *testing.T) {
	tests := []struct {
		name    string
		results []web.SearchResult
		err     error
		want    string
	}{
		{"web failure", nil, errBoom, "No papers found for 'gnn'. Try different keywords."},
		{"no hits", nil, nil, "No papers found for 'gnn'. Try different keywords."},
		{"no arxiv ids", []web.SearchResult{{URL: "https://example.com"}}, nil, "No arXiv papers found for 'gnn'. Try different keywords."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.model.on(promptPaperName, "gnn")
			f.web.searchResults = tt.results
			f.web.searchErr = tt.err

			d, err := f.handlers().searchTopic(context.Background(), State{Message: "gnn papers"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Response)
			assert.NotNil(t, d.Candidates)
			assert.Empty(t, d.Candidates)
		})
	}
}

func TestSearchTopicSkipsHitsUnknownToIndex(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptPaperName, "gnn")
	f.web.searchResults = []web.SearchResult{{URL: "https://arxiv.org/abs/2301.00001", Title: "gone"}}

	d, err := f.handlers().searchTopic(context.Background(), State{Message: "gnn papers"})
	require.NoError(t, err)
	assert.Empty(t, d.Candidates)
	assert.Equal(t, "No arXiv papers found for 'gnn'. Try different keywords.", d.Response)
	assert.Equal(t, []string{"2301.00001"}, f.index.fetched)
}

func TestSearchTopicCapsCandidates(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptPaperName, "q")
	f.index.fetchErr = errBoom
	for i := range 8 {
		f.web.searchResults = append(f.web.searchResults, web.SearchResult{URL: fmt.Sprintf("https://arxiv.org/abs/2301.0000%d", i)})
	}
	d, err := f.handlers().searchTopic(context.Background(), State{Message: "q"})
	require.NoError(t, err)
	assert.Len(t, d.Candidates, 5)
}

// --- find_related ---

func TestFindRelatedUsesStoredPaper(t *testing.T) {
	f := newFixture(t)
	f.seed(t, paper("1706.03762", "Attention Is All You Need", "attention"))
	f.model.on(promptPaperTitle, "attention is all")
	f.web.searchResults = []web.SearchResult{
		{URL: "https://arxiv.org/abs/1706.03762v5", Title: "self"},
		{URL: "https://arxiv.org/abs/1810.04805", Title: "BERT"},
		{URL: "https://arxiv.org/abs/1810.04805", Title: "BERT again"},
		{URL: "https://arxiv.org/abs/2005.14165"},
	}

	d, err := f.handlers().findRelated(context.Background(), State{Message: "find papers related to attention is all"})
	require.NoError(t, err)

	require.Len(t, f.web.searches, 1)
	req := f.web.searches[0]
	assert.Equal(t, `papers citing "Attention Is All You Need" OR related to "Attention Is All You Need"`, req.Query)
	assert.Equal(t, 10, req.MaxResults)
	assert.Equal(t, []string{"arxiv.org"}, req.IncludeDomains)

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, "1810.04805", d.Candidates[0].ArxivID)
	assert.Equal(t, "BERT", d.Candidates[0].Title)
	assert.Equal(t, "1706.03762", d.Candidates[0].SourcePaperID)
	assert.Equal(t, "Paper 2005.14165", d.Candidates[1].Title)
	assert.Equal(t, "Found 2 papers related to 'Attention Is All You Need':", d.Response)
}

func TestFindRelatedUnknownPaper(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptPaperTitle, "Mamba")
	f.web.searchResults = []web.SearchResult{{URL: "https://arxiv.org/abs/2312.00752", Title: "Mamba"}}

	d, err := f.handlers().findRelated(context.Background(), State{Message: "papers related to Mamba"})
	require.NoError(t, err)
	require.Len(t, d.Candidates, 1)
	assert.Empty(t, d.Candidates[0].SourcePaperID)
	assert.Equal(t, `papers citing "Mamba" OR related to "Mamba"`, f.web.searches[0].Query)
}

func TestFindRelatedEmptyOutcomes(t *testing.T) {
	f := newFixture(t)
	f.seed(t, paper("1810.04805", "BERT", "nlp"))
	f.model.on(promptPaperTitle, "BERT")

	d, err := f.handlers().findRelated(context.Background(), State{Message: "related to BERT"})
	require.NoError(t, err)
	assert.Equal(t, "No related papers found for 'BERT'.", d.Response)

	f.web.searchResults = []web.SearchResult{{URL: "https://arxiv.org/abs/1810.04805v2"}}
	d, err = f.handlers().findRelated(context.Background(), State{Message: "related to BERT"})
	require.NoError(t, err)
	assert.Equal(t, "Found results for 'BERT', but all are already in your collection.", d.Response)
	assert.Empty(t, d.Candidates)
}

// --- question ---

func TestAnswer(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		paper("2301.00001", "Paper One", "alpha", "beta", "gamma"),
		paper("2301.00002", "Paper Two", "delta", "epsilon"),
		paper("2301.00003", "Paper Three", "zeta"),
		paper("2301.00004", "Paper Four", "eta"),
	)
	_, _, err := f.store.AddEdge(context.Background(), types.Edge{SourceID: "2301.00001", TargetID: "2301.00002", Type: types.EdgeManual})
	require.NoError(t, err)
	f.web.searchResults = []web.SearchResult{{Title: "Survey", Content: "A survey of things."}}
	f.model.on(promptAnswer, "  They differ in scope.  ")

	d, err := f.handlers().answer(context.Background(), State{Message: "How do they differ?"})
	require.NoError(t, err)
	assert.Equal(t, "They differ in scope.", d.Response)

	require.Len(t, f.web.searches, 1)
	assert.Equal(t, "How do they differ? alpha beta delta epsilon zeta", f.web.searches[0].Query)
	assert.Equal(t, 5, f.web.searches[0].MaxResults)

	calls := f.model.callsMatching(promptAnswer)
	require.Len(t, calls, 1)
	assert.Equal(t, llm.Options{MaxTokens: 500, Temperature: 0.7}, calls[0].Opts)
	prompt := calls[0].Prompt
	assert.Contains(t, prompt, "- Paper One (2023)\n  arXiv ID: 2301.00001")
	assert.Contains(t, prompt, "- Paper One -> Paper Two (manual)")
	assert.Contains(t, prompt, "- Survey: A survey of things.")
	assert.Contains(t, prompt, "User's question: How do they differ?")
}

func TestAnswerEmptyCollectionAndWebFailure(t *testing.T) {
	f := newFixture(t)
	f.web.searchErr = errBoom
	f.model.on(promptAnswer, "General answer.")

	d, err := f.handlers().answer(context.Background(), State{Message: "What is a transformer?"})
	require.NoError(t, err)
	assert.Equal(t, "General answer.", d.Response)

	prompt := f.model.callsMatching(promptAnswer)[0].Prompt
	assert.Contains(t, prompt, "No papers in collection yet.")
	assert.Contains(t, prompt, "No connections found yet.")
	assert.Contains(t, prompt, "No relevant search results found.")
}

func TestAnswerModelErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.model.err = errBoom
	_, err := f.handlers().answer(context.Background(), State{Message: "why?"})
	assert.ErrorIs(t, err, errBoom)
}

// --- extract ---

func TestExtractSummarizesArxivPage(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptURL, "https://arxiv.org/abs/1706.03762").on(promptSummarize, "A summary.")
	f.web.pages = []web.Page{{URL: "https://arxiv.org/abs/1706.03762", RawContent: strings.Repeat("x", 12000)}}

	d, err := f.handlers().extract(context.Background(), State{Message: "summarize https://arxiv.org/abs/1706.03762"})
	require.NoError(t, err)

	assert.Equal(t, "A summary.\n\nThis appears to be an arXiv paper (1706.03762). Would you like me to add it to your collection?", d.Response)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", d.ExtractedURL)
	assert.Equal(t, "1706.03762", d.ExtractedArxivID)
	assert.Equal(t, [][]string{{"https://arxiv.org/abs/1706.03762"}}, f.web.extracts)

	calls := f.model.callsMatching(promptSummarize)
	require.Len(t, calls, 1)
	assert.Equal(t, llm.Options{MaxTokens: 1000, Temperature: 0.3}, calls[0].Opts)
	assert.Contains(t, calls[0].Prompt, strings.Repeat("x", 10000))
	assert.NotContains(t, calls[0].Prompt, strings.Repeat("x", 10001))
}

func TestExtractOutcomes(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		pages []web.Page
		err   error
		want  string
	}{
		{"no url", "none", nil, nil, "I couldn't find a valid URL in your message. Please provide a URL to extract content from."},
		{"extract failed", "https://example.com/a", nil, errBoom, "Could not extract content from 'https://example.com/a'. The page may not be accessible."},
		{"blank content", "https://example.com/a", []web.Page{{URL: "https://example.com/a"}}, nil, "No content could be extracted from 'https://example.com/a'."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.model.on(promptURL, tt.url)
			f.web.pages = tt.pages
			f.web.extractErr = tt.err

			d, err := f.handlers().extract(context.Background(), State{Message: "read this"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Response)
		})
	}
}

func TestExtractNonArxivPage(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptURL, "https://blog.example.com/post").on(promptSummarize, "Blog summary.")
	f.web.pages = []web.Page{{RawContent: "hello"}}

	d, err := f.handlers().extract(context.Background(), State{Message: "read https://blog.example.com/post"})
	require.NoError(t, err)
	assert.Equal(t, "Blog summary.", d.Response)
	assert.Empty(t, d.ExtractedArxivID)
}

// --- crawl ---

func TestCrawl(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptCrawlURL, "https://arxiv.org/a/vaswani_a_1").on(promptInstructions, "Follow abstract links.")
	f.web.pages = []web.Page{
		{URL: "https://arxiv.org/abs/1706.03762", Title: strings.Repeat("T", 120)},
		{
			URL:        "https://arxiv.org/a/vaswani_a_1",
			RawContent: "see arxiv.org/abs/1706.03762 and https://arxiv.org/pdf/1810.04805v2 or arxiv.org/abs/1810.04805v2",
		},
	}

	d, err := f.handlers().crawl(context.Background(), State{Message: "crawl Vaswani's author page"})
	require.NoError(t, err)

	require.Len(t, f.web.crawls, 1)
	assert.Equal(t, web.CrawlRequest{
		URL:          "https://arxiv.org/a/vaswani_a_1",
		Instructions: "Follow abstract links.",
		MaxDepth:     2,
		MaxBreadth:   10,
		Limit:        20,
	}, f.web.crawls[0])

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, strings.Repeat("T", 100), d.Candidates[0].Title)
	assert.Equal(t, "1810.04805v2", d.Candidates[1].ArxivID)
	assert.Equal(t, "Paper 1810.04805v2", d.Candidates[1].Title)
	assert.Equal(t, "Found 2 papers by crawling 'https://arxiv.org/a/vaswani_a_1':", d.Response)
}

func TestCrawlDefaultInstructionsAndCap(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptCrawlURL, "https://arxiv.org/list/cs.AI/recent")
	var body strings.Builder
	for i := range 14 {
		fmt.Fprintf(&body, " arxiv.org/abs/2301.%05d", i)
	}
	f.web.pages = []web.Page{{URL: "https://arxiv.org/list/cs.AI/recent", RawContent: body.String()}}

	d, err := f.handlers().crawl(context.Background(), State{Message: "crawl recent cs.AI"})
	require.NoError(t, err)
	assert.Equal(t, defaultCrawlInstructions, f.web.crawls[0].Instructions)
	assert.Len(t, d.Candidates, 10)
}

func TestCrawlEmptyOutcomes(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptCrawlURL, "https://example.com")
	f.web.crawlErr = errBoom

	d, err := f.handlers().crawl(context.Background(), State{Message: "crawl example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Could not crawl 'https://example.com'. The site may not be accessible or no papers were found.", d.Response)

	f.web.crawlErr = nil
	f.web.pages = []web.Page{{URL: "https://example.com", RawContent: "nothing here"}}
	d, err = f.handlers().crawl(context.Background(), State{Message: "crawl example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Crawled 1 pages from 'https://example.com' but found no arXiv papers.", d.Response)
	assert.Empty(t, d.Candidates)
}

// --- map ---

func TestMapSite(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptCrawlURL, "https://arxiv.org/list/cs.LG/recent")
	f.web.mapped = []string{"https://arxiv.org/list/cs.LG/recent", "https://arxiv.org/help"}
	for i := range 25 {
		f.web.mapped = append(f.web.mapped, fmt.Sprintf("https://arxiv.org/abs/2301.%05d", i))
	}

	d, err := f.handlers().mapSite(context.Background(), State{Message: "map cs.LG"})
	require.NoError(t, err)

	assert.Equal(t, web.MapRequest{URL: "https://arxiv.org/list/cs.LG/recent", MaxDepth: 2, MaxBreadth: 50}, f.web.maps[0])
	assert.Len(t, d.Candidates, 15)
	assert.Equal(t, "2301.00000", d.Candidates[0].ArxivID)
	assert.Len(t, d.MappedURLs, 20)
	assert.Equal(t, "https://arxiv.org/list/cs.LG/recent", d.MappedURLs[0])
	assert.Equal(t, "Mapped site and found 15 papers available:", d.Response)
}

func TestMapSiteEmptyOutcomes(t *testing.T) {
	f := newFixture(t)
	f.model.on(promptCrawlURL, "https://example.com")
	f.web.mapErr = errBoom

	d, err := f.handlers().mapSite(context.Background(), State{Message: "map example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Could not map 'https://example.com'. The site may not be accessible.", d.Response)

	f.web.mapErr = nil
	f.web.mapped = []string{"https://example.com/about", "https://example.com/2301.00001"}
	d, err = f.handlers().mapSite(context.Background(), State{Message: "map example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Mapped 2 URLs from 'https://example.com' but found no arXiv paper links.", d.Response)
	assert.Len(t, d.MappedURLs, 2)
}
