// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/render"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// answer replies to a free-form question grounded on the collection and a
// web search.
func (h *handlers) answer(ctx context.Context, s State) (Delta, error) {
	papers, err := h.Store.ListPapers(ctx)
	if err != nil {
		return Delta{}, err
	}
	edges, err := h.Store.ListEdges(ctx)
	if err != nil {
		return Delta{}, err
	}

	hits, err := h.Web.Search(ctx, web.SearchRequest{
		Query:       answerQuery(s.Message, papers),
		SearchDepth: "advanced",
		MaxResults:  5,
	})
	res := Collect(h.Log, "web search", hits, err)

	reply, err := h.ask(ctx, answerPromptTmpl, struct {
		Papers, Edges, Question, SearchResults string
	}{
		Papers:        papersContext(papers),
		Edges:         edgesContext(edges, papers),
		Question:      s.Message,
		SearchResults: searchContext(res),
	}, answerOpts)
	if err != nil {
		return Delta{}, err
	}
	return Delta{Response: reply}, nil
}

// answerQuery seeds the web search with the question and up to five
// concepts: the first two of each of the first three papers.
func answerQuery(question string, papers []types.Paper) string {
	var concepts []string
	for i, p := range papers {
		if i == 3 {
			break
		}
		n := min(2, len(p.KeyConcepts))
		concepts = append(concepts, p.KeyConcepts[:n]...)
	}
	if len(concepts) > 5 {
		concepts = concepts[:5]
	}
	return strings.TrimSpace(question + " " + strings.Join(concepts, " "))
}

func papersContext(papers []types.Paper) string {
	if len(papers) == 0 {
		return "No papers in collection yet."
	}
	parts := make([]string, 0, len(papers))
	for _, p := range papers {
		authors := p.Authors
		if len(authors) > 3 {
			authors = authors[:3]
		}
		parts = append(parts, fmt.Sprintf("- %s (%d)\n  arXiv ID: %s\n  Authors: %s\n  Key concepts: %s\n  Abstract: %s",
			p.Title, p.Year(), p.ID,
			strings.Join(authors, ", "),
			strings.Join(p.KeyConcepts, ", "),
			render.Truncate(p.Summary, 300)))
	}
	return strings.Join(parts, "\n\n")
}

func edgesContext(edges []types.Edge, papers []types.Paper) string {
	if len(edges) == 0 {
		return "No connections found yet."
	}
	titles := make(map[string]string, len(papers))
	for _, p := range papers {
		titles[p.ID] = p.Title
	}
	title := func(id string) string {
		if t, ok := titles[id]; ok {
			return prefix(t, 50)
		}
		return id
	}

	lines := make([]string, 0, len(edges))
	for _, e := range edges {
		lines = append(lines, fmt.Sprintf("- %s -> %s (%s)", title(e.SourceID), title(e.TargetID), e.Type))
	}
	return strings.Join(lines, "\n")
}

func searchContext(res Result[web.SearchResult]) string {
	if res.Empty() {
		return "No relevant search results found."
	}
	items := res.Items
	if len(items) > 5 {
		items = items[:5]
	}
	lines := make([]string, 0, len(items))
	for _, r := range items {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", title, render.Truncate(r.Content, 300)))
	}
	return strings.Join(lines, "\n")
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
