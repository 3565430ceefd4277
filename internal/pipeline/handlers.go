// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-graph/internal/llm"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// Completion settings per prompt.
var (
	routerOpts       = llm.Options{MaxTokens: 20, Temperature: 0}
	conceptOpts      = llm.Options{MaxTokens: 100, Temperature: 0}
	queryOpts        = llm.Options{MaxTokens: 100, Temperature: 0}
	referenceOpts    = llm.Options{MaxTokens: 4000, Temperature: 0}
	answerOpts       = llm.Options{MaxTokens: 500, Temperature: 0.7}
	urlOpts          = llm.Options{MaxTokens: 200, Temperature: 0}
	instructionsOpts = llm.Options{MaxTokens: 100, Temperature: 0}
	summaryOpts      = llm.Options{MaxTokens: 1000, Temperature: 0.3}
)

// Result caps.
const (
	maxConcepts          = 5
	maxCitations         = 10
	maxNameCandidates    = 5
	maxSearchCandidates  = 5
	maxRelatedCandidates = 5
	maxCrawlCandidates   = 10
	maxMapCandidates     = 15
	maxMappedURLs        = 20
	maxSummaryInput      = 10000
)

// handlers implements every workflow step over a shared set of
// collaborators.
type handlers struct {
	Deps
}

// ask renders tmpl with data, sends it to the model and returns the
// trimmed reply.
func (h *handlers) ask(ctx context.Context, tmpl *template.Template, data any, opts llm.Options) (string, error) {
	prompt, err := renderPrompt(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	reply, err := h.Model.Complete(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// candidateSet accumulates candidates in discovery order without
// duplicate identifiers.
type candidateSet struct {
	items []types.PaperCandidate
	seen  map[string]bool
}

func newCandidateSet() *candidateSet {
	return &candidateSet{items: []types.PaperCandidate{}, seen: make(map[string]bool)}
}

// add appends c unless its identifier was seen before. It reports whether
// c was added.
func (cs *candidateSet) add(c types.PaperCandidate) bool {
	if cs.seen[c.ArxivID] {
		return false
	}
	cs.seen[c.ArxivID] = true
	cs.items = append(cs.items, c)
	return true
}

// has reports whether id was already offered.
func (cs *candidateSet) has(id string) bool {
	return cs.seen[id]
}

func (cs *candidateSet) len() int {
	return len(cs.items)
}

// list returns at most limit candidates.
func (cs *candidateSet) list(limit int) []types.PaperCandidate {
	if len(cs.items) > limit {
		return cs.items[:limit]
	}
	return cs.items
}

// placeholder is a candidate known only by identifier.
func placeholder(id, title string) types.PaperCandidate {
	if title == "" {
		title = "Paper " + id
	}
	return types.PaperCandidate{ArxivID: id, Title: title, Authors: []string{}}
}
