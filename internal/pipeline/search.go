// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/search"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

var arxivDomain = []string{"arxiv.org"}

// searchTopic discovers papers on a topic through web search and enriches
// each hit from the index.
func (h *handlers) searchTopic(ctx context.Context, s State) (Delta, error) {
	query, err := h.ask(ctx, paperNamePromptTmpl, messageData{Message: s.Message}, queryOpts)
	if err != nil {
		return Delta{}, err
	}

	hits, err := h.Web.Search(ctx, web.SearchRequest{
		Query:          query + " research paper",
		SearchDepth:    "advanced",
		MaxResults:     maxSearchCandidates,
		IncludeDomains: arxivDomain,
	})
	res := Collect(h.Log, "web search", hits, err)
	if res.Empty() {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("No papers found for '%s'. Try different keywords.", query),
		}, nil
	}

	cs := newCandidateSet()
	for _, hit := range res.Items {
		id, ok := arxivid.Extract(hit.URL)
		if !ok || cs.has(id) {
			continue
		}
		c, ok := h.enrich(ctx, id, hit.Title)
		if !ok {
			continue
		}
		cs.add(c)
		if cs.len() >= maxSearchCandidates {
			break
		}
	}

	if cs.len() == 0 {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("No arXiv papers found for '%s'. Try different keywords.", query),
		}, nil
	}
	candidates := cs.list(maxSearchCandidates)
	return Delta{
		Candidates: candidates,
		Response:   fmt.Sprintf("Found %d papers matching '%s':", len(candidates), query),
	}, nil
}

// enrich looks id up in the index. Hits the index does not know are
// dropped. When the lookup fails for any other reason the candidate
// carries the web page title and nothing else.
func (h *handlers) enrich(ctx context.Context, id, webTitle string) (types.PaperCandidate, bool) {
	rec, err := h.Index.FetchByID(ctx, id)
	if errors.Is(err, search.ErrPaperNotFound) {
		h.Log.Debug().Str("arxiv_id", id).Msg("web hit unknown to index, skipping")
		return types.PaperCandidate{}, false
	}
	if err != nil {
		h.Log.Warn().Err(err).Str("arxiv_id", id).Msg("index lookup failed, using web title")
		if webTitle == "" {
			webTitle = "Unknown Title"
		}
		return placeholder(id, webTitle), true
	}
	c := rec.Candidate()
	c.ArxivID = id
	return c, true
}
