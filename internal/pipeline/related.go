// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// findRelated offers papers that cite or relate to a named paper. When the
// name matches a stored paper, candidates remember it as their source.
func (h *handlers) findRelated(ctx context.Context, s State) (Delta, error) {
	query, err := h.ask(ctx, paperTitlePromptTmpl, messageData{Message: s.Message}, queryOpts)
	if err != nil {
		return Delta{}, err
	}

	papers, err := h.Store.ListPapers(ctx)
	if err != nil {
		return Delta{}, err
	}

	var sourceID string
	if q := strings.ToLower(query); q != "" {
		for _, p := range papers {
			if strings.Contains(strings.ToLower(p.Title), q) {
				sourceID = p.ID
				query = p.Title
				break
			}
		}
	}

	hits, err := h.Web.Search(ctx, web.SearchRequest{
		Query:          fmt.Sprintf(`papers citing "%s" OR related to "%s"`, query, query),
		SearchDepth:    "advanced",
		MaxResults:     10,
		IncludeDomains: arxivDomain,
	})
	res := Collect(h.Log, "web search", hits, err)
	if res.Empty() {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("No related papers found for '%s'.", query),
		}, nil
	}

	stored := make(map[string]bool, len(papers))
	for _, p := range papers {
		stored[arxivid.StripVersion(p.ID)] = true
	}

	cs := newCandidateSet()
	for _, hit := range res.Items {
		id, ok := arxivid.Extract(hit.URL)
		if !ok || stored[arxivid.StripVersion(id)] {
			continue
		}
		c := placeholder(id, hit.Title)
		c.SourcePaperID = sourceID
		cs.add(c)
		if cs.len() >= maxRelatedCandidates {
			break
		}
	}

	if cs.len() == 0 {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("Found results for '%s', but all are already in your collection.", query),
		}, nil
	}
	candidates := cs.list(maxRelatedCandidates)
	return Delta{
		Candidates: candidates,
		Response:   fmt.Sprintf("Found %d papers related to '%s':", len(candidates), query),
	}, nil
}
