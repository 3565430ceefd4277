// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

const defaultCrawlInstructions = "Find research papers and their arXiv links. Focus on paper abstract pages."

// crawl walks a site named in the message and offers the arXiv papers
// found in page URLs and page bodies.
func (h *handlers) crawl(ctx context.Context, s State) (Delta, error) {
	msg := messageData{Message: s.Message}
	url, err := h.ask(ctx, crawlURLPromptTmpl, msg, urlOpts)
	if err != nil {
		return Delta{}, err
	}
	instructions, err := h.ask(ctx, crawlInstructionsPromptTmpl, msg, instructionsOpts)
	if err != nil {
		return Delta{}, err
	}
	if instructions == "" {
		instructions = defaultCrawlInstructions
	}

	pages, err := h.Web.Crawl(ctx, web.CrawlRequest{
		URL:          url,
		Instructions: instructions,
		MaxDepth:     2,
		MaxBreadth:   10,
		Limit:        20,
	})
	res := Collect(h.Log, "web crawl", pages, err)
	if res.Empty() {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("Could not crawl '%s'. The site may not be accessible or no papers were found.", url),
		}, nil
	}

	cs := newCandidateSet()
	for _, page := range res.Items {
		if id, ok := arxivid.Extract(page.URL); ok {
			title := prefix(page.Title, 100)
			if title == "" {
				title = "Unknown Title"
			}
			cs.add(placeholder(id, title))
		}
		for _, id := range arxivid.FindLinked(page.RawContent) {
			cs.add(placeholder(id, ""))
		}
		if cs.len() >= maxCrawlCandidates {
			break
		}
	}

	if cs.len() == 0 {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("Crawled %d pages from '%s' but found no arXiv papers.", len(res.Items), url),
		}, nil
	}
	candidates := cs.list(maxCrawlCandidates)
	return Delta{
		Candidates: candidates,
		Response:   fmt.Sprintf("Found %d papers by crawling '%s':", len(candidates), url),
	}, nil
}

// mapSite lists a site's URLs and offers the arXiv papers among them.
func (h *handlers) mapSite(ctx context.Context, s State) (Delta, error) {
	url, err := h.ask(ctx, crawlURLPromptTmpl, messageData{Message: s.Message}, urlOpts)
	if err != nil {
		return Delta{}, err
	}

	urls, err := h.Web.Map(ctx, web.MapRequest{URL: url, MaxDepth: 2, MaxBreadth: 50})
	res := Collect(h.Log, "web map", urls, err)
	if res.Empty() {
		return Delta{
			Candidates: []types.PaperCandidate{},
			Response:   fmt.Sprintf("Could not map '%s'. The site may not be accessible.", url),
		}, nil
	}

	cs := newCandidateSet()
	for _, u := range res.Items {
		if !arxivid.IsPaperURL(u) {
			continue
		}
		if id, ok := arxivid.Extract(u); ok {
			cs.add(placeholder(id, ""))
		}
		if cs.len() >= maxMapCandidates {
			break
		}
	}

	mapped := res.Items
	if len(mapped) > maxMappedURLs {
		mapped = mapped[:maxMappedURLs]
	}

	if cs.len() == 0 {
		return Delta{
			Candidates: []types.PaperCandidate{},
			MappedURLs: mapped,
			Response:   fmt.Sprintf("Mapped %d URLs from '%s' but found no arXiv paper links.", len(res.Items), url),
		}, nil
	}
	return Delta{
		Candidates: cs.list(maxMapCandidates),
		MappedURLs: mapped,
		Response:   fmt.Sprintf("Mapped site and found %d papers available:", cs.len()),
	}, nil
}
