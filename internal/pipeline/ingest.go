// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// ingest adds the paper named by the router's identifier, or offers
// candidates from a name search when the message carries none.
func (h *handlers) ingest(ctx context.Context, s State) (Delta, error) {
	id := s.ArxivID
	if id == "" {
		id, _ = arxivid.Extract(s.Message)
	}
	if id == "" {
		return h.searchByName(ctx, s)
	}

	paper, created, err := h.addPaper(ctx, id)
	var fetchErr *fetchError
	switch {
	case errors.As(err, &fetchErr):
		return Delta{Error: "Error fetching paper: " + fetchErr.Error(), PapersAdded: []types.Paper{}}, nil
	case err != nil:
		return Delta{}, err
	}

	d := Delta{PapersAdded: []types.Paper{paper}}
	if created {
		d.Response = fmt.Sprintf("Added paper: '%s' by %s", paper.Title, authorList(paper.Authors))
	} else {
		d.Response = fmt.Sprintf("Paper '%s' is already in your collection.", paper.Title)
	}
	return d, nil
}

// searchByName asks the model for a paper name and offers index matches.
func (h *handlers) searchByName(ctx context.Context, s State) (Delta, error) {
	query, err := h.ask(ctx, paperNamePromptTmpl, messageData{Message: s.Message}, queryOpts)
	if err != nil {
		return Delta{}, err
	}

	results, err := h.Index.SearchByName(ctx, query, maxNameCandidates)
	if err != nil {
		return Delta{
			Error:       "Error searching for paper: " + err.Error(),
			PapersAdded: []types.Paper{},
			Candidates:  []types.PaperCandidate{},
		}, nil
	}
	if len(results) == 0 {
		return Delta{
			Error:       fmt.Sprintf("Could not find any papers matching '%s' on arXiv.", query),
			PapersAdded: []types.Paper{},
			Candidates:  []types.PaperCandidate{},
		}, nil
	}

	cs := newCandidateSet()
	for _, r := range results {
		cs.add(r.Candidate())
	}
	candidates := cs.list(maxNameCandidates)
	return Delta{
		PapersAdded: []types.Paper{},
		Candidates:  candidates,
		Response:    fmt.Sprintf("Found %d papers matching '%s'. Select one to add:", len(candidates), query),
	}, nil
}

// fetchError marks a failure to obtain a paper from the index.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

// addPaper returns the stored paper for id, fetching and persisting it
// first when it is not stored yet. created reports whether it was new.
// Papers are keyed by the identifier without its version suffix, so every
// version of a paper maps to one node; the index is still asked for the
// requested version. Failures to fetch or enrich the paper are returned as
// *fetchError.
func (h *handlers) addPaper(ctx context.Context, id string) (types.Paper, bool, error) {
	key := arxivid.StripVersion(id)
	existing, err := h.Store.GetPaper(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.Paper{}, false, err
	}

	paper, err := h.fetchPaper(ctx, id)
	if err != nil {
		return types.Paper{}, false, &fetchError{err: err}
	}

	stored, created, err := h.Store.AddPaper(ctx, paper)
	if err != nil {
		return types.Paper{}, false, fmt.Errorf("storing paper %s: %w", key, err)
	}
	h.Log.Info().Str("paper", stored.ID).Int("concepts", len(stored.KeyConcepts)).
		Int("citations", len(stored.Citations)).Msg("added paper")
	return stored, created, nil
}

// fetchPaper builds a Paper from the index record, key concepts and, on a
// best-effort basis, the citations found in the PDF.
func (h *handlers) fetchPaper(ctx context.Context, id string) (types.Paper, error) {
	rec, err := h.Index.FetchByID(ctx, id)
	if err != nil {
		return types.Paper{}, err
	}

	concepts, err := h.keyConcepts(ctx, rec.Title, rec.Abstract)
	if err != nil {
		return types.Paper{}, fmt.Errorf("extracting key concepts: %w", err)
	}

	return types.Paper{
		ID:          arxivid.StripVersion(id),
		Title:       rec.Title,
		Authors:     rec.Authors,
		Summary:     rec.Abstract,
		Published:   rec.Date,
		PDFURL:      rec.PDFURL,
		KeyConcepts: concepts,
		Citations:   h.citations(ctx, id, rec.PDFURL),
	}, nil
}

func (h *handlers) keyConcepts(ctx context.Context, title, abstract string) ([]string, error) {
	reply, err := h.ask(ctx, conceptPromptTmpl, struct{ Title, Abstract string }{title, abstract}, conceptOpts)
	if err != nil {
		return nil, err
	}
	return ParseConcepts(reply), nil
}

// citations extracts arXiv-backed references from the paper PDF. Any
// failure yields no citations.
func (h *handlers) citations(ctx context.Context, id, pdfURL string) []types.Citation {
	if h.Docs == nil || pdfURL == "" {
		return []types.Citation{}
	}
	log := h.Log.With().Str("paper", id).Logger()

	pdf, err := h.Docs.FetchPDF(ctx, pdfURL)
	if err != nil {
		log.Warn().Err(err).Msg("downloading PDF for citations")
		return []types.Citation{}
	}
	reply, err := h.Model.CompleteWithDocument(ctx, referencePrompt, pdf, referenceOpts)
	if err != nil {
		log.Warn().Err(err).Msg("extracting citations")
		return []types.Citation{}
	}
	cites, err := ParseCitations(reply)
	if err != nil {
		log.Warn().Err(err).Msg("parsing citations")
		return []types.Citation{}
	}
	return cites
}

// ParseConcepts splits a comma-separated model reply into at most five
// trimmed, non-empty concepts.
func ParseConcepts(reply string) []string {
	concepts := []string{}
	for _, c := range strings.Split(reply, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		concepts = append(concepts, c)
		if len(concepts) == maxConcepts {
			break
		}
	}
	return concepts
}

// ParseCitations decodes the JSON array returned for the reference
// prompt. Markdown code fences and text around the array are tolerated.
// Entries without a title are dropped, identifiers are normalized, and at
// most ten citations are kept.
func ParseCitations(reply string) ([]types.Citation, error) {
	body := strings.TrimSpace(reply)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	if start, end := strings.Index(body, "["), strings.LastIndex(body, "]"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var raw []struct {
		Title   string `json:"title"`
		ArxivID string `json:"arxiv_id"`
		Author  string `json:"author"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decoding citation list: %w", err)
	}

	cites := []types.Citation{}
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		c := types.Citation{Title: title, Author: strings.TrimSpace(r.Author)}
		if id, ok := arxivid.Extract(r.ArxivID); ok {
			c.ArxivID = id
		}
		cites = append(cites, c)
		if len(cites) == maxCitations {
			break
		}
	}
	return cites, nil
}

// authorList formats the first three authors, adding "..." when more exist.
func authorList(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + "..."
}
