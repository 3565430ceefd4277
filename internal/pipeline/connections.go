// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// connect links papers that cite each other or share key concepts. New
// papers are compared against every other stored paper; an explicit
// find_connections request with nothing new compares every pair.
func (h *handlers) connect(ctx context.Context, s State) (Delta, error) {
	papers, err := h.Store.ListPapers(ctx)
	if err != nil {
		return Delta{}, err
	}
	if len(papers) < 2 {
		return Delta{
			ConnectionEdges:   []types.Edge{},
			ConnectionMessage: "Need at least 2 papers to find connections.",
		}, nil
	}

	existing, err := h.Store.ListEdges(ctx)
	if err != nil {
		return Delta{}, err
	}
	linked := make(map[[2]string]bool, len(existing))
	for _, e := range existing {
		linked[pairOf(e.SourceID, e.TargetID)] = true
	}

	var citations, shared int
	created := []types.Edge{}
	for _, pair := range connectionPairs(s, papers) {
		a, b := pair[0], pair[1]
		key := pairOf(a.ID, b.ID)
		if linked[key] {
			continue
		}

		edge, ok := proposeEdge(a, b)
		if !ok {
			continue
		}
		stored, isNew, err := h.Store.AddEdge(ctx, edge)
		if err != nil {
			return Delta{}, fmt.Errorf("linking %s and %s: %w", a.ID, b.ID, err)
		}
		linked[key] = true
		if !isNew {
			continue
		}

		created = append(created, stored)
		if stored.Type == types.EdgeCitation {
			citations++
		} else {
			shared++
		}
	}

	return Delta{
		ConnectionEdges:   created,
		ConnectionMessage: connectionMessage(citations, shared),
	}, nil
}

// connectionPairs lists the paper pairs to compare.
func connectionPairs(s State, papers []types.Paper) [][2]types.Paper {
	var pairs [][2]types.Paper
	switch {
	case len(s.PapersAdded) > 0:
		for _, p := range s.PapersAdded {
			for _, other := range papers {
				if other.ID != p.ID {
					pairs = append(pairs, [2]types.Paper{p, other})
				}
			}
		}
	case s.Intent == IntentFindConnections:
		for i := range papers {
			for j := i + 1; j < len(papers); j++ {
				pairs = append(pairs, [2]types.Paper{papers[i], papers[j]})
			}
		}
	}
	return pairs
}

// proposeEdge returns the edge a and b deserve, if any. A citation in
// either direction wins over shared concepts.
func proposeEdge(a, b types.Paper) (types.Edge, bool) {
	if c, ok := citationOf(a, b.ID); ok {
		return types.Edge{SourceID: a.ID, TargetID: b.ID, Type: types.EdgeCitation, Evidence: c.Title}, true
	}
	if c, ok := citationOf(b, a.ID); ok {
		return types.Edge{SourceID: b.ID, TargetID: a.ID, Type: types.EdgeCitation, Evidence: c.Title}, true
	}
	if shared := SharedConcepts(a, b); len(shared) > 0 {
		return types.Edge{
			SourceID: a.ID,
			TargetID: b.ID,
			Type:     types.EdgeSharedConcepts,
			Evidence: strings.Join(shared, ", "),
		}, true
	}
	return types.Edge{}, false
}

// citationOf returns the citation of p that refers to paperID. Version
// suffixes are ignored on both sides.
func citationOf(p types.Paper, paperID string) (types.Citation, bool) {
	want := arxivid.StripVersion(paperID)
	for _, c := range p.Citations {
		if c.ArxivID != "" && arxivid.StripVersion(c.ArxivID) == want {
			return c, true
		}
	}
	return types.Citation{}, false
}

// SharedConcepts returns the key concepts of a that b also lists,
// compared case-insensitively, lower-cased and in a's order.
func SharedConcepts(a, b types.Paper) []string {
	inB := make(map[string]bool, len(b.KeyConcepts))
	for _, c := range b.KeyConcepts {
		inB[strings.ToLower(c)] = true
	}

	var shared []string
	seen := make(map[string]bool)
	for _, c := range a.KeyConcepts {
		lc := strings.ToLower(c)
		if inB[lc] && !seen[lc] {
			seen[lc] = true
			shared = append(shared, lc)
		}
	}
	return shared
}

func connectionMessage(citations, shared int) string {
	switch {
	case citations == 0 && shared == 0:
		return "No shared concepts found between papers."
	case citations == 0:
		return fmt.Sprintf("Found %d connections based on shared concepts.", shared)
	default:
		return fmt.Sprintf("Found %d connections (%d by citation, %d based on shared concepts).",
			citations+shared, citations, shared)
	}
}

func pairOf(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
