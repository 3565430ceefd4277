// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render projects the stored paper graph into display formats.
package render

import "github.com/pdiddy/paper-graph/pkg/types"

const (
	labelLimit    = 50
	abstractLimit = 200
)

// CytoscapeGraph is the element list consumed by Cytoscape.js.
type CytoscapeGraph struct {
	Elements []Element `json:"elements"`
}

// Element wraps node or edge data the way Cytoscape.js expects it.
type Element struct {
	Data any `json:"data"`
}

// NodeData describes one paper node.
type NodeData struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Year        int      `json:"year"`
	Abstract    string   `json:"abstract"`
	KeyConcepts []string `json:"key_concepts"`
	ArxivURL    string   `json:"arxiv_url"`
	PDFURL      string   `json:"pdf_url"`
}

// EdgeData describes one relationship edge.
type EdgeData struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	EdgeType types.EdgeType `json:"edge_type"`
}

// Cytoscape converts g into Cytoscape elements: all nodes first, then all
// edges. An empty graph yields an empty, non-nil element list.
func Cytoscape(g types.GraphData) CytoscapeGraph {
	elements := make([]Element, 0, len(g.Nodes)+len(g.Edges))

	for _, p := range g.Nodes {
		elements = append(elements, Element{Data: NodeData{
			ID:          p.ID,
			Label:       Truncate(p.Title, labelLimit),
			Title:       p.Title,
			Authors:     orEmpty(p.Authors),
			Year:        p.Year(),
			Abstract:    Truncate(p.Summary, abstractLimit),
			KeyConcepts: orEmpty(p.KeyConcepts),
			ArxivURL:    p.ArxivURL(),
			PDFURL:      p.PDFURL,
		}})
	}

	for _, e := range g.Edges {
		elements = append(elements, Element{Data: EdgeData{
			ID:       e.ID,
			Source:   e.SourceID,
			Target:   e.TargetID,
			EdgeType: e.Type,
		}})
	}

	return CytoscapeGraph{Elements: elements}
}

// Truncate shortens s to limit characters and appends "..." when anything
// was cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
