// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EdgeType categorizes how two papers are related.
type EdgeType string

const (
	EdgeCitation       EdgeType = "citation"
	EdgeSharedConcepts EdgeType = "shared_concepts"
	EdgeManual         EdgeType = "manual"
)

// Valid reports whether t is a known edge type.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeCitation, EdgeSharedConcepts, EdgeManual:
		return true
	}
	return false
}

// Edge is a typed relationship between two papers. At most one edge exists
// for any unordered pair of papers.
type Edge struct {
	ID       string   `json:"id" yaml:"id"`
	SourceID string   `json:"source_id" yaml:"source_id"`
	TargetID string   `json:"target_id" yaml:"target_id"`
	Type     EdgeType `json:"edge_type" yaml:"edge_type"`

	// Evidence is free text explaining the relationship (shared concepts,
	// citation title).
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Connects reports whether the edge joins a and b in either direction.
func (e Edge) Connects(a, b string) bool {
	return (e.SourceID == a && e.TargetID == b) || (e.SourceID == b && e.TargetID == a)
}

// Touches reports whether the edge has paperID as one of its endpoints.
func (e Edge) Touches(paperID string) bool {
	return e.SourceID == paperID || e.TargetID == paperID
}

// GraphData is the full stored graph: every paper and every edge.
type GraphData struct {
	Nodes []Paper `json:"nodes" yaml:"nodes"`
	Edges []Edge  `json:"edges" yaml:"edges"`
}
