// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"slices"

	"github.com/pdiddy/paper-graph/internal/render"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// State is the snapshot a step reads. A new State is built for every
// message and replaced, never modified, as steps complete.
type State struct {
	// Message is the user's chat message.
	Message string

	// Intent is set by the router.
	Intent Intent

	// ArxivID is the identifier the router found in the message, if any.
	ArxivID string

	// Response is the handler's reply text.
	Response string

	// ConnectionMessage summarizes connection discovery.
	ConnectionMessage string

	// Error is a user-visible note about an expected failure.
	Error string

	// PapersAdded holds papers ingested (or found already stored) by this run.
	PapersAdded []types.Paper

	// Candidates are papers offered to the user for selection.
	Candidates []types.PaperCandidate

	// ConnectionEdges are edges created by connection discovery.
	ConnectionEdges []types.Edge

	// ExtractedURL and ExtractedArxivID record what the extract handler read.
	ExtractedURL     string
	ExtractedArxivID string

	// MappedURLs holds the first URLs returned by a site map.
	MappedURLs []string

	// Graph and FinalResponse are produced by synthesis.
	Graph         render.CytoscapeGraph
	FinalResponse string
}

// Delta is the change a step makes. Empty strings and nil slices leave the
// corresponding State field unchanged; a non-nil slice, even an empty one,
// replaces it.
type Delta struct {
	Intent            Intent
	ArxivID           string
	Response          string
	ConnectionMessage string
	Error             string
	PapersAdded       []types.Paper
	Candidates        []types.PaperCandidate
	ConnectionEdges   []types.Edge
	ExtractedURL      string
	ExtractedArxivID  string
	MappedURLs        []string
	Graph             *render.CytoscapeGraph
	FinalResponse     string
}

// Apply returns a new State with d merged into s. s is not modified and the
// result shares no slices with s or d.
func Apply(s State, d Delta) State {
	next := s
	next.PapersAdded = slices.Clone(s.PapersAdded)
	next.Candidates = slices.Clone(s.Candidates)
	next.ConnectionEdges = slices.Clone(s.ConnectionEdges)
	next.MappedURLs = slices.Clone(s.MappedURLs)

	setString(&next.Response, d.Response)
	setString(&next.ArxivID, d.ArxivID)
	setString(&next.ConnectionMessage, d.ConnectionMessage)
	setString(&next.Error, d.Error)
	setString(&next.ExtractedURL, d.ExtractedURL)
	setString(&next.ExtractedArxivID, d.ExtractedArxivID)
	setString(&next.FinalResponse, d.FinalResponse)
	if d.Intent != "" {
		next.Intent = d.Intent
	}

	if d.PapersAdded != nil {
		next.PapersAdded = slices.Clone(d.PapersAdded)
	}
	if d.Candidates != nil {
		next.Candidates = slices.Clone(d.Candidates)
	}
	if d.ConnectionEdges != nil {
		next.ConnectionEdges = slices.Clone(d.ConnectionEdges)
	}
	if d.MappedURLs != nil {
		next.MappedURLs = slices.Clone(d.MappedURLs)
	}
	if d.Graph != nil {
		next.Graph = *d.Graph
	}
	return next
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// PaperIDs returns the ids of the papers added by the run.
func (s State) PaperIDs() []string {
	ids := make([]string, 0, len(s.PapersAdded))
	for _, p := range s.PapersAdded {
		ids = append(ids, p.ID)
	}
	return ids
}

// GraphUpdated reports whether the run added papers or created edges.
func (s State) GraphUpdated() bool {
	return len(s.PapersAdded) > 0 || len(s.ConnectionEdges) > 0
}
