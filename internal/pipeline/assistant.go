// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// Workflow node names.
const (
	nodeRouter      = "router"
	nodeIngest      = "ingest"
	nodeSearch      = "search"
	nodeRelated     = "related"
	nodeConnections = "connections"
	nodeAnswer      = "answer"
	nodeExtract     = "extract"
	nodeCrawl       = "crawl"
	nodeMap         = "map"
	nodeSynthesis   = "synthesis"
)

// ErrInvalidID is returned when input carries no arXiv identifier.
var ErrInvalidID = errors.New("invalid arXiv ID")

// Assistant answers chat messages and manages the paper collection.
type Assistant struct {
	h     *handlers
	graph *Graph
}

// NewAssistant wires the workflow over deps.
func NewAssistant(deps Deps) (*Assistant, error) {
	if deps.Model == nil || deps.Web == nil || deps.Index == nil || deps.Store == nil {
		return nil, fmt.Errorf("assistant requires a model, web service, paper index and store")
	}
	deps.Log = deps.Log.With().Str("component", "pipeline").Logger()
	h := &handlers{Deps: deps}

	g := NewGraph(nodeRouter, nodeSynthesis, deps.Log)
	g.AddNode(nodeRouter, h.route)
	g.AddNode(nodeIngest, h.ingest)
	g.AddNode(nodeSearch, h.searchTopic)
	g.AddNode(nodeRelated, h.findRelated)
	g.AddNode(nodeConnections, h.connect)
	g.AddNode(nodeAnswer, h.answer)
	g.AddNode(nodeExtract, h.extract)
	g.AddNode(nodeCrawl, h.crawl)
	g.AddNode(nodeMap, h.mapSite)
	g.AddNode(nodeSynthesis, h.synthesize)

	g.AddBranch(nodeRouter, routeIntent)
	g.AddBranch(nodeIngest, routeAfterIngest)
	for _, n := range []string{nodeSearch, nodeRelated, nodeConnections, nodeAnswer, nodeExtract, nodeCrawl, nodeMap} {
		g.AddEdge(n, nodeSynthesis)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("building workflow: %w", err)
	}

	return &Assistant{h: h, graph: g}, nil
}

// Run processes message through the workflow and returns the final state.
func (a *Assistant) Run(ctx context.Context, message string) (State, error) {
	return a.graph.Run(ctx, State{Message: message})
}

// Chat records message, runs the workflow and records the reply. Workflow
// errors are reported in the reply rather than returned.
func (a *Assistant) Chat(ctx context.Context, message string) types.ChatResponse {
	a.remember(ctx, types.RoleUser, message)

	resp := types.ChatResponse{PapersAdded: []string{}, PaperCandidates: []types.PaperCandidate{}}
	state, err := a.Run(ctx, message)
	if err != nil {
		resp.Message = "Error processing request: " + err.Error()
	} else {
		resp.Message = state.FinalResponse
		resp.GraphUpdated = state.GraphUpdated()
		resp.PapersAdded = state.PaperIDs()
		if state.Candidates != nil {
			resp.PaperCandidates = state.Candidates
		}
	}

	a.remember(ctx, types.RoleAssistant, resp.Message)
	return resp
}

// AddPaper stores the paper identified by input, an arXiv identifier or
// URL. Adding a stored paper returns it unchanged with created=false.
func (a *Assistant) AddPaper(ctx context.Context, input string) (paper types.Paper, created bool, err error) {
	id, ok := arxivid.Extract(input)
	if !ok {
		return types.Paper{}, false, fmt.Errorf("%w: %s", ErrInvalidID, input)
	}
	return a.h.addPaper(ctx, id)
}

// SelectPaper adds a candidate the user picked. When sourcePaperID is set
// and the pair is not linked yet, a citation edge from the source to the
// new paper is created.
func (a *Assistant) SelectPaper(ctx context.Context, arxivID, sourcePaperID string) types.ChatResponse {
	resp := types.ChatResponse{PapersAdded: []string{}, PaperCandidates: []types.PaperCandidate{}}

	paper, _, err := a.AddPaper(ctx, arxivID)
	var fetchErr *fetchError
	switch {
	case errors.Is(err, ErrInvalidID):
		resp.Message = "Invalid arXiv ID: " + arxivID
	case errors.As(err, &fetchErr):
		resp.Message = "Could not fetch paper: " + fetchErr.Error()
	case err != nil:
		resp.Message = "Error processing request: " + err.Error()
	default:
		resp.PapersAdded = []string{paper.ID}
		resp.GraphUpdated = true
		resp.Message = "Added: " + paper.Title
		if sourcePaperID != "" && a.link(ctx, arxivid.StripVersion(sourcePaperID), paper.ID) {
			resp.Message += " (linked)"
		}
	}

	a.remember(ctx, types.RoleAssistant, resp.Message)
	return resp
}

// link creates a citation edge from source to target unless any edge
// already joins them. It reports whether an edge was created.
func (a *Assistant) link(ctx context.Context, source, target string) bool {
	if source == target {
		return false
	}
	if _, err := a.h.Store.FindEdge(ctx, source, target); err == nil {
		return false
	} else if !errors.Is(err, store.ErrNotFound) {
		a.h.Log.Warn().Err(err).Msg("checking existing link")
		return false
	}

	_, created, err := a.h.Store.AddEdge(ctx, types.Edge{
		SourceID: source,
		TargetID: target,
		Type:     types.EdgeCitation,
	})
	if err != nil {
		a.h.Log.Warn().Err(err).Str("source", source).Str("target", target).Msg("linking selected paper")
		return false
	}
	return created
}

func (a *Assistant) remember(ctx context.Context, role types.Role, content string) {
	if _, err := a.h.Store.AddChatMessage(ctx, role, content); err != nil {
		a.h.Log.Warn().Err(err).Str("role", string(role)).Msg("recording chat history")
	}
}
