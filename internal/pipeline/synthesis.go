// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"strings"

	"github.com/pdiddy/paper-graph/internal/render"
)

// fallbackReply is used when no step produced any text.
const fallbackReply = "I'm here to help with your research papers."

// synthesize renders the stored graph and composes the final reply.
func (h *handlers) synthesize(ctx context.Context, s State) (Delta, error) {
	g, err := h.Store.GraphData(ctx)
	if err != nil {
		return Delta{}, err
	}
	graph := render.Cytoscape(g)
	return Delta{Graph: &graph, FinalResponse: ComposeReply(s)}, nil
}

// ComposeReply joins the handler response, the connection summary and any
// error note with single spaces.
func ComposeReply(s State) string {
	var parts []string
	if s.Response != "" {
		parts = append(parts, s.Response)
	}
	if s.ConnectionMessage != "" {
		parts = append(parts, s.ConnectionMessage)
	}
	if s.Error != "" {
		parts = append(parts, "Note: "+s.Error)
	}
	if len(parts) == 0 {
		return fallbackReply
	}
	return strings.Join(parts, " ")
}
