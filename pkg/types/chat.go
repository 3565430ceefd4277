// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the append-only chat log.
type ChatMessage struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ChatRequest is the body of a chat submission.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to a chat message or a paper selection.
type ChatResponse struct {
	Message         string           `json:"message"`
	GraphUpdated    bool             `json:"graph_updated"`
	PapersAdded     []string         `json:"papers_added"`
	PaperCandidates []PaperCandidate `json:"paper_candidates"`
}

// AddPaperRequest asks for a paper to be ingested by arXiv identifier or URL.
type AddPaperRequest struct {
	ArxivID string `json:"arxiv_id"`
}

// SelectPaperRequest confirms a candidate and optionally links it to the
// paper it was discovered from.
type SelectPaperRequest struct {
	ArxivID       string `json:"arxiv_id"`
	SourcePaperID string `json:"source_paper_id,omitempty"`
}

// CreateEdgeRequest asks for an edge between two stored papers.
type CreateEdgeRequest struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Type     EdgeType `json:"edge_type,omitempty"`
	Evidence string   `json:"evidence,omitempty"`
}
