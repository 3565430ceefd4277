// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns a chat message into graph updates and a reply.
//
// A message is classified into an Intent, dispatched to exactly one
// capability handler (ingest is followed by connection discovery when it
// adds papers), and finished by synthesis, which renders the stored graph
// and composes the reply text. Steps never mutate shared state: each one
// reads an immutable State and returns a Delta that the engine applies to
// produce the next snapshot.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/llm"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// Intent is the category assigned to a message; it selects the handler.
type Intent string

const (
	IntentAddPaper        Intent = "add_paper"
	IntentSearchPaper     Intent = "search_paper"
	IntentFindRelated     Intent = "find_related"
	IntentFindConnections Intent = "find_connections"
	IntentQuestion        Intent = "question"
	IntentExtract         Intent = "extract"
	IntentCrawl           Intent = "crawl"
	IntentMap             Intent = "map"
)

// classificationOrder is the priority used when matching a model reply
// against intent names. IntentQuestion is the fallback and never matched.
var classificationOrder = []Intent{
	IntentAddPaper,
	IntentSearchPaper,
	IntentFindRelated,
	IntentFindConnections,
	IntentExtract,
	IntentCrawl,
	IntentMap,
}

// LanguageModel produces single-turn completions.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string, opts llm.Options) (string, error)
	CompleteWithDocument(ctx context.Context, prompt string, pdf []byte, opts llm.Options) (string, error)
}

// WebService searches, crawls, maps and extracts web content.
type WebService interface {
	Search(ctx context.Context, req web.SearchRequest) ([]web.SearchResult, error)
	Crawl(ctx context.Context, req web.CrawlRequest) ([]web.Page, error)
	Map(ctx context.Context, req web.MapRequest) ([]string, error)
	Extract(ctx context.Context, urls []string) ([]web.Page, error)
}

// PaperIndex looks papers up in the academic index.
type PaperIndex interface {
	FetchByID(ctx context.Context, id string) (types.SearchResult, error)
	SearchByName(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// DocumentFetcher downloads paper PDFs.
type DocumentFetcher interface {
	FetchPDF(ctx context.Context, url string) ([]byte, error)
}

// Store persists papers, edges and chat history.
type Store interface {
	AddPaper(ctx context.Context, p types.Paper) (types.Paper, bool, error)
	GetPaper(ctx context.Context, id string) (types.Paper, error)
	ListPapers(ctx context.Context) ([]types.Paper, error)
	AddEdge(ctx context.Context, e types.Edge) (types.Edge, bool, error)
	FindEdge(ctx context.Context, a, b string) (types.Edge, error)
	ListEdges(ctx context.Context) ([]types.Edge, error)
	GraphData(ctx context.Context) (types.GraphData, error)
	AddChatMessage(ctx context.Context, role types.Role, content string) (types.ChatMessage, error)
}

// Deps holds the collaborators shared by every step.
type Deps struct {
	Model LanguageModel
	Web   WebService
	Index PaperIndex
	Docs  DocumentFetcher
	Store Store
	Log   zerolog.Logger
}
