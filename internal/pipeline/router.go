// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/arxivid"
	"github.com/pdiddy/paper-graph/internal/metrics"
)

// Classification is the router's verdict on a message.
type Classification struct {
	Intent  Intent
	ArxivID string
	Error   string
}

// Classify assigns an intent to message. Empty messages and messages that
// carry an arXiv identifier are classified without calling the model.
func Classify(ctx context.Context, model LanguageModel, message string) (Classification, error) {
	if strings.TrimSpace(message) == "" {
		return Classification{Intent: IntentQuestion, Error: "No message provided"}, nil
	}
	if id, ok := arxivid.Extract(message); ok {
		return Classification{Intent: IntentAddPaper, ArxivID: id}, nil
	}

	prompt, err := renderPrompt(routerPromptTmpl, messageData{Message: message})
	if err != nil {
		return Classification{}, fmt.Errorf("rendering router prompt: %w", err)
	}
	reply, err := model.Complete(ctx, prompt, routerOpts)
	if err != nil {
		return Classification{}, err
	}
	return Classification{Intent: MatchIntent(reply)}, nil
}

// MatchIntent maps a model reply to an intent by substring containment in
// priority order. Unmatched replies become IntentQuestion.
func MatchIntent(reply string) Intent {
	reply = strings.ToLower(strings.TrimSpace(reply))
	for _, intent := range classificationOrder {
		if strings.Contains(reply, string(intent)) {
			return intent
		}
	}
	return IntentQuestion
}

func (h *handlers) route(ctx context.Context, s State) (Delta, error) {
	c, err := Classify(ctx, h.Model, s.Message)
	if err != nil {
		return Delta{}, err
	}
	metrics.Default().IncIntent(string(c.Intent))
	h.Log.Debug().Str("intent", string(c.Intent)).Str("arxiv_id", c.ArxivID).Msg("classified message")
	return Delta{Intent: c.Intent, ArxivID: c.ArxivID, Error: c.Error}, nil
}

// routeIntent names the handler node for the classified intent.
func routeIntent(s State) string {
	switch s.Intent {
	case IntentAddPaper:
		return nodeIngest
	case IntentSearchPaper:
		return nodeSearch
	case IntentFindRelated:
		return nodeRelated
	case IntentFindConnections:
		return nodeConnections
	case IntentExtract:
		return nodeExtract
	case IntentCrawl:
		return nodeCrawl
	case IntentMap:
		return nodeMap
	default:
		return nodeAnswer
	}
}

// routeAfterIngest runs connection discovery only when papers were added.
func routeAfterIngest(s State) string {
	if len(s.PapersAdded) > 0 {
		return nodeConnections
	}
	return nodeSynthesis
}
