// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-graph/internal/arxivid"
)

// extract summarizes the page at a URL named in the message.
func (h *handlers) extract(ctx context.Context, s State) (Delta, error) {
	url, err := h.ask(ctx, urlPromptTmpl, messageData{Message: s.Message}, urlOpts)
	if err != nil {
		return Delta{}, err
	}
	if !strings.HasPrefix(url, "http") {
		return Delta{Response: "I couldn't find a valid URL in your message. Please provide a URL to extract content from."}, nil
	}

	pages, err := h.Web.Extract(ctx, []string{url})
	res := Collect(h.Log, "web extract", pages, err)
	if res.Empty() {
		return Delta{Response: fmt.Sprintf("Could not extract content from '%s'. The page may not be accessible.", url)}, nil
	}

	content := res.Items[0].RawContent
	if strings.TrimSpace(content) == "" {
		return Delta{Response: fmt.Sprintf("No content could be extracted from '%s'.", url)}, nil
	}

	summary, err := h.ask(ctx, summarizePromptTmpl, struct{ Content string }{prefix(content, maxSummaryInput)}, summaryOpts)
	if err != nil {
		return Delta{}, err
	}

	d := Delta{Response: summary, ExtractedURL: url}
	if id, ok := arxivid.Extract(url); ok {
		d.ExtractedArxivID = id
		d.Response += fmt.Sprintf("\n\nThis appears to be an arXiv paper (%s). Would you like me to add it to your collection?", id)
	}
	return d, nil
}
