// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls a hosted language model for single-turn completions,
// optionally grounded on a PDF document.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/httputil"
	"github.com/pdiddy/paper-graph/internal/metrics"
	"github.com/pdiddy/paper-graph/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	anthropicVersion = "2023-06-01"
	defaultModel     = "claude-opus-4-5"
)

// Options controls a single completion.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Claude calls the Claude Messages API.
type Claude struct {
	cfg    types.AIConfig
	client *http.Client
	log    zerolog.Logger
}

// NewClaude returns a Claude client. A nil client uses one with cfg.Timeout.
func NewClaude(cfg types.AIConfig, client *http.Client, log zerolog.Logger) *Claude {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Claude{cfg: cfg, client: client, log: log.With().Str("component", "llm").Logger()}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is a text or document block of a user message.
type contentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *documentSource `json:"source,omitempty"`
}

type documentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends prompt as a single user turn and returns the text reply.
func (c *Claude) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	return c.send(ctx, "complete", []contentBlock{{Type: "text", Text: prompt}}, opts)
}

// CompleteWithDocument sends a PDF document followed by prompt and returns
// the text reply.
func (c *Claude) CompleteWithDocument(ctx context.Context, prompt string, pdf []byte, opts Options) (string, error) {
	blocks := []contentBlock{
		{
			Type: "document",
			Source: &documentSource{
				Type:      "base64",
				MediaType: "application/pdf",
				Data:      base64.StdEncoding.EncodeToString(pdf),
			},
		},
		{Type: "text", Text: prompt},
	}
	return c.send(ctx, "complete_with_document", blocks, opts)
}

func (c *Claude) send(ctx context.Context, op string, blocks []contentBlock, opts Options) (text string, err error) {
	done := metrics.TimeCall("llm", op)
	defer func() { done(err == nil) }()

	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httputil.ReadError("Claude API", resp)
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var parts []string
	for _, block := range cResp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}

	c.log.Debug().Str("op", op).Dur("latency", time.Since(start)).Int("max_tokens", opts.MaxTokens).Msg("completion")
	return strings.Join(parts, ""), nil
}
