// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-graph/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "*", cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Index.RequestInterval)
	assert.Equal(t, 3, cfg.Index.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Index.RetryStep)
	assert.Equal(t, defaultUserAgent, cfg.Index.UserAgent)
	assert.Equal(t, 5, cfg.AI.MaxRetries)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PAPER_GRAPH_SERVER_ADDR", ":9999")
	t.Setenv("PAPER_GRAPH_INDEX_RETRY_STEP", "250ms")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Index.RetryStep)
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("DEBUG").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("warn").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("loud").GetLevel())
}

func TestPrintChatResponse(t *testing.T) {
	var buf bytes.Buffer
	printChatResponse(&buf, types.ChatResponse{
		Message: "Found 2 papers matching 'attention':",
		PaperCandidates: []types.PaperCandidate{
			{ArxivID: "1706.03762", Title: "Attention Is All You Need", Year: 2017},
			{ArxivID: "2004.05150", Title: "Paper 2004.05150"},
		},
	})
	assert.Equal(t, "Found 2 papers matching 'attention':\n"+
		"  1. [1706.03762] Attention Is All You Need (2017)\n"+
		"  2. [2004.05150] Paper 2004.05150\n", buf.String())

	buf.Reset()
	printChatResponse(&buf, types.ChatResponse{Message: "Added paper.", PapersAdded: []string{"1706.03762"}})
	assert.Equal(t, "Added paper.\nAdded: 1706.03762\n", buf.String())
}
