// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-graph/internal/acquire"
	"github.com/pdiddy/paper-graph/internal/llm"
	"github.com/pdiddy/paper-graph/internal/pipeline"
	"github.com/pdiddy/paper-graph/internal/search"
	"github.com/pdiddy/paper-graph/internal/secrets"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/internal/web"
	"github.com/pdiddy/paper-graph/pkg/types"
)

const pdfTimeout = 60 * time.Second

// openStore opens the SQLite store named by the configuration.
func openStore() (*store.Store, error) {
	return store.NewStore(appConfig.Store)
}

// newAssistant wires the external clients and the workflow over st. API
// keys come from the config first, then .secrets/, then the environment.
func newAssistant(st *store.Store) (*pipeline.Assistant, error) {
	aiCfg := appConfig.AI
	if aiCfg.APIKey == "" {
		aiCfg.APIKey = loadedSecrets.Get(secrets.AnthropicKey)
	}
	if aiCfg.APIKey == "" {
		return nil, fmt.Errorf("no Anthropic API key: set ai.api_key, .secrets/%s or ANTHROPIC_API_KEY", secrets.AnthropicKey)
	}

	webCfg := appConfig.Web
	if webCfg.APIKey == "" {
		webCfg.APIKey = loadedSecrets.Get(secrets.TavilyKey)
	}
	if webCfg.APIKey == "" {
		return nil, fmt.Errorf("no Tavily API key: set web.api_key, .secrets/%s or TAVILY_API_KEY", secrets.TavilyKey)
	}

	docs := acquire.NewDownloader(
		types.HTTPConfig{Timeout: pdfTimeout, UserAgent: appConfig.Index.UserAgent},
		filepath.Join(st.DataDir(), "pdfs"),
		nil,
		logger,
	)

	return pipeline.NewAssistant(pipeline.Deps{
		Model: llm.NewClaude(aiCfg, nil, logger),
		Web:   web.NewTavily(webCfg, nil, logger),
		Index: search.NewArxivIndex(appConfig.Index, nil, logger),
		Docs:  docs,
		Store: st,
		Log:   logger,
	})
}
