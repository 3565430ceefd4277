// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-graph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// IndexConfig holds settings for the arXiv index client.
type IndexConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// RequestInterval is the minimum spacing between index requests (default 3s).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval" mapstructure:"request_interval"`

	// MaxRetries is the number of attempts for one lookup (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryStep is the linear backoff unit between attempts (default 5s):
	// attempt n waits n*RetryStep.
	RetryStep time.Duration `json:"retry_step" yaml:"retry_step" mapstructure:"retry_step"`
}

// AIConfig holds settings for the language model client.
type AIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Model is the AI model identifier (e.g. "claude-opus-4-5").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// WebConfig holds settings for the web search/crawl/map/extract client.
type WebConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the Tavily API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// DataDir is the directory that holds the database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds settings for the HTTP front door.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins is a comma-separated CORS origin list ("*" for any).
	AllowedOrigins string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	LogLevel string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Index    IndexConfig  `json:"index" yaml:"index" mapstructure:"index"`
	AI       AIConfig     `json:"ai" yaml:"ai" mapstructure:"ai"`
	Web      WebConfig    `json:"web" yaml:"web" mapstructure:"web"`
	Store    StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Server   ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}
