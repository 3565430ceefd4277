// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the trimmed file contents are the value.
//
// Known key files: anthropic-api-key, tavily-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	AnthropicKey = "anthropic-api-key"
	TavilyKey    = "tavily-api-key"
)

// envFallback maps a key file name to the environment variable consulted
// when the file is absent.
var envFallback = map[string]string{
	AnthropicKey: "ANTHROPIC_API_KEY",
	TavilyKey:    "TAVILY_API_KEY",
}

// Set holds loaded secrets keyed by file name.
type Set map[string]string

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty Set. Unreadable files are logged and skipped.
func Load(dir string, log zerolog.Logger) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Get returns the secret for key, falling back to its environment variable.
func (s Set) Get(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	if env, ok := envFallback[key]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// Names returns the loaded key names without their values.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	return names
}
