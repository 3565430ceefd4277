// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "  sk-ant-123  \n")
				writeFile(t, dir, TavilyKey, "tvly-abc\n")
				return dir
			},
			want: Set{AnthropicKey: "sk-ant-123", TavilyKey: "tvly-abc"},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid-key")
				writeFile(t, dir, "empty-key", "   \n\t ")
				writeFile(t, dir, ".gitkeep", "")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{AnthropicKey: "valid-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetFallsBackToEnvironment(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-env")
	t.Setenv("ANTHROPIC_API_KEY", "from-env")

	set := Set{AnthropicKey: "from-file"}
	assert.Equal(t, "from-file", set.Get(AnthropicKey))
	assert.Equal(t, "tvly-env", set.Get(TavilyKey))
	assert.Equal(t, "", set.Get("unknown-key"))
}

func TestNames(t *testing.T) {
	set := Set{AnthropicKey: "a", TavilyKey: "b"}
	assert.ElementsMatch(t, []string{AnthropicKey, TavilyKey}, set.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
