// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportFormat selects the serialization of a graph export.
type ExportFormat string

const (
	FormatYAML ExportFormat = "yaml"
	FormatJSON ExportFormat = "json"
)

// Export writes the whole graph to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	graph, err := s.GraphData(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(graph)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(graph, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	_, err = w.Write(data)
	return err
}

// ExportYAML writes the graph to <data dir>/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	return s.exportFile(ctx, FormatYAML)
}

// ExportJSON writes the graph to <data dir>/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	return s.exportFile(ctx, FormatJSON)
}

func (s *Store) exportFile(ctx context.Context, format ExportFormat) (string, error) {
	path := filepath.Join(s.dataDir, "export."+string(format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := s.Export(ctx, f, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
