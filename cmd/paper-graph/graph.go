// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-graph/internal/render"
	"github.com/pdiddy/paper-graph/internal/store"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show or export the paper graph",
	Long: `Graph prints the stored graph as JSON, either raw (papers and edges) or as
Cytoscape.js elements with --cytoscape.`,
	RunE: runGraph,
}

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph to YAML or JSON",
	Long: `Export writes every paper and edge to <data-dir>/export.yaml or
<data-dir>/export.json. With --stdout the export is printed instead.`,
	RunE: runGraphExport,
}

func runGraph(cmd *cobra.Command, args []string) error {
	cytoscape, _ := cmd.Flags().GetBool("cytoscape")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.GraphData(context.Background())
	if err != nil {
		return err
	}
	if cytoscape {
		return printJSON(os.Stdout, render.Cytoscape(g))
	}
	return printJSON(os.Stdout, g)
}

func runGraphExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if toStdout {
		return st.Export(ctx, os.Stdout, store.ExportFormat(format))
	}

	var path string
	switch store.ExportFormat(format) {
	case store.FormatYAML, "":
		path, err = st.ExportYAML(ctx)
	case store.FormatJSON:
		path, err = st.ExportJSON(ctx)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	graphCmd.Flags().Bool("cytoscape", false, "print Cytoscape.js elements")
	graphExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	graphExportCmd.Flags().Bool("stdout", false, "print the export instead of writing a file")

	graphCmd.AddCommand(graphExportCmd)
	rootCmd.AddCommand(graphCmd)
}
