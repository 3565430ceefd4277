// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-graph/pkg/types"
)

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Manage connections between papers",
}

var edgeAddCmd = &cobra.Command{
	Use:   "add [source-id] [target-id]",
	Short: "Connect two papers in the collection",
	Long: `Add creates an edge between two stored papers. Only one edge may join a
pair of papers, whatever its direction or type.`,
	Args: cobra.ExactArgs(2),
	RunE: runEdgeAdd,
}

var edgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all connections",
	RunE:  runEdgeList,
}

var edgeDeleteCmd = &cobra.Command{
	Use:   "delete [edge-id]",
	Short: "Remove a connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdgeDelete,
}

func runEdgeAdd(cmd *cobra.Command, args []string) error {
	edgeType, _ := cmd.Flags().GetString("type")
	evidence, _ := cmd.Flags().GetString("evidence")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e, created, err := st.AddEdge(context.Background(), types.Edge{
		SourceID: args[0],
		TargetID: args[1],
		Type:     types.EdgeType(edgeType),
		Evidence: evidence,
	})
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("papers are already connected by edge %s (%s)", e.ID, e.Type)
	}
	fmt.Printf("created edge %s: %s -> %s (%s)\n", e.ID, e.SourceID, e.TargetID, e.Type)
	return nil
}

func runEdgeList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	edges, err := st.ListEdges(context.Background())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, edges)
	}

	if len(edges) == 0 {
		fmt.Println("No connections.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-14s  %-14s  %-16s  %s\n", "ID", "Source", "Target", "Type", "Evidence")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range edges {
		fmt.Fprintf(os.Stdout, "%-36s  %-14s  %-14s  %-16s  %s\n", e.ID, e.SourceID, e.TargetID, e.Type, e.Evidence)
	}
	fmt.Fprintf(os.Stdout, "\n%d connections\n", len(edges))
	return nil
}

func runEdgeDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteEdge(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Println("Edge deleted")
	return nil
}

func init() {
	edgeAddCmd.Flags().String("type", string(types.EdgeManual), "edge type: citation, shared_concepts or manual")
	edgeAddCmd.Flags().String("evidence", "", "free text explaining the connection")
	edgeListCmd.Flags().Bool("json", false, "output as JSON")

	edgeCmd.AddCommand(edgeAddCmd)
	edgeCmd.AddCommand(edgeListCmd)
	edgeCmd.AddCommand(edgeDeleteCmd)

	rootCmd.AddCommand(edgeCmd)
}
