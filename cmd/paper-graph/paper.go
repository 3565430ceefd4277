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

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Manage papers in the collection",
}

var paperAddCmd = &cobra.Command{
	Use:   "add [arxiv-ids or urls...]",
	Short: "Fetch papers from arXiv and add them to the collection",
	Long: `Add fetches each paper from the arXiv API, extracts its key concepts and
citations, and stores it. Papers already in the collection are left as they are.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPaperAdd,
}

var paperListCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers in the collection",
	RunE:  runPaperList,
}

var paperGetCmd = &cobra.Command{
	Use:   "get [arxiv-id]",
	Short: "Show one paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperGet,
}

var paperDeleteCmd = &cobra.Command{
	Use:   "delete [arxiv-id]",
	Short: "Remove a paper and its connections",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperDelete,
}

func runPaperAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	assistant, err := newAssistant(st)
	if err != nil {
		return err
	}

	var failed int
	for _, arg := range args {
		p, created, err := assistant.AddPaper(context.Background(), arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			failed++
			continue
		}
		if created {
			fmt.Printf("added %s: %s\n", p.ID, p.Title)
		} else {
			fmt.Printf("exists %s: %s\n", p.ID, p.Title)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d paper(s) could not be added", failed)
	}
	return nil
}

func runPaperList(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.ListPapers(context.Background())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, papers)
	}

	if len(papers) == 0 {
		fmt.Println("No papers in collection.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-14s  %-4s  %-50s  %s\n", "ID", "Year", "Title", "Concepts")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, p := range papers {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-4d  %-50s  %s\n", p.ID, p.Year(), title, strings.Join(p.KeyConcepts, ", "))
	}
	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
	return nil
}

func runPaperGet(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.GetPaper(context.Background(), args[0])
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return printJSON(os.Stdout, p)
	}
	printPaper(p)
	return nil
}

func printPaper(p types.Paper) {
	fmt.Printf("%s\n%s\n\n", p.Title, p.ArxivURL())
	fmt.Printf("Authors:  %s\n", strings.Join(p.Authors, ", "))
	if y := p.Year(); y > 0 {
		fmt.Printf("Year:     %d\n", y)
	}
	fmt.Printf("Concepts: %s\n", strings.Join(p.KeyConcepts, ", "))
	if p.PDFURL != "" {
		fmt.Printf("PDF:      %s\n", p.PDFURL)
	}
	if len(p.Citations) > 0 {
		fmt.Println("Citations:")
		for _, c := range p.Citations {
			if c.ArxivID != "" {
				fmt.Printf("  - %s [%s]\n", c.Title, c.ArxivID)
			} else {
				fmt.Printf("  - %s\n", c.Title)
			}
		}
	}
	fmt.Printf("\n%s\n", p.Summary)
}

func runPaperDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	p, err := st.GetPaper(ctx, args[0])
	if err != nil {
		return err
	}
	if err := st.DeletePaper(ctx, p.ID); err != nil {
		return err
	}
	fmt.Printf("Paper '%s' deleted\n", p.Title)
	return nil
}

func init() {
	paperListCmd.Flags().Bool("json", false, "output as JSON")
	paperGetCmd.Flags().Bool("json", false, "output as JSON")

	paperCmd.AddCommand(paperAddCmd)
	paperCmd.AddCommand(paperListCmd)
	paperCmd.AddCommand(paperGetCmd)
	paperCmd.AddCommand(paperDeleteCmd)

	rootCmd.AddCommand(paperCmd)
}
