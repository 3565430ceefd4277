// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-graph/internal/pipeline"
	"github.com/pdiddy/paper-graph/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the research assistant",
	Long: `Chat sends a message to the assistant and prints the reply. Without a
message it starts an interactive session: type a message per line, a
candidate number to add that paper, or "quit" to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("json", false, "print the full response as JSON")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	assistant, err := newAssistant(st)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 {
		resp := assistant.Chat(ctx, strings.Join(args, " "))
		if jsonOutput {
			return printJSON(os.Stdout, resp)
		}
		printChatResponse(os.Stdout, resp)
		return nil
	}
	return chatLoop(ctx, assistant, os.Stdin, os.Stdout)
}

// chatLoop reads one message per line until EOF or "quit". A bare number
// selects the matching candidate from the previous reply.
func chatLoop(ctx context.Context, assistant *pipeline.Assistant, in io.Reader, out io.Writer) error {
	var candidates []types.PaperCandidate
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		default:
			var resp types.ChatResponse
			if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(candidates) {
				c := candidates[n-1]
				resp = assistant.SelectPaper(ctx, c.ArxivID, c.SourcePaperID)
			} else {
				resp = assistant.Chat(ctx, line)
			}
			candidates = resp.PaperCandidates
			printChatResponse(out, resp)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func printChatResponse(out io.Writer, resp types.ChatResponse) {
	fmt.Fprintln(out, resp.Message)
	for i, c := range resp.PaperCandidates {
		year := ""
		if c.Year > 0 {
			year = fmt.Sprintf(" (%d)", c.Year)
		}
		fmt.Fprintf(out, "  %d. [%s] %s%s\n", i+1, c.ArxivID, c.Title, year)
	}
	if len(resp.PapersAdded) > 0 {
		fmt.Fprintf(out, "Added: %s\n", strings.Join(resp.PapersAdded, ", "))
	}
}
