// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the chat history",
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the chat history",
	RunE:  runHistoryClear,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	messages, err := st.ChatHistory(context.Background(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(os.Stdout, messages)
	}
	for _, m := range messages {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Role, m.Content)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ClearChatHistory(context.Background()); err != nil {
		return err
	}
	fmt.Println("Chat history cleared")
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 0, "show only the most recent messages (0 = all)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
