// ABOUTME: CLI command to display a conversation's stored turn history
// ABOUTME: Reads directly from the local database without touching backends
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Show a conversation's stored turns",
		Long: `Display every stored turn of a conversation in order.

Examples:
  relay history default-anonymous
  relay history trip-planning --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	conversationID := args[0]

	store, db, err := openTurnStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	turns, err := store.ListByConversation(context.Background(), conversationID)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(turns)
	}

	if len(turns) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No turns found")
		return nil
	}

	for _, turn := range turns {
		label := string(turn.Role)
		if turn.IsImage() {
			label += " (image)"
		}
		text := turn.Text
		if turn.IsImage() && text == "" {
			text = "<no caption>"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-18s %-16s %s\n", formatTime(turn.CreatedAt), label, truncate(text, 80))
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d turns\n", len(turns))
	}
	return nil
}
