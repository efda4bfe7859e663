// ABOUTME: CLI command to list a caller's conversations
// ABOUTME: Shows conversation IDs with their start times, newest first
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/chat-relay/internal/models"
)

var conversationsCallerID string

// NewConversationsCmd creates the conversations command
func NewConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List conversations for a caller",
		Long: `List a caller's conversations, newest first.

Examples:
  relay conversations
  relay conversations --caller alice`,
		RunE: runConversations,
	}

	cmd.Flags().StringVar(&conversationsCallerID, "caller", "", "Caller identity (default: anonymous)")

	return cmd
}

func runConversations(cmd *cobra.Command, args []string) error {
	callerID := conversationsCallerID
	if callerID == "" {
		callerID = models.AnonymousCaller
	}

	store, db, err := openTurnStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	conversations, err := store.ListConversations(context.Background(), callerID)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(conversations)
	}

	if len(conversations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversations found")
		return nil
	}

	for _, conv := range conversations {
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s started %s\n", conv.ConversationID, formatTime(conv.StartedAt))
	}
	return nil
}
