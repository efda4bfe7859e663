// ABOUTME: CLI command to send one conversational turn through the relay
// ABOUTME: Supports text, image files, and prompts from the command line
package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/chat-relay/internal/relay"
)

var (
	chatCallerID       string
	chatConversationID string
	chatImageFile      string
	chatPrompt         string
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message and print the reply",
		Long: `Send one conversational turn through the relay.

The full conversation history is replayed to the model, so follow-up
messages in the same conversation keep their context.

Examples:
  relay chat "What's the capital of France?"
  relay chat --conversation trip-planning "And the weather there?"
  relay chat --image photo.jpg --prompt "What breed is this dog?"
  relay chat --image photo.jpg "my new puppy"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatCallerID, "caller", "", "Caller identity (default: anonymous)")
	cmd.Flags().StringVar(&chatConversationID, "conversation", "", "Conversation to continue")
	cmd.Flags().StringVar(&chatImageFile, "image", "", "Image file to attach")
	cmd.Flags().StringVar(&chatPrompt, "prompt", "", "Instruction for analyzing the attached image")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	var message string
	if len(args) > 0 {
		message = args[0]
	}

	var imageB64 string
	if chatImageFile != "" {
		data, err := os.ReadFile(chatImageFile)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		imageB64 = base64.StdEncoding.EncodeToString(data)
	}

	if strings.TrimSpace(message) == "" && imageB64 == "" {
		return fmt.Errorf("provide a message, an image, or both")
	}

	rl, db, err := buildRelay(cliLogger())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	result, err := rl.HandleTurn(context.Background(), &relay.TurnRequest{
		CallerID:       chatCallerID,
		ConversationID: chatConversationID,
		Message:        message,
		Image:          imageB64,
		Prompt:         chatPrompt,
	})
	if err != nil {
		return fmt.Errorf("turn failed: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", result.ConversationID)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
	return nil
}
