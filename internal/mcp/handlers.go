// ABOUTME: MCP tool handler implementations for the chat relay
// ABOUTME: Thin adapters from tool arguments to relay calls with JSON results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/harper/chat-relay/internal/relay"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	relay *relay.Relay
	log   zerolog.Logger
}

// SendMessage handles the send_message tool
func (h *Handlers) SendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := &relay.TurnRequest{
		Message:        request.GetString("message", ""),
		Image:          request.GetString("image", ""),
		Prompt:         request.GetString("prompt", ""),
		CallerID:       request.GetString("caller_id", ""),
		ConversationID: request.GetString("conversation_id", ""),
	}

	result, err := h.relay.HandleTurn(ctx, req)
	if err != nil {
		h.log.Error().Err(err).Msg("send_message failed")
		return mcp.NewToolResultError(fmt.Sprintf("turn failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetHistory handles the get_history tool
func (h *Handlers) GetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError("conversation_id argument is required and must be a string"), nil
	}

	turns, err := h.relay.History(ctx, conversationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}

	formatted := make([]map[string]interface{}, 0, len(turns))
	for _, turn := range turns {
		entry := map[string]interface{}{
			"turn_id":    turn.TurnID,
			"role":       string(turn.Role),
			"kind":       string(turn.Kind),
			"created_at": turn.CreatedAt.Format(time.RFC3339),
		}
		if turn.IsImage() {
			entry["caption"] = turn.Text
			entry["image"] = turn.Image
		} else {
			entry["text"] = turn.Text
		}
		formatted = append(formatted, entry)
	}

	response := map[string]interface{}{
		"conversation_id": conversationID,
		"turns":           formatted,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListConversations handles the list_conversations tool
func (h *Handlers) ListConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	callerID := request.GetString("caller_id", "")

	conversations, err := h.relay.Conversations(ctx, callerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list conversations: %v", err)), nil
	}

	formatted := make([]map[string]interface{}, 0, len(conversations))
	for _, conv := range conversations {
		formatted = append(formatted, map[string]interface{}{
			"conversation_id": conv.ConversationID,
			"started_at":      conv.StartedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"conversations": formatted,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
