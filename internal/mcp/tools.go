// ABOUTME: MCP tool definitions and registration for the chat relay
// ABOUTME: Defines JSON schemas for the send_message, get_history, and list_conversations tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/harper/chat-relay/internal/relay"
)

// RegisterTools registers all relay tools with the MCP server
func RegisterTools(server *mcpserver.MCPServer, rl *relay.Relay, log zerolog.Logger) *Handlers {
	handlers := &Handlers{
		relay: rl,
		log:   log,
	}

	// 1. send_message - Send one conversational turn through the relay
	server.AddTool(mcp.Tool{
		Name:        "send_message",
		Description: "Send a message (text, image, or both) to the chat relay and get the assistant's reply. The full conversation history is replayed to the model on every turn.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Text message, or caption when an image is attached",
				},
				"image": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded image to describe and discuss",
				},
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Optional instruction for analyzing the attached image",
				},
				"caller_id": map[string]interface{}{
					"type":        "string",
					"description": "Caller identity (default: anonymous)",
				},
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation to continue (default: the caller's default conversation)",
				},
			},
		},
	}, handlers.SendMessage)

	// 2. get_history - Get every stored turn of a conversation
	server.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Get the complete stored turn history for a conversation, in order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation ID to retrieve history for",
				},
			},
			Required: []string{"conversation_id"},
		},
	}, handlers.GetHistory)

	// 3. list_conversations - List a caller's conversations
	server.AddTool(mcp.Tool{
		Name:        "list_conversations",
		Description: "List a caller's conversations, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"caller_id": map[string]interface{}{
					"type":        "string",
					"description": "Caller identity (default: anonymous)",
				},
			},
		},
	}, handlers.ListConversations)

	return handlers
}
