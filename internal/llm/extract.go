// ABOUTME: Reply extraction over the backend's heterogeneous response shapes
// ABOUTME: Total function: any input yields a string, never an error or panic
package llm

import (
	"encoding/json"
	"fmt"
)

// NoTextSentinel is returned when no text-bearing content can be located.
const NoTextSentinel = "[no text found in response]"

// ChatResponse mirrors the wire shape of an OpenAI-style chat completion.
// Content stays raw because the provider has shipped it both as a plain
// string and as a list of typed blocks across API revisions.
type ChatResponse struct {
	Choices []ChatChoice  `json:"choices"`
	Error   *BackendError `json:"error,omitempty"`
}

// ChatChoice is one completion candidate.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatMessage is the generated message within a choice.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// BackendError is the structured error payload some backends return inline.
type BackendError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// contentBlock is one entry of the block-list content form. Older revisions
// tag text blocks "output_text", newer ones "text"; both are accepted, and
// the payload may live under either "text" or "content".
type contentBlock struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Content string `json:"content"`
}

// ExtractReply normalizes a backend response into a single reply string.
// It is total: for any input, including nil and malformed content, it
// returns a string and never fails.
func ExtractReply(resp *ChatResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return NoTextSentinel
	}

	content := resp.Choices[0].Message.Content
	if len(content) == 0 || string(content) == "null" {
		return NoTextSentinel
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return fmt.Sprintf("[error extracting reply: %v]", err)
	}

	for _, block := range blocks {
		if block.Type == "output_text" || block.Type == "text" {
			if block.Text != "" {
				return block.Text
			}
			return block.Content
		}
	}

	return NoTextSentinel
}
