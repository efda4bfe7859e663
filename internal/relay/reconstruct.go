// ABOUTME: History reconstruction: flattens stored turns into text-only messages
// ABOUTME: Image turns are replaced with backend descriptions or a placeholder
package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/chat-relay/internal/models"
)

const (
	// historicalImagePrompt describes images sent earlier in the conversation.
	historicalImagePrompt = "Describe this previously sent image"
	// defaultAnalyzePrompt is used for the current image when the caller
	// supplied neither a prompt nor a caption.
	defaultAnalyzePrompt = "Analyze this image"
)

// reconstruct flattens stored turns into the text-only message list the text
// backend accepts. Text turns pass through; image turns are described by the
// vision backend, with the current turn honoring the caller's prompt. A
// failed description degrades to a placeholder rather than dropping the turn.
// Historical images are re-described on every call; there is no description
// cache.
func (r *Relay) reconstruct(ctx context.Context, turns []*models.Turn, currentTurnID, prompt string) []models.NormalizedMessage {
	messages := make([]models.NormalizedMessage, 0, len(turns))

	for _, turn := range turns {
		if !turn.IsImage() {
			messages = append(messages, models.NormalizedMessage{
				Role:    string(turn.Role),
				Content: turn.Text,
			})
			continue
		}

		describePrompt := historicalImagePrompt
		if turn.TurnID == currentTurnID {
			describePrompt = imagePrompt(prompt, turn.Text)
		}

		description, err := r.describer.Describe(ctx, turn.Image, describePrompt)
		var content string
		if err != nil {
			r.log.Warn().Err(err).Str("turn_id", turn.TurnID).Msg("vision backend failed")
			content = fmt.Sprintf("[image unavailable: %v]", err)
		} else {
			content = "[image] " + description
		}

		messages = append(messages, models.NormalizedMessage{
			Role:    string(turn.Role),
			Content: content,
		})
	}

	return messages
}

// imagePrompt picks the describe prompt for the caller's current image:
// explicit prompt first, then the caption, then the default.
func imagePrompt(prompt, caption string) string {
	if strings.TrimSpace(prompt) != "" {
		return prompt
	}
	if strings.TrimSpace(caption) != "" {
		return caption
	}
	return defaultAnalyzePrompt
}
