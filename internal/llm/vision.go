// ABOUTME: Vision describer wrapping one multimodal backend call
// ABOUTME: Converts an inline image plus prompt into a natural-language description
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/harper/chat-relay/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultDescribePrompt is substituted when a describe call carries no prompt.
const DefaultDescribePrompt = "Describe this image"

// Describer wraps the vision-capable backend with retry logic.
type Describer struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewDescriber creates a vision describer from the shared client configuration.
func NewDescriber(cfg *ClientConfig) (*Describer, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.VisionModel
	if model == "" {
		model = DefaultVisionModel
	}

	return &Describer{
		client:     client,
		model:      model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Describe sends one image with a prompt to the vision backend and returns
// its description. Failures come back as *VisionError; the caller decides
// whether that is fatal or substitutes a placeholder.
func (d *Describer) Describe(ctx context.Context, imageB64, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultDescribePrompt
	}

	// The inbound API carries bare base64 with no declared type; JPEG is assumed.
	dataURI := "data:image/jpeg;base64," + imageB64

	req := openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			// A cancelled turn fails fast instead of burning the backoff schedule.
			if ctx.Err() != nil {
				break
			}
			time.Sleep(util.CalculateBackoff(d.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		resp, err := d.client.CreateChatCompletion(callCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = &VisionError{Detail: "no choices in response"}
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	if ve, ok := lastErr.(*VisionError); ok {
		return "", ve
	}
	return "", &VisionError{Detail: "describe call failed", Err: lastErr}
}
