// ABOUTME: Shared client configuration for the OpenAI-compatible backends
// ABOUTME: Builds the SDK client used by the vision describer
package llm

import (
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultTextModel is the default model for chat completions
	DefaultTextModel = "llama-3.1-8b-instant"
	// DefaultVisionModel is the default model for image descriptions
	DefaultVisionModel = "llama-3.2-11b-vision-preview"
)

// ClientConfig holds configuration shared by both backend clients.
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		TextModel:   DefaultTextModel,
		VisionModel: DefaultVisionModel,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		RetryDelay:  time.Second * 2,
	}
}

// newOpenAIClient builds an SDK client pointed at the configured backend.
func newOpenAIClient(cfg *ClientConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("backend API key is required")
	}

	sdkCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkCfg.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(sdkCfg), nil
}
