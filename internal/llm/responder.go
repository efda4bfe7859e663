// ABOUTME: Text responder wrapping one chat-completion call over raw HTTP
// ABOUTME: Keeps the wire-level content union intact for the reply extractor
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harper/chat-relay/internal/models"
	"github.com/harper/chat-relay/internal/util"
	"github.com/rs/zerolog"
)

// Responder sends the full ordered message list to the text backend in one
// call. It speaks the wire format directly rather than going through the SDK:
// the SDK types message content as a plain string, but the extractor must see
// the raw string-or-block-list union.
type Responder struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewResponder creates a text responder from the shared client configuration.
func NewResponder(cfg *ClientConfig, log zerolog.Logger) (*Responder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("backend API key is required")
	}

	model := cfg.TextModel
	if model == "" {
		model = DefaultTextModel
	}

	return &Responder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}, nil
}

type chatRequest struct {
	Model    string                     `json:"model"`
	Messages []models.NormalizedMessage `json:"messages"`
}

// Respond sends the ordered message list and returns the extracted reply.
// Transport failures and non-success statuses come back as *ResponderError;
// the relay converts those into a diagnostic reply rather than failing.
func (r *Responder) Respond(ctx context.Context, messages []models.NormalizedMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: r.model, Messages: messages})
	if err != nil {
		return "", &ResponderError{Detail: "failed to encode request", Err: err}
	}

	endpoint := r.baseURL + "/chat/completions"

	var lastErr *ResponderError
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			// A cancelled turn fails fast instead of burning the backoff schedule.
			if ctx.Err() != nil {
				break
			}
			time.Sleep(util.CalculateBackoff(r.retryDelay, attempt))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", &ResponderError{Detail: "failed to create request", Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+r.apiKey)

		start := time.Now()
		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = &ResponderError{Detail: "request failed", Err: err}
			r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("text backend call failed")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = &ResponderError{StatusCode: resp.StatusCode, Detail: "failed to read response body", Err: err}
			continue
		}

		r.log.Debug().
			Int("status", resp.StatusCode).
			Int("messages", len(messages)).
			Dur("duration", time.Since(start)).
			Msg("text backend call completed")

		if resp.StatusCode != http.StatusOK {
			respErr := &ResponderError{StatusCode: resp.StatusCode, Detail: string(respBody)}
			// Client errors will not improve on retry.
			if resp.StatusCode < http.StatusInternalServerError {
				return "", respErr
			}
			lastErr = respErr
			continue
		}

		var parsed ChatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", &ResponderError{StatusCode: resp.StatusCode, Detail: "undecodable response body", Err: err}
		}
		if parsed.Error != nil {
			return "", &ResponderError{StatusCode: resp.StatusCode, Detail: parsed.Error.Message}
		}

		return ExtractReply(&parsed), nil
	}

	return "", lastErr
}
