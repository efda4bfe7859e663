// ABOUTME: Relay orchestration: persist turns, rebuild history, get a reply
// ABOUTME: Absorbs backend failures into the reply; only store failures are fatal
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/chat-relay/internal/llm"
	"github.com/harper/chat-relay/internal/models"
	"github.com/rs/zerolog"
)

// ErrEmptyTurn is returned when a request carries neither text nor an image.
var ErrEmptyTurn = errors.New("request must include a message or an image")

// Store is the persistence surface the relay needs.
type Store interface {
	Append(ctx context.Context, turn *models.Turn) error
	ListByConversation(ctx context.Context, conversationID string) ([]*models.Turn, error)
	ListConversations(ctx context.Context, callerID string) ([]*models.ConversationSummary, error)
}

// Describer turns an inline base64 image plus prompt into a text description.
type Describer interface {
	Describe(ctx context.Context, imageB64, prompt string) (string, error)
}

// Responder sends the flattened history to the text backend and returns a reply.
type Responder interface {
	Respond(ctx context.Context, messages []models.NormalizedMessage) (string, error)
}

// Archiver mirrors stored turns to a secondary backup location. Archival is
// best-effort: failures are logged, never propagated.
type Archiver interface {
	ArchiveTurn(turn *models.Turn) error
}

// TurnRequest is one inbound caller turn.
type TurnRequest struct {
	CallerID       string `json:"caller_id"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Image          string `json:"image"`
	Prompt         string `json:"prompt"`
}

// TurnResult is the relay's answer for one turn.
type TurnResult struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

// Relay coordinates the store and the two backends for each turn.
type Relay struct {
	store     Store
	describer Describer
	responder Responder
	archiver  Archiver
	log       zerolog.Logger
}

// New creates a relay over the given collaborators.
func New(store Store, describer Describer, responder Responder, log zerolog.Logger) *Relay {
	return &Relay{
		store:     store,
		describer: describer,
		responder: responder,
		log:       log,
	}
}

// HandleTurn runs one full conversational turn: persist the caller's turn,
// flatten the conversation so far into text, obtain a reply, persist it, and
// return it. Backend failures are folded into the reply text; a returned
// error always means the store failed.
//
// No per-conversation lock is taken. Concurrent turns on the same
// conversation both persist safely; their interleaving follows store order.
func (r *Relay) HandleTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" && req.Image == "" {
		return nil, ErrEmptyTurn
	}

	callerID := req.CallerID
	if strings.TrimSpace(callerID) == "" {
		callerID = models.AnonymousCaller
	}
	conversationID := req.ConversationID
	if strings.TrimSpace(conversationID) == "" {
		conversationID = models.DefaultConversationID(callerID)
	}

	var turn *models.Turn
	var err error
	if req.Image != "" {
		turn, err = models.NewImageTurn(conversationID, callerID, req.Image, req.Message)
	} else {
		turn, err = models.NewTextTurn(conversationID, callerID, models.RoleUser, req.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build turn: %w", err)
	}

	if err := r.store.Append(ctx, turn); err != nil {
		return nil, fmt.Errorf("failed to store turn: %w", err)
	}
	r.archive(turn)

	turns, err := r.store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	messages := r.reconstruct(ctx, turns, turn.TurnID, req.Prompt)

	reply := r.respond(ctx, conversationID, messages)

	assistant, err := models.NewTextTurn(conversationID, callerID, models.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to build assistant turn: %w", err)
	}
	if err := r.store.Append(ctx, assistant); err != nil {
		return nil, fmt.Errorf("failed to store assistant turn: %w", err)
	}
	r.archive(assistant)

	r.log.Info().
		Str("conversation_id", conversationID).
		Str("caller_id", callerID).
		Bool("image", turn.IsImage()).
		Int("history_turns", len(turns)).
		Msg("turn handled")

	return &TurnResult{Reply: reply, ConversationID: conversationID}, nil
}

// SetArchiver installs a best-effort turn archiver.
func (r *Relay) SetArchiver(a Archiver) {
	r.archiver = a
}

// archive mirrors a stored turn to the archiver, if one is installed.
func (r *Relay) archive(turn *models.Turn) {
	if r.archiver == nil {
		return
	}
	if err := r.archiver.ArchiveTurn(turn); err != nil {
		r.log.Warn().Err(err).Str("turn_id", turn.TurnID).Msg("turn archival failed")
	}
}

// respond calls the text backend and folds any failure into the reply string.
func (r *Relay) respond(ctx context.Context, conversationID string, messages []models.NormalizedMessage) string {
	reply, err := r.responder.Respond(ctx, messages)
	if err != nil {
		r.log.Warn().Err(err).Str("conversation_id", conversationID).Msg("text backend failed")
		return fmt.Sprintf("[backend error: %v]", err)
	}
	if reply == "" {
		return llm.NoTextSentinel
	}
	return reply
}

// History returns every stored turn of a conversation in order.
func (r *Relay) History(ctx context.Context, conversationID string) ([]*models.Turn, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is required")
	}
	return r.store.ListByConversation(ctx, conversationID)
}

// Conversations lists a caller's conversations, newest first.
func (r *Relay) Conversations(ctx context.Context, callerID string) ([]*models.ConversationSummary, error) {
	if strings.TrimSpace(callerID) == "" {
		callerID = models.AnonymousCaller
	}
	return r.store.ListConversations(ctx, callerID)
}
