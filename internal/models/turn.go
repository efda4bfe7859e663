// ABOUTME: Turn represents one persisted exchange unit in a conversation
// ABOUTME: Core data structure for the chat relay, either a text or an image turn
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// TurnKind distinguishes text turns from image turns. A turn is exactly one
// of the two; an image turn may additionally carry a caption in Text.
type TurnKind string

const (
	KindText  TurnKind = "text"
	KindImage TurnKind = "image"
)

// AnonymousCaller is the caller id assigned when a request carries none.
const AnonymousCaller = "anonymous"

// Turn is one append-only unit of conversation history. Seq and CreatedAt are
// assigned by the store at persistence time and define replay order.
type Turn struct {
	TurnID         string    `json:"turn_id"`
	Seq            int64     `json:"seq"`
	ConversationID string    `json:"conversation_id"`
	CallerID       string    `json:"caller_id"`
	Role           Role      `json:"role"`
	Kind           TurnKind  `json:"kind"`
	Text           string    `json:"text,omitempty"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTextTurn creates a text turn with validation.
func NewTextTurn(conversationID, callerID string, role Role, text string) (*Turn, error) {
	if conversationID == "" {
		return nil, errors.New("conversation id cannot be empty")
	}
	if role != RoleUser && role != RoleAssistant && role != RoleSystem {
		return nil, fmt.Errorf("invalid role: %q", role)
	}
	if role != RoleAssistant && strings.TrimSpace(text) == "" {
		return nil, errors.New("text cannot be empty")
	}
	return &Turn{
		TurnID:         generateTurnID(),
		ConversationID: conversationID,
		CallerID:       normalizeCaller(callerID),
		Role:           role,
		Kind:           KindText,
		Text:           text,
	}, nil
}

// NewImageTurn creates a user image turn. The caption is optional and doubles
// as the vision prompt for the freshly submitted image.
func NewImageTurn(conversationID, callerID, imageB64, caption string) (*Turn, error) {
	if conversationID == "" {
		return nil, errors.New("conversation id cannot be empty")
	}
	if strings.TrimSpace(imageB64) == "" {
		return nil, errors.New("image payload cannot be empty")
	}
	return &Turn{
		TurnID:         generateTurnID(),
		ConversationID: conversationID,
		CallerID:       normalizeCaller(callerID),
		Role:           RoleUser,
		Kind:           KindImage,
		Text:           caption,
		Image:          imageB64,
	}, nil
}

// IsImage reports whether the turn carries an image payload.
func (t *Turn) IsImage() bool {
	return t.Kind == KindImage
}

// DefaultConversationID derives the fallback conversation id for a caller.
func DefaultConversationID(callerID string) string {
	return "default-" + normalizeCaller(callerID)
}

func normalizeCaller(callerID string) string {
	if strings.TrimSpace(callerID) == "" {
		return AnonymousCaller
	}
	return callerID
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
