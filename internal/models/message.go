// ABOUTME: NormalizedMessage is the flat role/content unit the text backend consumes
// ABOUTME: Also holds the derived conversation summary used for listing
package models

import "time"

// NormalizedMessage is a reconstructed, backend-ready message. Content is
// always plain text; image turns are rewritten into marked descriptions
// before they reach this form.
type NormalizedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationSummary describes one conversation for discovery listings.
// StartedAt is the timestamp of the conversation's earliest turn.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	StartedAt      time.Time `json:"started_at"`
}
