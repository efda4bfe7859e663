// ABOUTME: Turn storage operations for SQLite
// ABOUTME: Implements the append-only conversation log and discovery queries
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/chat-relay/internal/models"
)

// TurnStore handles turn persistence. Turns are append-only: no update or
// delete path exists, and replay order is (created_at, seq).
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

// Append durably persists one turn. CreatedAt is assigned here if unset, and
// the storage-assigned seq is written back onto the turn. Any failure is
// fatal to the caller's request and must be propagated, never swallowed.
func (s *TurnStore) Append(ctx context.Context, turn *models.Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(ctx, `
		INSERT INTO turns (id, conversation_id, caller_id, role, kind, text, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, turn.TurnID, turn.ConversationID, turn.CallerID, string(turn.Role),
		string(turn.Kind), turn.Text, turn.Image, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append turn %s: %w", turn.TurnID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read turn seq: %w", err)
	}
	turn.Seq = seq

	return nil
}

// ListByConversation returns all turns for a conversation, oldest first.
// An unknown conversation id yields an empty slice, not an error.
func (s *TurnStore) ListByConversation(ctx context.Context, conversationID string) ([]*models.Turn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT seq, id, conversation_id, caller_id, role, kind, text, image, created_at
		FROM turns
		WHERE conversation_id = ?
		ORDER BY created_at ASC, seq ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	turns := []*models.Turn{}
	for rows.Next() {
		var (
			turn  models.Turn
			role  string
			kind  string
			text  sql.NullString
			image sql.NullString
		)

		err := rows.Scan(&turn.Seq, &turn.TurnID, &turn.ConversationID, &turn.CallerID,
			&role, &kind, &text, &image, &turn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}

		turn.Role = models.Role(role)
		turn.Kind = models.TurnKind(kind)
		turn.Text = text.String
		turn.Image = image.String

		turns = append(turns, &turn)
	}

	return turns, rows.Err()
}

// ListConversations returns a newest-first summary of a caller's
// conversations. A conversation's start time is its earliest turn in replay
// order. The start time is selected as a plain column via a subquery on the
// first turn; aggregating created_at loses the driver's time typing and the
// scan into time.Time fails.
func (s *TurnStore) ListConversations(ctx context.Context, callerID string) ([]*models.ConversationSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.conversation_id, t.created_at AS started_at
		FROM turns t
		WHERE t.caller_id = ?
		  AND t.seq = (
			SELECT seq FROM turns
			WHERE conversation_id = t.conversation_id AND caller_id = t.caller_id
			ORDER BY created_at ASC, seq ASC
			LIMIT 1
		  )
		ORDER BY started_at DESC
	`, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []*models.ConversationSummary{}
	for rows.Next() {
		var summary models.ConversationSummary
		if err := rows.Scan(&summary.ConversationID, &summary.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}
