// ABOUTME: SQLite database schema for the conversation turn log
// ABOUTME: One append-only turns table; seq provides the total-order tiebreak
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Turns table (append-only conversation log)
CREATE TABLE IF NOT EXISTS turns (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    conversation_id TEXT NOT NULL,
    caller_id TEXT NOT NULL,
    role TEXT NOT NULL,
    kind TEXT NOT NULL,
    text TEXT,
    image TEXT,
    created_at DATETIME NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, created_at, seq);
CREATE INDEX IF NOT EXISTS idx_turns_caller ON turns(caller_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
