package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema directly. The dataset is small and
// read-mostly, so there is no separate migration tooling.
func (db *DB) RunMigrations() error {
	migration := `
-- Tickets table. Labels and components are stored as JSON arrays;
-- the in-memory universe is the query surface, not this table.
CREATE TABLE IF NOT EXISTS tickets (
    key TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    type TEXT NOT NULL,
    summary TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    assignee_id TEXT,
    assignee_name TEXT,
    reporter_id TEXT,
    reporter_name TEXT,
    labels TEXT NOT NULL DEFAULT '[]',
    components TEXT NOT NULL DEFAULT '[]',
    resolution TEXT,
    sprint TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ticket_status ON tickets(status);
CREATE INDEX IF NOT EXISTS idx_ticket_priority ON tickets(priority);

-- Comments, ordered per ticket by position
CREATE TABLE IF NOT EXISTS ticket_comments (
    ticket_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    author_id TEXT NOT NULL,
    author_name TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (ticket_key, position),
    FOREIGN KEY (ticket_key) REFERENCES tickets(key)
);

-- Vocabulary of valid field values, one row per (kind, value)
CREATE TABLE IF NOT EXISTS vocabulary (
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (kind, value)
);

-- Permission denial audit trail
CREATE TABLE IF NOT EXISTS access_audit (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    query TEXT NOT NULL,
    ticket_key TEXT NOT NULL,
    reason TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_user ON access_audit(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_created ON access_audit(created_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
