package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one recorded permission denial
type AuditEntry struct {
	ID        string
	UserID    string
	Query     string
	TicketKey string
	Reason    string
	CreatedAt time.Time
}

// AuditRepository records permission denials
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// LogDenials writes one audit row per denied ticket. Reasons map
// ticket key to the denial reason code.
func (r *AuditRepository) LogDenials(ctx context.Context, userID, query string, reasons map[string]string) error {
	for key, reason := range reasons {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO access_audit (id, user_id, query, ticket_key, reason)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), userID, query, key, reason)
		if err != nil {
			return fmt.Errorf("failed to log denial: %w", err)
		}
	}
	return nil
}

// Recent returns the latest audit entries, newest first
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, query, ticket_key, reason, created_at
		FROM access_audit
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.TicketKey, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
