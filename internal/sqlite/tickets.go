package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// TicketRepository persists the ticket dataset in SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Insert stores a ticket and its comments
func (r *TicketRepository) Insert(ctx context.Context, t *ticket.Ticket) error {
	labels, err := json.Marshal(t.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	components, err := json.Marshal(t.Components)
	if err != nil {
		return fmt.Errorf("failed to encode components: %w", err)
	}

	var assigneeID, assigneeName, reporterID, reporterName *string
	if t.Assignee != nil {
		assigneeID, assigneeName = &t.Assignee.AccountID, &t.Assignee.DisplayName
	}
	if t.Reporter != nil {
		reporterID, reporterName = &t.Reporter.AccountID, &t.Reporter.DisplayName
	}

	query := `
		INSERT INTO tickets (
			key, status, priority, type, summary, description,
			assignee_id, assignee_name, reporter_id, reporter_name,
			labels, components, resolution, sprint, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		t.Key,
		t.Status,
		t.Priority,
		t.Type,
		t.Summary,
		t.Description,
		assigneeID,
		assigneeName,
		reporterID,
		reporterName,
		string(labels),
		string(components),
		t.Resolution,
		t.Sprint,
		t.Created,
		t.Updated,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ticket.ErrDuplicateKey, t.Key)
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	for i, c := range t.Comments {
		var authorID, authorName string
		if c.Author != nil {
			authorID, authorName = c.Author.AccountID, c.Author.DisplayName
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO ticket_comments (ticket_key, position, author_id, author_name, body, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, t.Key, i, authorID, authorName, c.Body, c.Created)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
	}

	return nil
}

// LoadAll reads the full ticket dataset in insertion order
func (r *TicketRepository) LoadAll(ctx context.Context) ([]*ticket.Ticket, error) {
	query := `
		SELECT
			key, status, priority, type, summary, description,
			assignee_id, assignee_name, reporter_id, reporter_name,
			labels, components, resolution, sprint, created_at, updated_at
		FROM tickets
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		var assigneeID, assigneeName, reporterID, reporterName *string
		var labels, components string

		err := rows.Scan(
			&t.Key,
			&t.Status,
			&t.Priority,
			&t.Type,
			&t.Summary,
			&t.Description,
			&assigneeID,
			&assigneeName,
			&reporterID,
			&reporterName,
			&labels,
			&components,
			&t.Resolution,
			&t.Sprint,
			&t.Created,
			&t.Updated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}

		if assigneeID != nil {
			t.Assignee = &ticket.Person{AccountID: *assigneeID, DisplayName: *assigneeName}
		}
		if reporterID != nil {
			t.Reporter = &ticket.Person{AccountID: *reporterID, DisplayName: *reporterName}
		}
		if err := json.Unmarshal([]byte(labels), &t.Labels); err != nil {
			return nil, fmt.Errorf("failed to decode labels for %s: %w", t.Key, err)
		}
		if err := json.Unmarshal([]byte(components), &t.Components); err != nil {
			return nil, fmt.Errorf("failed to decode components for %s: %w", t.Key, err)
		}

		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	for _, t := range tickets {
		comments, err := r.loadComments(ctx, t.Key)
		if err != nil {
			return nil, err
		}
		t.Comments = comments
	}

	return tickets, nil
}

func (r *TicketRepository) loadComments(ctx context.Context, key string) ([]ticket.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT author_id, author_name, body, created_at
		FROM ticket_comments
		WHERE ticket_key = ?
		ORDER BY position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for %s: %w", key, err)
	}
	defer rows.Close()

	var comments []ticket.Comment
	for rows.Next() {
		var c ticket.Comment
		var author ticket.Person
		if err := rows.Scan(&author.AccountID, &author.DisplayName, &c.Body, &c.Created); err != nil {
			return nil, fmt.Errorf("failed to scan comment for %s: %w", key, err)
		}
		if author.AccountID != "" || author.DisplayName != "" {
			c.Author = &author
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Count returns the number of stored tickets
func (r *TicketRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return n, nil
}

// SaveVocabulary replaces the stored vocabulary
func (r *TicketRepository) SaveVocabulary(ctx context.Context, v ticket.Vocabulary) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM vocabulary"); err != nil {
		return fmt.Errorf("failed to clear vocabulary: %w", err)
	}
	insert := func(kind string, values []string) error {
		for i, value := range values {
			_, err := r.db.ExecContext(ctx,
				"INSERT INTO vocabulary (kind, value, position) VALUES (?, ?, ?)",
				kind, value, i)
			if err != nil {
				return fmt.Errorf("failed to save vocabulary: %w", err)
			}
		}
		return nil
	}

	statuses := make([]string, len(v.Statuses))
	for i, s := range v.Statuses {
		statuses[i] = string(s)
	}
	priorities := make([]string, len(v.Priorities))
	for i, p := range v.Priorities {
		priorities[i] = string(p)
	}
	types := make([]string, len(v.Types))
	for i, t := range v.Types {
		types[i] = string(t)
	}

	if err := insert("status", statuses); err != nil {
		return err
	}
	if err := insert("priority", priorities); err != nil {
		return err
	}
	if err := insert("type", types); err != nil {
		return err
	}
	return insert("project", v.Projects)
}

// LoadVocabulary reads the stored vocabulary, preserving value order
func (r *TicketRepository) LoadVocabulary(ctx context.Context) (ticket.Vocabulary, error) {
	var v ticket.Vocabulary
	rows, err := r.db.QueryContext(ctx,
		"SELECT kind, value FROM vocabulary ORDER BY kind, position")
	if err != nil {
		return v, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return v, fmt.Errorf("failed to scan vocabulary: %w", err)
		}
		switch kind {
		case "status":
			v.Statuses = append(v.Statuses, ticket.Status(value))
		case "priority":
			v.Priorities = append(v.Priorities, ticket.Priority(value))
		case "type":
			v.Types = append(v.Types, ticket.IssueType(value))
		case "project":
			v.Projects = append(v.Projects, value)
		}
	}
	return v, rows.Err()
}
