// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pdiddy/paper-graph/pkg/types"
)

// AddChatMessage appends a message to the chat log.
func (s *Store) AddChatMessage(ctx context.Context, role types.Role, content string) (types.ChatMessage, error) {
	msg := types.ChatMessage{Role: role, Content: content, CreatedAt: s.now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (role, content, created_at) VALUES (?, ?, ?)`,
		string(role), content, formatTime(msg.CreatedAt),
	)
	if err != nil {
		return types.ChatMessage{}, fmt.Errorf("appending chat message: %w", err)
	}
	return msg, nil
}

// ChatHistory returns the most recent limit messages in chronological
// order. A limit of zero or less returns the full log.
func (s *Store) ChatHistory(ctx context.Context, limit int) ([]types.ChatMessage, error) {
	query := `SELECT role, content, created_at FROM chat_history ORDER BY id`
	var args []any
	if limit > 0 {
		query = `SELECT role, content, created_at FROM (
			SELECT id, role, content, created_at FROM chat_history ORDER BY id DESC LIMIT ?
		) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	messages := []types.ChatMessage{}
	for rows.Next() {
		var (
			m         types.ChatMessage
			role      string
			createdAt sql.NullString
		)
		if err := rows.Scan(&role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		m.Role = types.Role(role)
		m.CreatedAt = parseTime(createdAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ClearChatHistory deletes the whole chat log.
func (s *Store) ClearChatHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_history`); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}
