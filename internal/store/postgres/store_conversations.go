package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	db_models "pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateConversation inserts a new conversation for a user and returns the
// created row.
func (s *PostgresStore) CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*db_models.Conversation, error) {
	query := `
		INSERT INTO conversations (id, user_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, created_at, updated_at`

	conv := &db_models.Conversation{}
	err := s.db.QueryRow(ctx, query, uuid.New(), userID, title).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateConversation: Failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("database error creating conversation: %w", err)
	}
	return conv, nil
}

// GetConversationByID retrieves a conversation by its ID.
// Returns store.ErrNotFound if it does not exist.
func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	conv := &db_models.Conversation{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching conversation: %w", err)
	}
	return conv, nil
}

// ListConversationsByUser returns a user's conversations, most recently
// updated first.
func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("database error listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []db_models.Conversation
	for rows.Next() {
		var c db_models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning conversation: %w", err)
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// UpdateConversationTitle renames a conversation.
func (s *PostgresStore) UpdateConversationTitle(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := s.db.Exec(ctx, `UPDATE conversations SET title = $2, updated_at = NOW() WHERE id = $1`, id, title)
	if err != nil {
		log.Printf("ERROR [PostgresStore] UpdateConversationTitle: Failed for conversation %s: %v", id, err)
		return fmt.Errorf("database error updating conversation title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// TouchConversation bumps updated_at. Called when a new conversation is
// started while this one was active.
func (s *PostgresStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error touching conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and, via FK cascade, its messages.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeleteConversation: Failed for conversation %s: %v", id, err)
		return fmt.Errorf("database error deleting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
