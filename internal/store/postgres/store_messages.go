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

// CreateMessage persists one message and notifies realtime subscribers of
// the conversation.
func (s *PostgresStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*db_models.Message, error) {
	query := `
		INSERT INTO messages (id, conversation_id, role, content, image_url, file_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, conversation_id, role, content, image_url, file_url, created_at`

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	msg := &db_models.Message{}
	err := s.db.QueryRow(ctx, query,
		id,
		arg.ConversationID,
		arg.Role,
		arg.Content,
		arg.ImageURL,
		arg.FileURL,
	).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.Content,
		&msg.ImageURL,
		&msg.FileURL,
		&msg.CreatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateMessage: Failed for conversation %s: %v", arg.ConversationID, err)
		return nil, fmt.Errorf("database error creating message: %w", err)
	}

	s.notifier.MessagesChanged(ctx, arg.ConversationID)
	return msg, nil
}

// GetMessageByID retrieves one message.
// Returns store.ErrNotFound if it does not exist.
func (s *PostgresStore) GetMessageByID(ctx context.Context, id uuid.UUID) (*db_models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, image_url, file_url, created_at
		FROM messages
		WHERE id = $1`

	msg := &db_models.Message{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.Content,
		&msg.ImageURL,
		&msg.FileURL,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a conversation's messages ordered by creation time
// ascending. seq is a bigserial assigned at insert, so messages sharing a
// timestamp keep insertion order; random v4 ids would not.
func (s *PostgresStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]db_models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, image_url, file_url, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC`

	rows, err := s.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("database error listing messages: %w", err)
	}
	defer rows.Close()

	var msgs []db_models.Message
	for rows.Next() {
		var m db_models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.ImageURL, &m.FileURL, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// UpdateMessageContent replaces a message's text after a user edit.
func (s *PostgresStore) UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) error {
	var conversationID uuid.UUID
	err := s.db.QueryRow(ctx,
		`UPDATE messages SET content = $2 WHERE id = $1 RETURNING conversation_id`,
		id, content,
	).Scan(&conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] UpdateMessageContent: Failed for message %s: %v", id, err)
		return fmt.Errorf("database error updating message: %w", err)
	}

	s.notifier.MessagesChanged(ctx, conversationID)
	return nil
}

// DeleteMessage removes one message.
func (s *PostgresStore) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	var conversationID uuid.UUID
	err := s.db.QueryRow(ctx,
		`DELETE FROM messages WHERE id = $1 RETURNING conversation_id`,
		id,
	).Scan(&conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] DeleteMessage: Failed for message %s: %v", id, err)
		return fmt.Errorf("database error deleting message: %w", err)
	}

	s.notifier.MessagesChanged(ctx, conversationID)
	return nil
}
