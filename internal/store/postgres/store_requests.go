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

// --- Content requests ---

// CreateRequest records a student's content request with pending status.
func (s *PostgresStore) CreateRequest(ctx context.Context, arg store.CreateRequestParams) (*db_models.Request, error) {
	query := `
		INSERT INTO requests (id, user_id, title, description, category, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, user_id, title, description, category, status, admin_response, created_at, updated_at`

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	r := &db_models.Request{}
	err := s.db.QueryRow(ctx, query, id, arg.UserID, arg.Title, arg.Description, arg.Category).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &r.Status, &r.AdminResponse, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateRequest: Failed for user %s: %v", arg.UserID, err)
		return nil, fmt.Errorf("database error creating request: %w", err)
	}
	return r, nil
}

// ListRequests returns all content requests newest first with the
// submitter's name joined in, optionally filtered by status.
func (s *PostgresStore) ListRequests(ctx context.Context, status string) ([]store.RequestWithProfile, error) {
	query := `
		SELECT r.id, r.user_id, r.title, r.description, r.category, r.status, r.admin_response, r.created_at, r.updated_at,
		       COALESCE(p.full_name, '')
		FROM requests r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC`

	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("database error listing requests: %w", err)
	}
	defer rows.Close()

	var requests []store.RequestWithProfile
	for rows.Next() {
		var r store.RequestWithProfile
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &r.Status, &r.AdminResponse, &r.CreatedAt, &r.UpdatedAt, &r.FullName); err != nil {
			return nil, fmt.Errorf("database error scanning request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// ListRequestsByUser returns one user's content requests newest first.
func (s *PostgresStore) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Request, error) {
	query := `
		SELECT id, user_id, title, description, category, status, admin_response, created_at, updated_at
		FROM requests
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("database error listing requests: %w", err)
	}
	defer rows.Close()

	var requests []db_models.Request
	for rows.Next() {
		var r db_models.Request
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &r.Status, &r.AdminResponse, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// ReviewRequest records an admin decision and bumps updated_at.
// Returns store.ErrNotFound if the request does not exist.
func (s *PostgresStore) ReviewRequest(ctx context.Context, arg store.ReviewRequestParams) (*db_models.Request, error) {
	query := `
		UPDATE requests
		SET status = $2, admin_response = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, title, description, category, status, admin_response, created_at, updated_at`

	r := &db_models.Request{}
	err := s.db.QueryRow(ctx, query, arg.ID, arg.Status, arg.AdminResponse).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Description, &r.Category, &r.Status, &r.AdminResponse, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] ReviewRequest: Failed for request %s: %v", arg.ID, err)
		return nil, fmt.Errorf("database error reviewing request: %w", err)
	}
	return r, nil
}

// DeleteRequest removes a content request.
func (s *PostgresStore) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- System settings ---

// ListSettings returns all settings grouped by category for the admin panel.
func (s *PostgresStore) ListSettings(ctx context.Context) ([]db_models.SystemSetting, error) {
	query := `
		SELECT id, key, value, description, category
		FROM system_settings
		ORDER BY category ASC, key ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error listing settings: %w", err)
	}
	defer rows.Close()

	var settings []db_models.SystemSetting
	for rows.Next() {
		var st db_models.SystemSetting
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.Category); err != nil {
			return nil, fmt.Errorf("database error scanning setting: %w", err)
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// UpdateSettingValue replaces one setting's JSON value.
// Returns store.ErrNotFound if the setting does not exist.
func (s *PostgresStore) UpdateSettingValue(ctx context.Context, id uuid.UUID, value []byte) (*db_models.SystemSetting, error) {
	query := `
		UPDATE system_settings
		SET value = $2
		WHERE id = $1
		RETURNING id, key, value, description, category`

	st := &db_models.SystemSetting{}
	err := s.db.QueryRow(ctx, query, id, value).Scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] UpdateSettingValue: Failed for setting %s: %v", id, err)
		return nil, fmt.Errorf("database error updating setting: %w", err)
	}
	return st, nil
}
