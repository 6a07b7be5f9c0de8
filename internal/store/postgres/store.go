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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db       *pgxpool.Pool
	notifier store.Notifier
}

// NewPostgresStore creates a store backed by the given pool. Message writes
// are reported to the notifier so realtime subscribers can re-fetch.
func NewPostgresStore(db *pgxpool.Pool, notifier store.Notifier) *PostgresStore {
	if notifier == nil {
		notifier = store.NopNotifier{}
	}
	return &PostgresStore{db: db, notifier: notifier}
}

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*db_models.User, error) {
	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM users
		WHERE email = $1`

	user := &db_models.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByEmail: Failed to query/scan user for email %s: %v", email, err)
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}

	return user, nil
}

// CreateUser inserts a new user record into the database.
func (s *PostgresStore) CreateUser(ctx context.Context, user *db_models.User) error {
	query := `
		INSERT INTO users (id, email, hashed_password)
		VALUES ($1, $2, $3)`
	// created_at and updated_at have database defaults (NOW())

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is unique_violation (duplicate email)
			log.Printf("ERROR [PostgresStore] CreateUser: PostgreSQL error for email %s: Code=%s, Message=%s", user.Email, pgErr.Code, pgErr.Message)
		} else {
			log.Printf("ERROR [PostgresStore] CreateUser: Failed to execute insert for email %s: %v", user.Email, err)
		}
		return fmt.Errorf("database error creating user: %w", err)
	}

	return nil
}

// DeleteUser removes a user and, via FK cascades, their profile, role,
// conversations and limits.
func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeleteUser: Failed for user %s: %v", id, err)
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListUsers returns all users, newest first.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]db_models.User, error) {
	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	var users []db_models.User
	for rows.Next() {
		var u db_models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateProfile inserts a profile row for a user.
func (s *PostgresStore) CreateProfile(ctx context.Context, profile *db_models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, avatar_url)
		VALUES ($1, $2, $3)`

	_, err := s.db.Exec(ctx, query, profile.ID, profile.FullName, profile.AvatarURL)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateProfile: Failed for user %s: %v", profile.ID, err)
		return fmt.Errorf("database error creating profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile for a user.
// Returns store.ErrNotFound if no profile row exists.
func (s *PostgresStore) GetProfile(ctx context.Context, userID uuid.UUID) (*db_models.Profile, error) {
	query := `
		SELECT id, full_name, avatar_url, created_at
		FROM profiles
		WHERE id = $1`

	p := &db_models.Profile{}
	err := s.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}
	return p, nil
}

// GetUserRole returns the role granted to a user, or store.ErrNotFound when
// no role row exists (plain users have no row).
func (s *PostgresStore) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var role string
	err := s.db.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("database error fetching user role: %w", err)
	}
	return role, nil
}

// SetUserRole grants a role to a user, replacing any existing grant.
func (s *PostgresStore) SetUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`

	if _, err := s.db.Exec(ctx, query, userID, role); err != nil {
		log.Printf("ERROR [PostgresStore] SetUserRole: Failed for user %s role %s: %v", userID, role, err)
		return fmt.Errorf("database error setting user role: %w", err)
	}
	return nil
}
