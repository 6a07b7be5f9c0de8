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

// --- Materials ---

// CreateMaterial registers an uploaded material record.
func (s *PostgresStore) CreateMaterial(ctx context.Context, arg store.CreateMaterialParams) (*db_models.Material, error) {
	query := `
		INSERT INTO materials (id, title, description, category, file_path, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, category, file_path, uploaded_by, created_at`

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	m := &db_models.Material{}
	err := s.db.QueryRow(ctx, query, id, arg.Title, arg.Description, arg.Category, arg.FilePath, arg.UploadedBy).Scan(
		&m.ID, &m.Title, &m.Description, &m.Category, &m.FilePath, &m.UploadedBy, &m.CreatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateMaterial: Failed for title %q: %v", arg.Title, err)
		return nil, fmt.Errorf("database error creating material: %w", err)
	}
	return m, nil
}

// ListMaterials returns materials newest first, capped at limit.
func (s *PostgresStore) ListMaterials(ctx context.Context, limit int) ([]db_models.Material, error) {
	query := `
		SELECT id, title, description, category, file_path, uploaded_by, created_at
		FROM materials
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("database error listing materials: %w", err)
	}
	defer rows.Close()

	var materials []db_models.Material
	for rows.Next() {
		var m db_models.Material
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Category, &m.FilePath, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// DeleteMaterial removes a material record.
func (s *PostgresStore) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Ads ---

// UpsertAd creates or updates an ad.
func (s *PostgresStore) UpsertAd(ctx context.Context, arg store.UpsertAdParams) (*db_models.Ad, error) {
	query := `
		INSERT INTO ads (id, title, content, image_url, link_url, position, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			link_url = EXCLUDED.link_url,
			position = EXCLUDED.position,
			is_active = EXCLUDED.is_active
		RETURNING id, title, content, image_url, link_url, position, is_active, created_at`

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	ad := &db_models.Ad{}
	err := s.db.QueryRow(ctx, query, id, arg.Title, arg.Content, arg.ImageURL, arg.LinkURL, arg.Position, arg.IsActive).Scan(
		&ad.ID, &ad.Title, &ad.Content, &ad.ImageURL, &ad.LinkURL, &ad.Position, &ad.IsActive, &ad.CreatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] UpsertAd: Failed for title %q: %v", arg.Title, err)
		return nil, fmt.Errorf("database error upserting ad: %w", err)
	}
	return ad, nil
}

// ListAds returns ads, optionally filtered by UI position and active flag.
func (s *PostgresStore) ListAds(ctx context.Context, position string, activeOnly bool) ([]db_models.Ad, error) {
	query := `
		SELECT id, title, content, image_url, link_url, position, is_active, created_at
		FROM ads
		WHERE ($1 = '' OR position = $1)
		  AND (NOT $2 OR is_active)
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, position, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("database error listing ads: %w", err)
	}
	defer rows.Close()

	var ads []db_models.Ad
	for rows.Next() {
		var a db_models.Ad
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.LinkURL, &a.Position, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning ad: %w", err)
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

// DeleteAd removes an ad.
func (s *PostgresStore) DeleteAd(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- News ---

// UpsertNews creates or updates a news item.
func (s *PostgresStore) UpsertNews(ctx context.Context, arg store.UpsertNewsParams) (*db_models.NewsItem, error) {
	query := `
		INSERT INTO news (id, title, content, image_url, is_published)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			is_published = EXCLUDED.is_published
		RETURNING id, title, content, image_url, is_published, created_at`

	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	n := &db_models.NewsItem{}
	err := s.db.QueryRow(ctx, query, id, arg.Title, arg.Content, arg.ImageURL, arg.IsPublished).Scan(
		&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.IsPublished, &n.CreatedAt,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] UpsertNews: Failed for title %q: %v", arg.Title, err)
		return nil, fmt.Errorf("database error upserting news: %w", err)
	}
	return n, nil
}

// ListNews returns news items newest first, optionally published only.
func (s *PostgresStore) ListNews(ctx context.Context, publishedOnly bool) ([]db_models.NewsItem, error) {
	query := `
		SELECT id, title, content, image_url, is_published, created_at
		FROM news
		WHERE (NOT $1 OR is_published)
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("database error listing news: %w", err)
	}
	defer rows.Close()

	var items []db_models.NewsItem
	for rows.Next() {
		var n db_models.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.IsPublished, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning news: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// DeleteNews removes a news item.
func (s *PostgresStore) DeleteNews(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Daily limits ---

// GetDailyLimit fetches the usage row for a user.
// Returns store.ErrNotFound when the user has no row yet.
func (s *PostgresStore) GetDailyLimit(ctx context.Context, userID uuid.UUID) (*db_models.DailyLimit, error) {
	query := `
		SELECT user_id, messages_today, last_reset_date
		FROM user_daily_limits
		WHERE user_id = $1`

	l := &db_models.DailyLimit{}
	err := s.db.QueryRow(ctx, query, userID).Scan(&l.UserID, &l.MessagesToday, &l.LastResetDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching daily limit: %w", err)
	}
	return l, nil
}

// UpsertDailyLimit writes the usage row for a user.
func (s *PostgresStore) UpsertDailyLimit(ctx context.Context, limit *db_models.DailyLimit) error {
	query := `
		INSERT INTO user_daily_limits (user_id, messages_today, last_reset_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			messages_today = EXCLUDED.messages_today,
			last_reset_date = EXCLUDED.last_reset_date`

	if _, err := s.db.Exec(ctx, query, limit.UserID, limit.MessagesToday, limit.LastResetDate); err != nil {
		log.Printf("ERROR [PostgresStore] UpsertDailyLimit: Failed for user %s: %v", limit.UserID, err)
		return fmt.Errorf("database error upserting daily limit: %w", err)
	}
	return nil
}
