package store

import (
	"context"
	"errors"

	db_models "pnuchat-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateMessageParams contains parameters for persisting a message.
type CreateMessageParams struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Role           db_models.MessageRole
	Content        string
	ImageURL       *string
	FileURL        *string
}

// CreateMaterialParams contains parameters for registering a material.
type CreateMaterialParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	Category    string
	FilePath    string
	UploadedBy  uuid.UUID
}

// UpsertAdParams contains parameters for creating or updating an ad.
type UpsertAdParams struct {
	ID       uuid.UUID
	Title    string
	Content  string
	ImageURL *string
	LinkURL  *string
	Position string
	IsActive bool
}

// UpsertNewsParams contains parameters for creating or updating a news item.
type UpsertNewsParams struct {
	ID          uuid.UUID
	Title       string
	Content     string
	ImageURL    *string
	IsPublished bool
}

// CreateRequestParams contains parameters for submitting a content request.
type CreateRequestParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Category    string
}

// ReviewRequestParams contains parameters for an admin decision on a
// content request.
type ReviewRequestParams struct {
	ID            uuid.UUID
	Status        string
	AdminResponse *string
}

// RequestWithProfile joins a content request with its submitter's display
// name for the admin listing.
type RequestWithProfile struct {
	db_models.Request
	FullName string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*db_models.User, error)
	CreateUser(ctx context.Context, user *db_models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]db_models.User, error)

	// Profile operations
	CreateProfile(ctx context.Context, profile *db_models.Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*db_models.Profile, error)

	// Role operations
	GetUserRole(ctx context.Context, userID uuid.UUID) (string, error)
	SetUserRole(ctx context.Context, userID uuid.UUID, role string) error

	// Conversation operations
	CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*db_models.Conversation, error)
	GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id uuid.UUID, title string) error
	TouchConversation(ctx context.Context, id uuid.UUID) error
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	// Message operations
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*db_models.Message, error)
	GetMessageByID(ctx context.Context, id uuid.UUID) (*db_models.Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]db_models.Message, error)
	UpdateMessageContent(ctx context.Context, id uuid.UUID, content string) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error

	// Material operations
	CreateMaterial(ctx context.Context, arg CreateMaterialParams) (*db_models.Material, error)
	ListMaterials(ctx context.Context, limit int) ([]db_models.Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error

	// Ad operations
	UpsertAd(ctx context.Context, arg UpsertAdParams) (*db_models.Ad, error)
	ListAds(ctx context.Context, position string, activeOnly bool) ([]db_models.Ad, error)
	DeleteAd(ctx context.Context, id uuid.UUID) error

	// News operations
	UpsertNews(ctx context.Context, arg UpsertNewsParams) (*db_models.NewsItem, error)
	ListNews(ctx context.Context, publishedOnly bool) ([]db_models.NewsItem, error)
	DeleteNews(ctx context.Context, id uuid.UUID) error

	// Content request operations
	CreateRequest(ctx context.Context, arg CreateRequestParams) (*db_models.Request, error)
	ListRequests(ctx context.Context, status string) ([]RequestWithProfile, error)
	ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Request, error)
	ReviewRequest(ctx context.Context, arg ReviewRequestParams) (*db_models.Request, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error

	// System setting operations
	ListSettings(ctx context.Context) ([]db_models.SystemSetting, error)
	UpdateSettingValue(ctx context.Context, id uuid.UUID, value []byte) (*db_models.SystemSetting, error)

	// Daily limit operations
	GetDailyLimit(ctx context.Context, userID uuid.UUID) (*db_models.DailyLimit, error)
	UpsertDailyLimit(ctx context.Context, limit *db_models.DailyLimit) error
}
