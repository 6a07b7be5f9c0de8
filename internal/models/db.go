package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageRole distinguishes who authored a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Profile holds display information for a user, kept separate from the
// auth record the way the original schema does.
type Profile struct {
	ID        uuid.UUID `db:"id"` // same as user id
	FullName  string    `db:"full_name"`
	AvatarURL *string   `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
}

// Conversation groups an ordered list of messages for one user.
type Conversation struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message is one persisted chat turn. ImageURL and FileURL are optional
// attachments resolved against the object store.
type Message struct {
	ID             uuid.UUID   `db:"id"`
	ConversationID uuid.UUID   `db:"conversation_id"`
	Role           MessageRole `db:"role"`
	Content        string      `db:"content"`
	ImageURL       *string     `db:"image_url"`
	FileURL        *string     `db:"file_url"`
	CreatedAt      time.Time   `db:"created_at"`
}

// Material is a downloadable educational resource. FilePath is the object
// store key; the public URL is resolved from it on read.
type Material struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	FilePath    string    `db:"file_path"`
	UploadedBy  uuid.UUID `db:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at"`
}

// Ad is a banner shown at a fixed position in the chat UI.
type Ad struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	ImageURL  *string   `db:"image_url"`
	LinkURL   *string   `db:"link_url"`
	Position  string    `db:"position"` // chat_top / chat_bottom
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// NewsItem is an announcement shown on the news page.
type NewsItem struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	ImageURL    *string   `db:"image_url"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
}

// Request is a student's ask for new study content (a book, summary, sample
// exam, or video). Admins review it and may attach a response when approving
// or rejecting.
type Request struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Category      string    `db:"category"` // book / summary / sample / video / other
	Status        string    `db:"status"`   // pending / approved / rejected
	AdminResponse *string   `db:"admin_response"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// SystemSetting is one admin-editable configuration row. Value is free-form
// JSON so booleans, numbers, and strings all fit in a single column.
type SystemSetting struct {
	ID          uuid.UUID       `db:"id"`
	Key         string          `db:"key"`
	Value       json.RawMessage `db:"value"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
}

// DailyLimit tracks per-user AI message usage for the current day.
type DailyLimit struct {
	UserID        uuid.UUID `db:"user_id"`
	MessagesToday int       `db:"messages_today"`
	LastResetDate string    `db:"last_reset_date"` // YYYY-MM-DD
}
