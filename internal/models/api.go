package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChatRequestMessage is one history entry as sent by the streaming client.
type ChatRequestMessage struct {
	Role     MessageRole `json:"role"`
	Content  string      `json:"content"`
	ImageURL *string     `json:"image_url,omitempty"`
}

// ChatRequest is the body of the streaming relay endpoint.
type ChatRequest struct {
	Messages []ChatRequestMessage `json:"messages"`
	UserID   *uuid.UUID           `json:"userId,omitempty"`
}

// CompleteResponse is the body of the non-streaming completion endpoint.
type CompleteResponse struct {
	Message string `json:"message"`
}

// CreateConversationRequest defines the optional body for starting a new
// conversation. PriorConversationID, when set, keeps the previously active
// conversation at the top of the sidebar ordering.
type CreateConversationRequest struct {
	PriorConversationID *uuid.UUID `json:"prior_conversation_id,omitempty"`
}

// CreateMessageRequest defines the body for persisting a message.
type CreateMessageRequest struct {
	Role     MessageRole `json:"role"`
	Content  string      `json:"content"`
	ImageURL *string     `json:"image_url,omitempty"`
	FileURL  *string     `json:"file_url,omitempty"`
}

// UpdateMessageRequest defines the body for editing a message's content.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// UpdateConversationRequest defines the body for renaming a conversation.
type UpdateConversationRequest struct {
	Title string `json:"title"`
}

// CreateMaterialRequest defines the body for registering an uploaded material.
type CreateMaterialRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	FilePath    string `json:"file_path"`
}

// UpsertAdRequest defines the body for creating or updating an ad.
type UpsertAdRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
	LinkURL  *string `json:"link_url,omitempty"`
	Position string  `json:"position"`
	IsActive bool    `json:"is_active"`
}

// UpsertNewsRequest defines the body for creating or updating a news item.
type UpsertNewsRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsPublished bool    `json:"is_published"`
}

// CreateContentRequestRequest defines the body for submitting a content
// request (a missing book, summary, sample exam, or video).
type CreateContentRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ReviewContentRequestRequest defines the body for an admin decision on a
// content request.
type ReviewContentRequestRequest struct {
	Status        string  `json:"status"`
	AdminResponse *string `json:"admin_response,omitempty"`
}

// UpdateSettingRequest defines the body for changing a system setting's value.
type UpdateSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// SetRoleRequest defines the body for granting a role to a user.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is one persisted message as returned by the API.
type MessageResponse struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	ImageURL       *string     `json:"image_url,omitempty"`
	FileURL        *string     `json:"file_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ConversationResponse is one conversation as returned by the API.
type ConversationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaterialResponse is one material with its resolved public download URL.
type MaterialResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContentRequestResponse is one content request as returned by the API.
// FullName is the submitter's display name, joined in for the admin listing.
type ContentRequestResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	FullName      string    `json:"full_name,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	AdminResponse *string   `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AdminUserResponse is one user row in the admin user listing, enriched
// with profile and role data.
type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LimitsResponse reports the caller's remaining daily AI messages.
type LimitsResponse struct {
	RemainingMessages int  `json:"remaining_messages"`
	IsAdmin           bool `json:"is_admin"`
}
