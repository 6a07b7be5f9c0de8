package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// ErrSelfDelete is returned when an admin tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete yourself")

// UserService implements the admin user-management operations.
type UserService struct {
	store store.Store
}

// NewUserService creates a new UserService.
func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// ListUsers returns all users enriched with profile and role data,
// optionally filtered by a case-insensitive search over name, email and role.
func (s *UserService) ListUsers(ctx context.Context, searchQuery string) ([]models.AdminUserResponse, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.AdminUserResponse, 0, len(users))
	for _, u := range users {
		entry := models.AdminUserResponse{
			ID:        u.ID,
			Email:     u.Email,
			FullName:  "بدون نام",
			Role:      "user",
			CreatedAt: u.CreatedAt,
		}
		if profile, err := s.store.GetProfile(ctx, u.ID); err == nil {
			entry.FullName = profile.FullName
			entry.AvatarURL = profile.AvatarURL
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN [UserService] Profile lookup failed for user %s: %v", u.ID, err)
		}
		if role, err := s.store.GetUserRole(ctx, u.ID); err == nil {
			entry.Role = role
		}
		enriched = append(enriched, entry)
	}

	if searchQuery == "" {
		return enriched, nil
	}

	query := strings.ToLower(searchQuery)
	filtered := enriched[:0]
	for _, e := range enriched {
		if strings.Contains(strings.ToLower(e.FullName), query) ||
			strings.Contains(strings.ToLower(e.Email), query) ||
			strings.Contains(strings.ToLower(e.Role), query) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// SetRole grants a role to a user.
func (s *UserService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	if role != "admin" && role != "user" {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}
	return s.store.SetUserRole(ctx, userID, role)
}

// DeleteUser removes a user account. The calling admin cannot delete
// themselves.
func (s *UserService) DeleteUser(ctx context.Context, callerID, userID uuid.UUID) error {
	if callerID == userID {
		return ErrSelfDelete
	}
	return s.store.DeleteUser(ctx, userID)
}
