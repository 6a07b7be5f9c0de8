package handlers

import (
	"context"

	"pnuchat-backend/internal/auth"

	"github.com/google/uuid"
)

// contextWithUser simulates what the JWT middleware injects.
func contextWithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, auth.UserIDKey, userID)
}
