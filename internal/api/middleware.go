package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"pnuchat-backend/internal/auth"
	"pnuchat-backend/pkg/httputil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleLookup resolves the role of a user. Implemented by the auth service.
type RoleLookup interface {
	Role(ctx context.Context, userID uuid.UUID) string
}

// --- JWT Middleware ---

// JwtAuthMiddleware verifies the JWT token from the Authorization header.
// If valid, it injects the UserID into the request context.
func JwtAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Println("Auth Middleware: Missing Authorization header")
				httputil.RespondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			userID, err := parseBearerToken(authHeader, jwtSecret)
			if err != nil {
				log.Printf("Auth Middleware: %v", err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					httputil.RespondError(w, http.StatusUnauthorized, "Token has expired")
				} else {
					httputil.RespondError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJwtMiddleware injects the UserID when a valid bearer token is
// present and otherwise lets the request through anonymously. Used on the
// public relay endpoint, where signed-in callers get usage accounting.
func OptionalJwtMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := parseBearerToken(authHeader, jwtSecret)
			if err != nil {
				log.Printf("Auth Middleware: Ignoring invalid optional token: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose role is not admin. Must run after
// JwtAuthMiddleware. The resolved role is injected into the context.
func RequireAdmin(roles RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserIDFromContext(r.Context())
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			role := roles.Role(r.Context(), userID)
			if role != "admin" {
				httputil.RespondError(w, http.StatusForbidden, "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), auth.RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseBearerToken validates a bearer Authorization header and returns the
// user ID from its claims.
func parseBearerToken(authHeader, jwtSecret string) (uuid.UUID, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return uuid.Nil, fmt.Errorf("malformed Authorization header")
	}

	claims := &auth.CustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("error parsing token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is present but invalid")
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, errors.New("missing UserID in valid token claims")
	}
	return claims.UserID, nil
}
