package auth

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost trades hash strength against login latency on the single
// small host the backend runs on.
const passwordCost = 12

// HashPassword generates a bcrypt hash for a student's password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether password matches the stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if err != bcrypt.ErrMismatchedHashAndPassword {
			// A malformed stored hash is worth a log line; the caller still
			// sees a plain rejection.
			log.Printf("[Auth] WARN: comparing password hash: %v", err)
		}
		return false
	}
	return true
}
