package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLen is the bcrypt input limit; longer inputs would be truncated silently.
const MaxPasswordLen = 72

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash without truncation
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword returns the salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	return hashPasswordWithCost(password, bcrypt.DefaultCost)
}

func hashPasswordWithCost(password string, cost int) (string, error) {
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// The comparison runs in constant time. Passwords longer than MaxPasswordLen
// never match.
func CheckPassword(hash, password string) bool {
	if len(password) > MaxPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
