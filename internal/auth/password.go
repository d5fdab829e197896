package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"epicevents.org/internal/crm"
)

// HashPassword enforces the domain strength rules and hashes the
// plaintext with bcrypt. The hash is what gets stored; the plaintext is
// never persisted or compared directly.
func HashPassword(password string) (string, error) {
	if err := crm.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with the stored hash
// using bcrypt's constant-time comparison.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
