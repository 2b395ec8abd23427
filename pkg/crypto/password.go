package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
	cost                       = DefaultCost
)

// SetCost overrides the bcrypt cost. Values outside bcrypt's range are clamped.
func SetCost(c int) {
	switch {
	case c < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case c > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	default:
		cost = c
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcryptGenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a random token of specified length
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GeneratePaymentReference returns a reference like "AGR-1A2B3C4D5E6F"
func GeneratePaymentReference() (string, error) {
	tok, err := GenerateRandomToken(6)
	if err != nil {
		return "", err
	}
	return "AGR-" + strings.ToUpper(tok), nil
}
