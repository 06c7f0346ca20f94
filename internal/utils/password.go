package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when asked to hash an empty password.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns bcrypt hash using the given cost.  Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
