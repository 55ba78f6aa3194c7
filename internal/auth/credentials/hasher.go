package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"

	MinPasswordLength = 8

	// MaxPasswordBytes is bcrypt's input limit, in bytes not runes.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (hash string, version string, err error) {
	if len(password) < MinPasswordLength {
		return "", "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return "", "", ErrPasswordTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", "", err
	}

	return string(bytes), HashVersionBcrypt, nil
}
