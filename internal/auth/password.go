package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 12

var ErrPasswordMismatch = errors.New("password mismatch")

func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func CheckPassword(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
