// Package auth decides how passwords are stored and compared.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptPassword is the longest password bcrypt can hash, in bytes.
const MaxBcryptPassword = 72

var ErrPasswordTooLong = errors.New("password too long")

// Hasher turns a password into its stored form and checks a candidate
// against a stored value.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// Plain stores passwords verbatim and compares them by equality.
type Plain struct{}

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Compare(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	if len(password) > MaxBcryptPassword {
		return "", fmt.Errorf("%w: at most %d bytes", ErrPasswordTooLong, MaxBcryptPassword)
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewHasher maps a config value ("plain" or "bcrypt") to a Hasher.
func NewHasher(mode string) (Hasher, error) {
	switch mode {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing mode %q", mode)
	}
}
