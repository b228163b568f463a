package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

// Configuration for PBKDF2-HMAC-SHA256 hashing. These match the parameters
// existing credential files were produced with and must not change.
const (
	PasswordIterations = 10000 // Iteration count for new records
	PasswordKeyLength  = 256   // Length of the derived key in bytes
	PasswordSaltLength = 64    // Length of the random salt in bytes (before hex)
)

var (
	// ErrPasswordMismatch is returned when the derived key does not match.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrInvalidPasswordRecord is returned when a stored record cannot be used.
	ErrInvalidPasswordRecord = errors.New("invalid password record")
)

// PasswordRecord is the at-rest form of a hashed password. Salt and Hash are
// hex encoded.
type PasswordRecord struct {
	Salt       string `json:"salt"`
	Hash       string `json:"hash"`
	Iterations int    `json:"iterations"`
}

// Validate checks that the record has every field required for verification.
func (r PasswordRecord) Validate() error {
	if r.Salt == "" {
		return fmt.Errorf("%w: empty salt", ErrInvalidPasswordRecord)
	}
	if r.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidPasswordRecord)
	}
	hash, err := hex.DecodeString(r.Hash)
	if err != nil {
		return fmt.Errorf("%w: hash is not hex: %w", ErrInvalidPasswordRecord, err)
	}
	if len(hash) != PasswordKeyLength {
		return fmt.Errorf("%w: hash is %d bytes, want %d", ErrInvalidPasswordRecord, len(hash), PasswordKeyLength)
	}
	return nil
}

// HashPassword generates a fresh salt and derives a PasswordRecord for the
// given password.
func HashPassword(password string) (PasswordRecord, error) {
	salt := make([]byte, PasswordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return PasswordRecord{}, err
	}
	saltHex := hex.EncodeToString(salt)

	key := derive(password, saltHex, PasswordIterations, PasswordKeyLength)

	return PasswordRecord{
		Salt:       saltHex,
		Hash:       hex.EncodeToString(key),
		Iterations: PasswordIterations,
	}, nil
}

// VerifyPassword compares a plaintext password against a stored record.
// Records whose hash is not exactly PasswordKeyLength bytes are rejected.
func VerifyPassword(password string, record PasswordRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	expected, _ := hex.DecodeString(record.Hash) // validated above

	computed := derive(password, record.Salt, record.Iterations, PasswordKeyLength)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// derive runs PBKDF2-HMAC-SHA256. The salt is fed in its hex-encoded form, not
// the decoded bytes.
func derive(password, salt string, iterations, keyLength int) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
}

func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 16
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
