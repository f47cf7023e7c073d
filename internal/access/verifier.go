package access

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a supplied PIN against the configured secret.
type Verifier interface {
	Verify(pin string) bool
}

// NormalizePIN drops the separators people speak or type between digits.
func NormalizePIN(pin string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', ',', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(pin))
}

// PlainVerifier compares against a PIN held in configuration.
type PlainVerifier struct {
	pin []byte
}

func NewPlainVerifier(pin string) *PlainVerifier {
	return &PlainVerifier{pin: []byte(NormalizePIN(pin))}
}

func (v *PlainVerifier) Verify(pin string) bool {
	if len(v.pin) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(v.pin, []byte(NormalizePIN(pin))) == 1
}

// BcryptVerifier compares against a bcrypt hash of the PIN.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PIN_HASH: %w", err)
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

func (v *BcryptVerifier) Verify(pin string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(NormalizePIN(pin))) == nil
}

// NewVerifier prefers the hash when one is configured.
func NewVerifier(plain, hash string) (Verifier, error) {
	if hash != "" {
		return NewBcryptVerifier(hash)
	}
	return NewPlainVerifier(plain), nil
}
