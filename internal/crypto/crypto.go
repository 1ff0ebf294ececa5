package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 100000 // PBKDF2 iterations, fixed for the PGv2 format
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
)

// DeriveKey derives a 32-byte AES key from a passphrase and salt using
// PBKDF2-HMAC-SHA256. Same passphrase and salt always yield the same key.
// The salt must be SaltSize bytes; anything else is a caller bug.
func DeriveKey(passphrase, salt []byte) []byte {
	if len(salt) != SaltSize {
		panic(fmt.Sprintf("crypto: salt must be %d bytes, got %d", SaltSize, len(salt)))
	}
	return pbkdf2.Key(passphrase, salt, DefaultIters, KeySize, sha256.New)
}

// VerifyHash computes the passphrase verification token from the verify salt.
// It uses the same KDF family as DeriveKey with an independently generated
// salt, so the token leaks nothing about the encryption key.
func VerifyHash(passphrase, verifySalt []byte) []byte {
	return DeriveKey(passphrase, verifySalt)
}

// CheckPassphrase recomputes the verification token and compares it against
// the stored hash in constant time.
func CheckPassphrase(candidate, verifySalt, storedHash []byte) bool {
	computed := VerifyHash(candidate, verifySalt)
	defer ClearBytes(computed)
	return ConstantTimeCompare(computed, storedHash)
}

// Seal encrypts plaintext with AES-256-GCM under the given key and nonce.
// The nonce must be fresh for every call with the same key; the caller owns
// nonce generation because the container stores it in the header.
func Seal(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Open decrypts and authenticates ciphertext produced by Seal. Tag mismatch,
// truncation and wrong key all surface as the same ErrAuthFailed to avoid
// acting as a decryption oracle.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, ErrInvalidCiphertext
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidCiphertext
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// NewSalt generates a fresh random salt
func NewSalt() ([]byte, error) {
	return GenerateRandom(SaltSize)
}

// NewNonce generates a fresh random nonce
func NewNonce() ([]byte, error) {
	return GenerateRandom(NonceSize)
}
