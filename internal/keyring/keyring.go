// Package keyring caches an unlocked session in the OS keyring so that
// consecutive passgen commands within the session timeout skip the
// passphrase prompt. The vault file remains the sole source of truth: a
// lost or stale session only means the user is prompted again.
package keyring

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/zalando/go-keyring"

	"github.com/xiunchen/passgen/internal/crypto"
)

const (
	serviceName = "passgen"
	sessionKey  = "session"
)

type session struct {
	Token      string `json:"token"`
	Passphrase string `json:"passphrase"`
	CreatedAt  int64  `json:"created_at"`
}

// Sessions manages the cached unlock session. It is created by the CLI
// entry point and passed into command handlers explicitly.
type Sessions struct {
	timeout time.Duration
}

// NewSessions creates a session manager with the given timeout.
func NewSessions(timeout time.Duration) *Sessions {
	return &Sessions{timeout: timeout}
}

// Save caches the passphrase in the OS keyring with a fresh session token.
// Failures are returned but callers may ignore them; caching is purely a
// convenience.
func (s *Sessions) Save(passphrase []byte) error {
	token, err := crypto.GenerateRandom(16)
	if err != nil {
		return err
	}
	data, err := json.Marshal(session{
		Token:      hex.EncodeToString(token),
		Passphrase: string(passphrase),
		CreatedAt:  time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

// Get returns the cached passphrase if a session exists and has not timed
// out. Expired sessions are deleted. The second return value reports
// whether a usable session was found.
func (s *Sessions) Get() ([]byte, bool) {
	raw, err := keyring.Get(serviceName, sessionKey)
	if err != nil {
		return nil, false
	}
	var sess session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		_ = keyring.Delete(serviceName, sessionKey)
		return nil, false
	}
	if time.Since(time.Unix(sess.CreatedAt, 0)) >= s.timeout {
		_ = keyring.Delete(serviceName, sessionKey)
		return nil, false
	}
	return []byte(sess.Passphrase), true
}

// Clear removes the cached session from the OS keyring.
func (s *Sessions) Clear() error {
	err := keyring.Delete(serviceName, sessionKey)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// Active reports whether a usable session is cached.
func (s *Sessions) Active() bool {
	pass, ok := s.Get()
	if ok {
		crypto.ClearBytes(pass)
	}
	return ok
}
