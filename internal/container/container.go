package container

import (
	"errors"
	"fmt"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Magic identifies the PGv2 vault container format. Every container file
// starts with these four bytes.
var Magic = [MagicSize]byte{'P', 'G', 'v', '2'}

const (
	MagicSize = 4

	// HeaderSize is the fixed byte length of the container header:
	// magic(4) + verifySalt(32) + verifyHash(32) + encryptSalt(32) + nonce(12).
	HeaderSize = MagicSize + crypto.SaltSize + crypto.KeySize + crypto.SaltSize + crypto.NonceSize
)

var ErrFormat = errors.New("invalid container format")

// Header holds the unencrypted fixed-size portion of a vault container.
// All fields are opaque byte strings; nothing is interpreted as an integer.
type Header struct {
	VerifySalt  []byte // salt for the passphrase verification hash
	VerifyHash  []byte // derived check value for fast passphrase verification
	EncryptSalt []byte // salt for the bulk encryption key, distinct from VerifySalt
	Nonce       []byte // GCM nonce, fresh on every save
}

func (h *Header) validate() error {
	if len(h.VerifySalt) != crypto.SaltSize {
		return fmt.Errorf("verify salt must be %d bytes, got %d", crypto.SaltSize, len(h.VerifySalt))
	}
	if len(h.VerifyHash) != crypto.KeySize {
		return fmt.Errorf("verify hash must be %d bytes, got %d", crypto.KeySize, len(h.VerifyHash))
	}
	if len(h.EncryptSalt) != crypto.SaltSize {
		return fmt.Errorf("encrypt salt must be %d bytes, got %d", crypto.SaltSize, len(h.EncryptSalt))
	}
	if len(h.Nonce) != crypto.NonceSize {
		return fmt.Errorf("nonce must be %d bytes, got %d", crypto.NonceSize, len(h.Nonce))
	}
	return nil
}

// Encode serializes the header and ciphertext into the on-disk layout:
// fields concatenated in fixed order with no delimiters. All fields are
// fixed-size except the trailing ciphertext, so the layout parses in one
// pass.
func Encode(h *Header, ciphertext []byte) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, HeaderSize+len(ciphertext))
	out = append(out, Magic[:]...)
	out = append(out, h.VerifySalt...)
	out = append(out, h.VerifyHash...)
	out = append(out, h.EncryptSalt...)
	out = append(out, h.Nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decode parses a container file. It validates the total length and magic
// tag before interpreting any other field; truncated or foreign input
// yields ErrFormat, never a panic. The returned slices are copies, safe to
// hold after the input buffer is reused.
func Decode(data []byte) (*Header, []byte, error) {
	if len(data) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: file too short (%d bytes, need at least %d)", ErrFormat, len(data), HeaderSize)
	}
	if !HasMagic(data) {
		return nil, nil, fmt.Errorf("%w: bad magic tag", ErrFormat)
	}

	off := MagicSize
	next := func(n int) []byte {
		field := append([]byte(nil), data[off:off+n]...)
		off += n
		return field
	}

	h := &Header{
		VerifySalt:  next(crypto.SaltSize),
		VerifyHash:  next(crypto.KeySize),
		EncryptSalt: next(crypto.SaltSize),
		Nonce:       next(crypto.NonceSize),
	}
	ciphertext := append([]byte(nil), data[off:]...)
	return h, ciphertext, nil
}

// DecodeHeader parses only the fixed-size header. Passphrase verification
// reads just this much, so checking a passphrase costs O(HeaderSize)
// regardless of vault size.
func DecodeHeader(data []byte) (*Header, error) {
	h, _, err := Decode(data)
	return h, err
}

// HasMagic reports whether data begins with the PGv2 magic tag.
func HasMagic(data []byte) bool {
	if len(data) < MagicSize {
		return false
	}
	for i := range Magic {
		if data[i] != Magic[i] {
			return false
		}
	}
	return true
}
