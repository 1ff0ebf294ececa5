package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiunchen/passgen/internal/container"
	"github.com/xiunchen/passgen/internal/crypto"
)

const (
	VaultFile      = ".passgen.db"
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrNotInitialized     = errors.New("passgen not initialized")
	ErrAlreadyInitialized = errors.New("vault already exists")
	ErrWrongPassphrase    = errors.New("wrong passphrase")
	ErrDecryptionFailed   = errors.New("decryption failed: vault may be corrupted or tampered with")
)

// Engine owns a single vault container file and performs every operation
// as a synchronous read-modify-write of the whole file. One process at a
// time is assumed; there is no file locking.
type Engine struct {
	path string
}

// New creates an engine for the vault at path.
func New(path string) *Engine {
	return &Engine{path: path}
}

// DefaultPath returns the vault location in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, VaultFile), nil
}

// Path returns the vault file path.
func (e *Engine) Path() string {
	return e.path
}

// IsInitialized reports whether the vault file exists and starts with the
// PGv2 magic tag. Only the first few bytes are read.
func (e *Engine) IsInitialized() bool {
	f, err := os.Open(e.path)
	if err != nil {
		return false
	}
	defer f.Close()

	magic := make([]byte, container.MagicSize)
	if _, err := f.Read(magic); err != nil {
		return false
	}
	return container.HasMagic(magic)
}

// Initialize creates a new vault protected by the given passphrase. Fails
// with ErrAlreadyInitialized if a vault already exists at the path.
func (e *Engine) Initialize(passphrase []byte) error {
	if e.IsInitialized() {
		return ErrAlreadyInitialized
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, DirPermSecure); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	return e.writeCollection(NewCollection(), passphrase, nil)
}

// VerifyMasterPassphrase checks a candidate passphrase against the stored
// verification hash. Only the header is read; the ciphertext is never
// touched, so the cost is independent of vault size. No side effects.
func (e *Engine) VerifyMasterPassphrase(candidate []byte) (bool, error) {
	data, err := e.readContainer()
	if err != nil {
		return false, err
	}
	hdr, err := container.DecodeHeader(data)
	if err != nil {
		return false, err
	}
	return crypto.CheckPassphrase(candidate, hdr.VerifySalt, hdr.VerifyHash), nil
}

// Load decrypts the vault and returns the record collection. The passphrase
// is checked against the verify hash before any decryption work, so a wrong
// passphrase fails fast with ErrWrongPassphrase. An AEAD failure after a
// successful check means corruption or tampering and surfaces as
// ErrDecryptionFailed.
func (e *Engine) Load(passphrase []byte) (*Collection, error) {
	data, err := e.readContainer()
	if err != nil {
		return nil, err
	}
	hdr, ciphertext, err := container.Decode(data)
	if err != nil {
		return nil, err
	}

	if !crypto.CheckPassphrase(passphrase, hdr.VerifySalt, hdr.VerifyHash) {
		return nil, ErrWrongPassphrase
	}

	key := crypto.DeriveKey(passphrase, hdr.EncryptSalt)
	defer crypto.ClearBytes(key)

	plaintext, err := crypto.Open(key, hdr.Nonce, ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer crypto.ClearBytes(plaintext)

	var collection Collection
	if err := json.Unmarshal(plaintext, &collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return &collection, nil
}

// Save re-encrypts the collection and rewrites the whole container. The
// salts and verify hash are kept from the existing file (only
// ChangePassphrase rotates them); the nonce is always fresh. The passphrase
// is verified first so a wrong one cannot produce a vault whose verify hash
// and encryption key disagree.
func (e *Engine) Save(c *Collection, passphrase []byte) error {
	data, err := e.readContainer()
	if err != nil {
		return err
	}
	hdr, err := container.DecodeHeader(data)
	if err != nil {
		return err
	}
	if !crypto.CheckPassphrase(passphrase, hdr.VerifySalt, hdr.VerifyHash) {
		return ErrWrongPassphrase
	}
	return e.writeCollection(c, passphrase, hdr)
}

// ChangePassphrase re-keys the vault: it verifies and loads with the
// current passphrase, regenerates both salts, the verify hash and the
// nonce, and re-encrypts under the new passphrase. The new container is
// fully buffered before the old file is replaced, so any failure leaves
// the original untouched.
func (e *Engine) ChangePassphrase(current, newPassphrase []byte) error {
	collection, err := e.Load(current)
	if err != nil {
		return err
	}
	return e.writeCollection(collection, newPassphrase, nil)
}

// RecoverFromFile replaces the local vault with an external container
// file, typically a backup copied from another device. The external file's
// magic and passphrase are verified before anything is overwritten, so a
// wrong passphrase or a foreign file can never destroy the local vault.
func (e *Engine) RecoverFromFile(externalPath string, passphrase []byte) error {
	data, err := os.ReadFile(externalPath)
	if err != nil {
		return fmt.Errorf("cannot read recovery file: %w", err)
	}
	hdr, err := container.DecodeHeader(data)
	if err != nil {
		return err
	}
	if !crypto.CheckPassphrase(passphrase, hdr.VerifySalt, hdr.VerifyHash) {
		return ErrWrongPassphrase
	}
	return e.writeFileAtomic(data)
}

// Export returns the full decrypted collection for backup purposes.
func (e *Engine) Export(passphrase []byte) (*Collection, error) {
	return e.Load(passphrase)
}

// Import replaces the whole record set with the given collection.
func (e *Engine) Import(c *Collection, passphrase []byte) error {
	if c == nil || c.Entries == nil {
		return &ValidationError{Field: "entries", Reason: "must be a list"}
	}
	if c.Version == "" {
		c.Version = CollectionVersion
	}
	return e.Save(c, passphrase)
}

// writeCollection serializes, encrypts and writes the collection. When hdr
// is nil a fresh header is generated (initialize, change-passphrase);
// otherwise the existing salts and verify hash are reused with a fresh
// nonce.
func (e *Engine) writeCollection(c *Collection, passphrase []byte, hdr *container.Header) error {
	nonce, err := crypto.NewNonce()
	if err != nil {
		return err
	}

	if hdr == nil {
		verifySalt, err := crypto.NewSalt()
		if err != nil {
			return err
		}
		encryptSalt, err := crypto.NewSalt()
		if err != nil {
			return err
		}
		hdr = &container.Header{
			VerifySalt:  verifySalt,
			VerifyHash:  crypto.VerifyHash(passphrase, verifySalt),
			EncryptSalt: encryptSalt,
		}
	}
	hdr.Nonce = nonce

	plaintext, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize records: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	key := crypto.DeriveKey(passphrase, hdr.EncryptSalt)
	defer crypto.ClearBytes(key)

	ciphertext, err := crypto.Seal(key, nonce, plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt records: %w", err)
	}

	data, err := container.Encode(hdr, ciphertext)
	if err != nil {
		return err
	}
	return e.writeFileAtomic(data)
}

// writeFileAtomic writes the container to a temp file in the same
// directory and renames it over the vault path, so a crash mid-write
// leaves either the old or the new container, never a truncated one.
func (e *Engine) writeFileAtomic(data []byte) error {
	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, ".passgen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write vault: %w", err)
	}
	if err := tmp.Chmod(FilePermSecure); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set vault permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, e.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace vault: %w", err)
	}
	return nil
}

func (e *Engine) readContainer() ([]byte, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("cannot read vault: %w", err)
	}
	return data, nil
}
