package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/xiunchen/passgen/internal/container"
	"github.com/xiunchen/passgen/internal/crypto"
)

// listing renders a collection as one line per entry, "site<TAB>username",
// sorted for stable diffing. Passwords and notes are never included.
func listing(c *Collection) string {
	lines := make([]string, 0, len(c.Entries))
	for _, entry := range c.Entries {
		lines = append(lines, entry.Site+"\t"+entry.Username)
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// DiffListings returns a unified diff between the redacted entry listings
// of two collections, or "" when they match.
func DiffListings(local, external *Collection) string {
	localStr, externalStr := listing(local), listing(external)
	if localStr == externalStr {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	a, b, lineArray := dmp.DiffLinesToChars(localStr, externalStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(localStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString("--- local vault\n")
	result.WriteString("+++ recovery file\n")
	result.WriteString(dmp.PatchToText(patches))
	return result.String()
}

// RecoverPreview decrypts the external container and returns a unified diff
// of entry listings against the local vault, without modifying anything.
// When the local vault is absent or does not open with the same passphrase
// it is treated as empty, so the preview shows everything as incoming.
func (e *Engine) RecoverPreview(externalPath string, passphrase []byte) (string, error) {
	data, err := os.ReadFile(externalPath)
	if err != nil {
		return "", fmt.Errorf("cannot read recovery file: %w", err)
	}
	hdr, ciphertext, err := container.Decode(data)
	if err != nil {
		return "", err
	}
	if !crypto.CheckPassphrase(passphrase, hdr.VerifySalt, hdr.VerifyHash) {
		return "", ErrWrongPassphrase
	}

	key := crypto.DeriveKey(passphrase, hdr.EncryptSalt)
	defer crypto.ClearBytes(key)
	plaintext, err := crypto.Open(key, hdr.Nonce, ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer crypto.ClearBytes(plaintext)

	var external Collection
	if err := json.Unmarshal(plaintext, &external); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	local := NewCollection()
	if e.IsInitialized() {
		if c, err := e.Load(passphrase); err == nil {
			local = c
		}
	}
	return DiffListings(local, &external), nil
}
