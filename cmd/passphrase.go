package cmd

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/xiunchen/passgen/internal/crypto"
)

// PassphraseEnv overrides prompting when set, mainly for scripting and tests.
const PassphraseEnv = "PASSGEN_PASSWORD"

// ReadPassphrase reads a passphrase from the terminal without echoing
func ReadPassphrase(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after passphrase

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

// ReadPassphraseConfirm reads a passphrase twice and ensures they match
func ReadPassphraseConfirm() ([]byte, error) {
	first, err := ReadPassphrase("Enter master passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(first)

	second, err := ReadPassphrase("Confirm master passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(second)

	if !crypto.ConstantTimeCompare(first, second) {
		return nil, fmt.Errorf("passphrases do not match")
	}

	result := make([]byte, len(first))
	copy(result, first)
	return result, nil
}

// GetPassphraseFromEnv reads the passphrase from PASSGEN_PASSWORD
func GetPassphraseFromEnv() []byte {
	passphrase := os.Getenv(PassphraseEnv)
	if passphrase == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(passphrase))
	copy(result, passphrase)
	return result
}
