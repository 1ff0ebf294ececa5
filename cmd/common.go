package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xiunchen/passgen/internal/config"
	"github.com/xiunchen/passgen/internal/container"
	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/keyring"
	"github.com/xiunchen/passgen/internal/vault"
)

// App bundles everything a command handler needs: the storage engine, the
// loaded configuration and the keyring session cache. It is constructed
// once per invocation and passed into handlers explicitly.
type App struct {
	Engine   *vault.Engine
	Config   config.Config
	ConfPath string
	Sessions *keyring.Sessions
}

// NewApp loads the configuration and wires up the engine and session cache.
func NewApp() (*App, error) {
	confPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s, using defaults\n", err)
	}

	vaultPath := cfg.StoragePath
	if vaultPath == "" {
		vaultPath, err = vault.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return &App{
		Engine:   vault.New(vaultPath),
		Config:   cfg,
		ConfPath: confPath,
		Sessions: keyring.NewSessions(time.Duration(cfg.SessionTimeoutSeconds) * time.Second),
	}, nil
}

// GetPassphrase obtains the master passphrase without verifying it:
// environment variable first, then the cached session, then a prompt.
// The caller must crypto.ClearBytes the result.
func (a *App) GetPassphrase(prompt string) ([]byte, error) {
	if passphrase := GetPassphraseFromEnv(); passphrase != nil {
		return passphrase, nil
	}
	if passphrase, ok := a.Sessions.Get(); ok {
		return passphrase, nil
	}
	return ReadPassphrase(prompt)
}

// GetVerifiedPassphrase obtains the master passphrase and checks it
// against the vault header, re-prompting up to the configured attempt
// limit. On success the session cache is refreshed.
func (a *App) GetVerifiedPassphrase() ([]byte, error) {
	attempts := a.Config.MaxAuthAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		passphrase, err := a.GetPassphrase("Enter master passphrase: ")
		if err != nil {
			return nil, err
		}

		ok, err := a.Engine.VerifyMasterPassphrase(passphrase)
		if err != nil {
			crypto.ClearBytes(passphrase)
			return nil, err
		}
		if ok {
			if err := a.Sessions.Save(passphrase); err != nil {
				// Session caching is best effort only.
				_ = err
			}
			return passphrase, nil
		}

		crypto.ClearBytes(passphrase)
		// A cached or env passphrase that no longer verifies is stale;
		// drop it so the next attempt prompts.
		_ = a.Sessions.Clear()
		if os.Getenv(PassphraseEnv) != "" {
			return nil, vault.ErrWrongPassphrase
		}
		fmt.Fprintln(os.Stderr, "Wrong passphrase, try again")
	}
	return nil, vault.ErrWrongPassphrase
}

// HandleError prints a friendly message for known failures and exits.
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintln(os.Stderr, "Error: passgen not initialized")
		fmt.Fprintln(os.Stderr, "Run 'passgen init' first")
	case errors.Is(err, vault.ErrAlreadyInitialized):
		fmt.Fprintln(os.Stderr, "Error: a vault already exists")
		fmt.Fprintln(os.Stderr, "Use 'passgen status' to see current state")
	case errors.Is(err, vault.ErrWrongPassphrase):
		fmt.Fprintln(os.Stderr, "Error: wrong passphrase")
	case errors.Is(err, vault.ErrDecryptionFailed):
		fmt.Fprintln(os.Stderr, "Error: the vault failed integrity checks; it may be corrupted or tampered with")
		fmt.Fprintln(os.Stderr, "Run 'passgen diagnose' for details, or restore a backup with 'passgen recover'")
	case errors.Is(err, container.ErrFormat):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
