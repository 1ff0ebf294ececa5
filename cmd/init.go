package cmd

import (
	"fmt"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/vault"
)

// Init creates a new vault protected by a master passphrase.
func Init(app *App) {
	if app.Engine.IsInitialized() {
		HandleError(vault.ErrAlreadyInitialized)
	}

	fmt.Println("Initializing a new passgen vault at", app.Engine.Path())

	passphrase := GetPassphraseFromEnv()
	if passphrase == nil {
		var err error
		passphrase, err = ReadPassphraseConfirm()
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(passphrase)

	if len(passphrase) == 0 {
		HandleError(fmt.Errorf("master passphrase must not be empty"))
	}

	if err := app.Engine.Initialize(passphrase); err != nil {
		HandleError(err)
	}

	fmt.Println("Vault created")
	fmt.Println("Keep your master passphrase safe: it cannot be recovered if lost")
}
