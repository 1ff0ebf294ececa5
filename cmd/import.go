package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/vault"
)

// Import replaces the vault contents with a previously exported JSON
// collection.
func Import(app *App, inPath string) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		HandleError(fmt.Errorf("cannot read import file: %w", err))
	}

	var collection vault.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		HandleError(fmt.Errorf("cannot parse import file: %w", err))
	}

	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	if err := app.Engine.Import(&collection, passphrase); err != nil {
		HandleError(err)
	}
	fmt.Printf("imported %d entries from %s\n", len(collection.Entries), inPath)
}
