package cmd

import (
	"fmt"
	"os"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/vault"
)

// Update modifies fields of an existing entry. Only fields set in the
// patch are touched; the rest keep their stored values.
func Update(app *App, id string, patch vault.EntryPatch) {
	if patch.Site == nil && patch.Username == nil && patch.Password == nil &&
		patch.Notes == nil && patch.Tags == nil {
		fmt.Fprintln(os.Stderr, "Error: nothing to update, pass at least one field flag")
		os.Exit(1)
	}

	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	collection, err := app.Engine.Load(passphrase)
	if err != nil {
		HandleError(err)
	}

	found, err := collection.Update(id, patch)
	if err != nil {
		HandleError(err)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: no entry with id %s\n", id)
		os.Exit(1)
	}
	if err := app.Engine.Save(collection, passphrase); err != nil {
		HandleError(err)
	}
	fmt.Printf("updated: %s\n", id)
}
