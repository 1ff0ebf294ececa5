package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Export writes the decrypted collection as JSON. With an empty output
// path it goes to stdout; otherwise to a file created with owner-only
// permissions. The export is plaintext, the command says so.
func Export(app *App, outPath string) {
	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	collection, err := app.Engine.Export(passphrase)
	if err != nil {
		HandleError(err)
	}

	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		HandleError(fmt.Errorf("cannot serialize collection: %w", err))
	}

	if outPath == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(outPath, data, 0600); err != nil {
		HandleError(fmt.Errorf("cannot write export file: %w", err))
	}
	fmt.Printf("exported %d entries to %s\n", len(collection.Entries), outPath)
	fmt.Println("Warning: the export is NOT encrypted, delete it after use")
}
