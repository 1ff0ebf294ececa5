package cmd

import (
	"fmt"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Recover replaces the local vault with an external PGv2 backup file.
// The backup's own passphrase must verify before anything local is
// touched. With dryRun the change is only previewed as a diff of entry
// listings.
func Recover(app *App, backupPath string, dryRun bool) {
	passphrase, err := app.GetPassphrase("Passphrase for the backup file: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	if dryRun {
		diff, err := app.Engine.RecoverPreview(backupPath, passphrase)
		if err != nil {
			HandleError(err)
		}
		if diff == "" {
			fmt.Println("No differences between the local vault and the backup")
			return
		}
		fmt.Println(diff)
		return
	}

	if err := app.Engine.RecoverFromFile(backupPath, passphrase); err != nil {
		HandleError(err)
	}

	// Any cached session belongs to the replaced vault.
	if err := app.Sessions.Clear(); err != nil {
		fmt.Printf("warning: could not clear session: %s\n", err)
	}
	fmt.Printf("vault restored from %s\n", backupPath)
}
