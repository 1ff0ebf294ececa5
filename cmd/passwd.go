package cmd

import (
	"fmt"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Passwd changes the master passphrase. The vault is re-encrypted with
// fresh salts and the cached session is invalidated.
func Passwd(app *App) {
	current, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(current)

	fmt.Println("Choose a new master passphrase")
	next, err := ReadPassphraseConfirm()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(next)

	if len(next) == 0 {
		HandleError(fmt.Errorf("master passphrase must not be empty"))
	}

	if err := app.Engine.ChangePassphrase(current, next); err != nil {
		HandleError(err)
	}

	// The cached session still holds the old passphrase.
	if err := app.Sessions.Clear(); err != nil {
		fmt.Printf("warning: could not clear session: %s\n", err)
	}
	fmt.Println("Master passphrase changed")
}
