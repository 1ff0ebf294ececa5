package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Get shows a single entry by id. The password is only printed with
// show=true; copy=true places it on the clipboard instead.
func Get(app *App, id string, show, copy bool) {
	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	collection, err := app.Engine.Load(passphrase)
	if err != nil {
		HandleError(err)
	}

	entry := collection.Get(id)
	if entry == nil {
		fmt.Fprintf(os.Stderr, "Error: no entry with id %s\n", id)
		os.Exit(1)
	}

	fmt.Printf("site:     %s\n", entry.Site)
	fmt.Printf("username: %s\n", entry.Username)
	if show {
		fmt.Printf("password: %s\n", entry.Password)
	} else {
		fmt.Printf("password: ******** (use --show to reveal)\n")
	}
	if entry.Notes != "" {
		fmt.Printf("notes:    %s\n", entry.Notes)
	}
	if len(entry.Tags) > 0 {
		fmt.Printf("tags:     %s\n", strings.Join(entry.Tags, ", "))
	}
	fmt.Printf("created:  %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("updated:  %s\n", entry.UpdatedAt.Format("2006-01-02 15:04:05"))

	if copy {
		copySecret(app, entry.Password)
	}
}
