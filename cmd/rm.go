package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/xiunchen/passgen/internal/crypto"
)

// Remove deletes an entry by id, asking for confirmation unless force
// is set.
func Remove(app *App, id string, force bool) {
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

	if !force {
		fmt.Printf("Delete entry for %s (%s)? [y/N]: ", entry.Site, entry.Username)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return
		}
	}

	collection.Delete(id)
	if err := app.Engine.Save(collection, passphrase); err != nil {
		HandleError(err)
	}
	fmt.Printf("removed: %s\n", id)
}
