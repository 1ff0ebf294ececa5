package cmd

import (
	"fmt"
	"strings"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/vault"
)

// List prints all entries, newest first. Passwords are never shown here.
func List(app *App) {
	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	collection, err := app.Engine.Load(passphrase)
	if err != nil {
		HandleError(err)
	}

	entries := collection.ListAll()
	if len(entries) == 0 {
		fmt.Println("Vault is empty, use 'passgen add' to store a credential")
		return
	}
	printEntries(entries)
	fmt.Printf("%d entries\n", len(entries))
}

func printEntries(entries []vault.Entry) {
	fmt.Printf("%-38s %-30s %-20s %s\n", "ID", "SITE", "USERNAME", "UPDATED")
	for _, entry := range entries {
		site := entry.Site
		if len(site) > 30 {
			site = site[:27] + "..."
		}
		username := entry.Username
		if len(username) > 20 {
			username = username[:17] + "..."
		}
		updated := entry.UpdatedAt.Format("2006-01-02 15:04")
		line := fmt.Sprintf("%-38s %-30s %-20s %s", entry.ID, site, username, updated)
		fmt.Println(strings.TrimRight(line, " "))
	}
}
