package cmd

import (
	"fmt"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/vault"
)

// Search finds entries. With a plain query every searchable field is
// matched; with --site/--username both must match their own field.
func Search(app *App, query, site, username string) {
	passphrase, err := app.GetVerifiedPassphrase()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(passphrase)

	collection, err := app.Engine.Load(passphrase)
	if err != nil {
		HandleError(err)
	}

	var results []vault.Entry
	if site != "" || username != "" {
		results = collection.SearchSiteUser(site, username)
	} else {
		results = collection.Search(query)
	}

	if len(results) == 0 {
		fmt.Println("No matching entries")
		return
	}
	printEntries(results)
	fmt.Printf("%d matches\n", len(results))
}
