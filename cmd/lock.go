package cmd

import "fmt"

// Lock drops the cached session so the next command prompts for the
// master passphrase again.
func Lock(app *App) {
	if err := app.Sessions.Clear(); err != nil {
		HandleError(fmt.Errorf("cannot clear session: %w", err))
	}
	fmt.Println("Session cleared")
}
