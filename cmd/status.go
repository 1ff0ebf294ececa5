package cmd

import (
	"fmt"
	"os"
)

// Status reports vault state without requiring the passphrase.
func Status(app *App) {
	fmt.Printf("vault:   %s\n", app.Engine.Path())
	fmt.Printf("config:  %s\n", app.ConfPath)

	if !app.Engine.IsInitialized() {
		fmt.Println("state:   not initialized")
		fmt.Println("Run 'passgen init' to create a vault")
		return
	}
	fmt.Println("state:   initialized")

	if info, err := os.Stat(app.Engine.Path()); err == nil {
		fmt.Printf("size:    %d bytes\n", info.Size())
		fmt.Printf("changed: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
	}

	if app.Sessions.Active() {
		fmt.Println("session: unlocked")
	} else {
		fmt.Println("session: locked")
	}
}
