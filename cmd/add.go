package cmd

import (
	"fmt"
	"time"

	"github.com/xiunchen/passgen/internal/clipboard"
	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/generator"
)

// AddOptions carries the parsed flags for the add command.
type AddOptions struct {
	Site     string
	Username string
	Password string
	Notes    string
	Tags     []string
	Generate bool // generate the password instead of prompting
	Copy     bool // copy the stored password to the clipboard
}

// Add stores a new credential entry.
func Add(app *App, opts AddOptions) {
	password := opts.Password
	if password == "" && opts.Generate {
		generated, err := generator.Generate(app.Config.GeneratorConfig())
		if err != nil {
			HandleError(err)
		}
		password = generated
		fmt.Println("Generated password for this entry")
	}
	if password == "" {
		entered, err := ReadPassphrase("Password for this entry: ")
		if err != nil {
			HandleError(err)
		}
		password = string(entered)
		crypto.ClearBytes(entered)
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

	id, err := collection.Add(opts.Site, opts.Username, password, opts.Notes, opts.Tags)
	if err != nil {
		HandleError(err)
	}
	if err := app.Engine.Save(collection, passphrase); err != nil {
		HandleError(err)
	}

	fmt.Printf("added: %s (%s)\n", opts.Site, id)

	if app.Config.ShowPasswordStrength {
		strength := generator.EvaluateStrength(password)
		fmt.Printf("password strength: %s (%d/100)\n", strength.Label, strength.Score)
	}

	if opts.Copy {
		copySecret(app, password)
	}
}

// copySecret copies a secret to the clipboard with the configured
// auto-clear delay.
func copySecret(app *App, secret string) {
	delay := time.Duration(app.Config.AutoClearClipboardSeconds) * time.Second
	if delay > 0 {
		fmt.Printf("copied to clipboard, clearing in %ds\n", app.Config.AutoClearClipboardSeconds)
	} else {
		fmt.Println("copied to clipboard")
	}
	if err := clipboard.CopyWithAutoClear(secret, delay); err != nil {
		fmt.Printf("warning: %s\n", err)
	}
}
