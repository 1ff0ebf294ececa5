package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xiunchen/passgen/internal/config"
)

// ConfigShow prints the active configuration as JSON.
func ConfigShow(app *App) {
	data, err := json.MarshalIndent(app.Config, "", "  ")
	if err != nil {
		HandleError(err)
	}
	fmt.Println(string(data))
}

// ConfigReset restores the built-in defaults.
func ConfigReset(app *App) {
	if err := config.Save(app.ConfPath, config.Default()); err != nil {
		HandleError(err)
	}
	fmt.Println("Configuration reset to defaults")
}

// ConfigSet updates a single setting and saves the file.
func ConfigSet(app *App, key, value string) {
	cfg := app.Config
	switch key {
	case "password-length":
		n, err := strconv.Atoi(value)
		if err != nil {
			badConfigValue(key, value, "expected a number")
		}
		cfg.DefaultPasswordLength = n
	case "session-timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			badConfigValue(key, value, "expected a non-negative number of seconds")
		}
		cfg.SessionTimeoutSeconds = n
	case "clipboard-timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			badConfigValue(key, value, "expected a non-negative number of seconds")
		}
		cfg.AutoClearClipboardSeconds = n
	case "max-auth-attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			badConfigValue(key, value, "expected a number of at least 1")
		}
		cfg.MaxAuthAttempts = n
	case "symbols":
		cfg.DefaultSymbols = value
	case "show-strength":
		b, err := strconv.ParseBool(value)
		if err != nil {
			badConfigValue(key, value, "expected true or false")
		}
		cfg.ShowPasswordStrength = b
	case "storage-path":
		cfg.StoragePath = value
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown setting %q\n", key)
		fmt.Fprintln(os.Stderr, "Settings: password-length, session-timeout, clipboard-timeout, max-auth-attempts, symbols, show-strength, storage-path")
		os.Exit(1)
	}

	if err := config.Save(app.ConfPath, cfg); err != nil {
		HandleError(err)
	}
	fmt.Printf("%s = %s\n", key, value)
}

func badConfigValue(key, value, hint string) {
	fmt.Fprintf(os.Stderr, "Error: invalid value %q for %s: %s\n", value, key, hint)
	os.Exit(1)
}
