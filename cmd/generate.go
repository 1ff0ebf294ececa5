package cmd

import (
	"fmt"

	"github.com/xiunchen/passgen/internal/generator"
)

// GenerateOptions carries the parsed flags for the generate command.
// Zero values fall back to the configured defaults.
type GenerateOptions struct {
	Length     int
	Count      int
	NoUpper    bool
	NoLower    bool
	NoDigits   bool
	NoSymbols  bool
	Exclude    string
	Charset    string // overrides all class flags when set
	Symbols    string // custom symbol set
	Copy       bool
	ShowGrades bool
}

// Generate produces one or more random passwords without touching the
// vault, so no passphrase is required.
func Generate(app *App, opts GenerateOptions) {
	cfg := app.Config.GeneratorConfig()
	if opts.Length > 0 {
		cfg.Length = opts.Length
	}
	if opts.NoUpper {
		cfg.UseUppercase = false
	}
	if opts.NoLower {
		cfg.UseLowercase = false
	}
	if opts.NoDigits {
		cfg.UseDigits = false
	}
	if opts.NoSymbols {
		cfg.UseSymbols = false
	}
	cfg.CustomChars = opts.Charset
	cfg.ExcludeChars = opts.Exclude
	if opts.Symbols != "" {
		cfg.CustomSymbols = opts.Symbols
	}

	count := opts.Count
	if count < 1 {
		count = 1
	}

	var last string
	for i := 0; i < count; i++ {
		password, err := generator.Generate(cfg)
		if err != nil {
			HandleError(err)
		}
		last = password
		if opts.ShowGrades || app.Config.ShowPasswordStrength {
			strength := generator.EvaluateStrength(password)
			fmt.Printf("%s  [%s %d/100]\n", password, strength.Label, strength.Score)
		} else {
			fmt.Println(password)
		}
	}

	if opts.Copy {
		copySecret(app, last)
	}
}
