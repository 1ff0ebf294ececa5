package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

const (
	MinLength = 4
	MaxLength = 128

	DefaultLength  = 16
	DefaultSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
)

// Config controls password generation.
type Config struct {
	Length        int
	UseUppercase  bool
	UseLowercase  bool
	UseDigits     bool
	UseSymbols    bool
	CustomChars   string // overrides the class-based charset entirely
	ExcludeChars  string // removed from the charset after it is built
	CustomSymbols string // replaces DefaultSymbols when UseSymbols is set
}

// DefaultConfig returns the standard 16-character all-classes configuration.
func DefaultConfig() Config {
	return Config{
		Length:       DefaultLength,
		UseUppercase: true,
		UseLowercase: true,
		UseDigits:    true,
		UseSymbols:   true,
	}
}

func (c Config) symbols() string {
	if c.CustomSymbols != "" {
		return c.CustomSymbols
	}
	return DefaultSymbols
}

// Generate produces a random password according to cfg using crypto/rand.
// When multiple character classes are enabled and the length allows, the
// result is guaranteed to contain at least one character of each class.
func Generate(cfg Config) (string, error) {
	if cfg.Length < MinLength {
		return "", fmt.Errorf("password length must be at least %d", MinLength)
	}
	if cfg.Length > MaxLength {
		return "", fmt.Errorf("password length must not exceed %d", MaxLength)
	}
	if !cfg.UseUppercase && !cfg.UseLowercase && !cfg.UseDigits && !cfg.UseSymbols && cfg.CustomChars == "" {
		return "", fmt.Errorf("at least one character class or a custom charset is required")
	}

	charset := buildCharset(cfg)
	if charset == "" {
		return "", fmt.Errorf("character set is empty after exclusions")
	}

	password := make([]byte, cfg.Length)
	for i := range password {
		ch, err := pick(charset)
		if err != nil {
			return "", err
		}
		password[i] = ch
	}

	if needsClassGuarantee(cfg) {
		if err := ensureClasses(password, cfg); err != nil {
			return "", err
		}
	}
	return string(password), nil
}

func buildCharset(cfg Config) string {
	var charset string
	if cfg.CustomChars != "" {
		charset = cfg.CustomChars
	} else {
		if cfg.UseLowercase {
			charset += lowercase
		}
		if cfg.UseUppercase {
			charset += uppercase
		}
		if cfg.UseDigits {
			charset += digits
		}
		if cfg.UseSymbols {
			charset += cfg.symbols()
		}
	}

	charset = withoutExcluded(charset, cfg.ExcludeChars)

	// Deduplicate so no character is more likely than another.
	seen := make(map[byte]bool, len(charset))
	unique := make([]byte, 0, len(charset))
	for i := 0; i < len(charset); i++ {
		if !seen[charset[i]] {
			seen[charset[i]] = true
			unique = append(unique, charset[i])
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return string(unique)
}

// needsClassGuarantee reports whether the generated password should be
// checked for one character of each enabled class. Only worthwhile with
// multiple classes, enough length, and no custom charset.
func needsClassGuarantee(cfg Config) bool {
	classes := 0
	for _, enabled := range []bool{cfg.UseLowercase, cfg.UseUppercase, cfg.UseDigits, cfg.UseSymbols} {
		if enabled {
			classes++
		}
	}
	return classes > 1 && cfg.Length >= classes && cfg.CustomChars == ""
}

func ensureClasses(password []byte, cfg Config) error {
	type class struct {
		enabled bool
		chars   string
	}
	classes := []class{
		{cfg.UseLowercase, lowercase},
		{cfg.UseUppercase, uppercase},
		{cfg.UseDigits, digits},
		{cfg.UseSymbols, cfg.symbols()},
	}

	var missing []string
	for _, cl := range classes {
		if !cl.enabled {
			continue
		}
		chars := withoutExcluded(cl.chars, cfg.ExcludeChars)
		if chars != "" && !strings.ContainsAny(string(password), chars) {
			missing = append(missing, chars)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	// Overwrite the first positions with one character from each missing
	// class, then shuffle so their placement is uniform.
	for i, chars := range missing {
		if i >= len(password) {
			break
		}
		ch, err := pick(chars)
		if err != nil {
			return err
		}
		password[i] = ch
	}
	return shuffle(password)
}

func withoutExcluded(charset, exclude string) string {
	if exclude == "" {
		return charset
	}
	var kept strings.Builder
	for _, ch := range charset {
		if !strings.ContainsRune(exclude, ch) {
			kept.WriteRune(ch)
		}
	}
	return kept.String()
}

func pick(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}
	return charset[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to shuffle: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
