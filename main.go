package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xiunchen/passgen/cmd"
	"github.com/xiunchen/passgen/internal/vault"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "add":
		runAdd(os.Args[2:])
	case "get", "show":
		runGet(os.Args[2:])
	case "list", "ls":
		runList(os.Args[2:])
	case "search":
		runSearch(os.Args[2:])
	case "update":
		runUpdate(os.Args[2:])
	case "rm", "delete":
		runRm(os.Args[2:])
	case "generate", "gen":
		runGenerate(os.Args[2:])
	case "passwd":
		runPasswd(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	case "recover":
		runRecover(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "diagnose":
		runDiagnose(os.Args[2:])
	case "lock":
		runLockCmd(os.Args[2:])
	case "config":
		runConfig(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func mustApp() *cmd.App {
	app, err := cmd.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return app
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init(mustApp())
}

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	username := fs.String("username", "", "Username or login for the site")
	password := fs.String("password", "", "Password (omit to be prompted or use --generate)")
	notes := fs.String("notes", "", "Free-form notes")
	tags := fs.String("tags", "", "Comma-separated tags")
	generate := fs.Bool("generate", false, "Generate a password instead of prompting")
	copyFlag := fs.Bool("copy", false, "Copy the stored password to the clipboard")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen add <site> [flags]")
		os.Exit(1)
	}

	cmd.Add(mustApp(), cmd.AddOptions{
		Site:     fs.Arg(0),
		Username: *username,
		Password: *password,
		Notes:    *notes,
		Tags:     splitTags(*tags),
		Generate: *generate,
		Copy:     *copyFlag,
	})
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	show := fs.Bool("show", false, "Print the password in clear text")
	copyFlag := fs.Bool("copy", false, "Copy the password to the clipboard")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen get <id> [flags]")
		os.Exit(1)
	}

	cmd.Get(mustApp(), fs.Arg(0), *show, *copyFlag)
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List(mustApp())
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	site := fs.String("site", "", "Match against the site field only")
	username := fs.String("username", "", "Match against the username field only")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	query := strings.Join(fs.Args(), " ")
	if query == "" && *site == "" && *username == "" {
		fmt.Fprintln(os.Stderr, "Usage: passgen search <query> | passgen search --site <s> --username <u>")
		os.Exit(1)
	}

	cmd.Search(mustApp(), query, *site, *username)
}

func runUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	site := fs.String("site", "", "New site")
	username := fs.String("username", "", "New username")
	password := fs.String("password", "", "New password")
	notes := fs.String("notes", "", "New notes")
	tags := fs.String("tags", "", "New comma-separated tags (replaces existing)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen update <id> [flags]")
		os.Exit(1)
	}

	var patch vault.EntryPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "site":
			patch.Site = site
		case "username":
			patch.Username = username
		case "password":
			patch.Password = password
		case "notes":
			patch.Notes = notes
		case "tags":
			t := splitTags(*tags)
			patch.Tags = &t
		}
	})

	cmd.Update(mustApp(), fs.Arg(0), patch)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	force := fs.Bool("force", false, "Delete without confirmation")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen rm <id> [--force]")
		os.Exit(1)
	}

	cmd.Remove(mustApp(), fs.Arg(0), *force)
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	length := fs.Int("length", 0, "Password length (default from config)")
	count := fs.Int("count", 1, "How many passwords to generate")
	noUpper := fs.Bool("no-upper", false, "Exclude uppercase letters")
	noLower := fs.Bool("no-lower", false, "Exclude lowercase letters")
	noDigits := fs.Bool("no-digits", false, "Exclude digits")
	noSymbols := fs.Bool("no-symbols", false, "Exclude symbols")
	exclude := fs.String("exclude", "", "Characters to exclude")
	charset := fs.String("charset", "", "Use exactly these characters")
	symbols := fs.String("symbols", "", "Use this symbol set instead of the default")
	copyFlag := fs.Bool("copy", false, "Copy the (last) password to the clipboard")
	strength := fs.Bool("strength", false, "Show a strength estimate for each password")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Generate(mustApp(), cmd.GenerateOptions{
		Length:     *length,
		Count:      *count,
		NoUpper:    *noUpper,
		NoLower:    *noLower,
		NoDigits:   *noDigits,
		NoSymbols:  *noSymbols,
		Exclude:    *exclude,
		Charset:    *charset,
		Symbols:    *symbols,
		Copy:       *copyFlag,
		ShowGrades: *strength,
	})
}

func runPasswd(args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Passwd(mustApp())
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Export(mustApp(), *out)
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen import <file.json>")
		os.Exit(1)
	}

	cmd.Import(mustApp(), fs.Arg(0))
}

func runRecover(args []string) {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Preview the differences without restoring")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen recover <backup-file> [--dry-run]")
		os.Exit(1)
	}

	cmd.Recover(mustApp(), fs.Arg(0), *dryRun)
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(mustApp())
}

func runDiagnose(args []string) {
	fs := flag.NewFlagSet("diagnose", flag.ExitOnError)
	checkPass := fs.Bool("check-passphrase", false, "Also verify the passphrase and decrypt the payload")
	verbose := fs.Bool("verbose", false, "Log every inspection step")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Diagnose(mustApp(), *checkPass, *verbose)
}

func runLockCmd(args []string) {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Lock(mustApp())
}

func runConfig(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passgen config <show|set|reset> [key value]")
		os.Exit(1)
	}
	switch args[0] {
	case "show":
		cmd.ConfigShow(mustApp())
	case "reset":
		cmd.ConfigReset(mustApp())
	case "set":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: passgen config set <key> <value>")
			os.Exit(1)
		}
		cmd.ConfigSet(mustApp(), args[1], args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func printUsage() {
	fmt.Println("passgen - Encrypted password manager and generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  passgen <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new encrypted vault")
	fmt.Println("  add         Store a new credential")
	fmt.Println("  get, show   Show a single entry by id")
	fmt.Println("  list, ls    List all entries")
	fmt.Println("  search      Find entries by text")
	fmt.Println("  update      Modify fields of an entry")
	fmt.Println("  rm, delete  Delete an entry")
	fmt.Println("  generate    Generate random passwords")
	fmt.Println("  passwd      Change the master passphrase")
	fmt.Println("  export      Export entries as plaintext JSON")
	fmt.Println("  import      Import entries from exported JSON")
	fmt.Println("  recover     Restore the vault from a backup file")
	fmt.Println("  status      Show vault status")
	fmt.Println("  diagnose    Inspect the vault file for problems")
	fmt.Println("  lock        Clear the cached session")
	fmt.Println("  config      Show or change settings")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  passgen init                        # Create new vault")
	fmt.Println("  passgen add github.com --generate   # Store a generated password")
	fmt.Println("  passgen search github               # Find entries")
	fmt.Println("  passgen generate --length 24        # Print a random password")
	fmt.Println()
	fmt.Println("Use 'passgen help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("passgen init")
		fmt.Println()
		fmt.Println("Creates a new encrypted vault in your home directory.")
		fmt.Println("Prompts for a master passphrase that protects every entry.")
		fmt.Println("The passphrase is not stored anywhere - you must remember it.")
	case "add":
		fmt.Println("passgen add <site> [--username <u>] [--password <p>] [--notes <n>] [--tags a,b] [--generate] [--copy]")
		fmt.Println()
		fmt.Println("Stores a new credential for a site.")
		fmt.Println("Without --password you are prompted; with --generate a random")
		fmt.Println("password is created using your configured defaults.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passgen add github.com --username me@example.com --generate")
		fmt.Println("  passgen add vpn --notes 'office VPN' --tags work,infra")
	case "get", "show":
		fmt.Println("passgen get <id> [--show] [--copy]")
		fmt.Println()
		fmt.Println("Shows a single entry. The password stays hidden unless --show")
		fmt.Println("is given; --copy puts it on the clipboard and clears it after")
		fmt.Println("the configured delay.")
	case "list", "ls":
		fmt.Println("passgen list")
		fmt.Println()
		fmt.Println("Lists all entries, most recently updated first. Passwords are")
		fmt.Println("never printed here.")
	case "search":
		fmt.Println("passgen search <query> | passgen search --site <s> --username <u>")
		fmt.Println()
		fmt.Println("With a plain query, matches the site, username, notes and tags")
		fmt.Println("of every entry (case-insensitive). With --site and --username,")
		fmt.Println("both must match their own field.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passgen search github")
		fmt.Println("  passgen search --site github --username work")
	case "update":
		fmt.Println("passgen update <id> [--site <s>] [--username <u>] [--password <p>] [--notes <n>] [--tags a,b]")
		fmt.Println()
		fmt.Println("Changes the given fields of an entry; everything else keeps its")
		fmt.Println("stored value. --tags replaces the whole tag list.")
	case "rm", "delete":
		fmt.Println("passgen rm <id> [--force]")
		fmt.Println()
		fmt.Println("Deletes an entry. Asks for confirmation unless --force is given.")
	case "generate", "gen":
		fmt.Println("passgen generate [--length N] [--count N] [--no-upper] [--no-lower] [--no-digits] [--no-symbols]")
		fmt.Println("                 [--exclude <chars>] [--charset <chars>] [--symbols <chars>] [--copy] [--strength]")
		fmt.Println()
		fmt.Println("Generates random passwords without touching the vault.")
		fmt.Println("Defaults come from 'passgen config'.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passgen generate --length 24 --no-symbols")
		fmt.Println("  passgen generate --count 5 --strength")
	case "passwd":
		fmt.Println("passgen passwd")
		fmt.Println()
		fmt.Println("Changes the master passphrase. The vault is re-encrypted with")
		fmt.Println("fresh salts and any cached session is cleared.")
	case "export":
		fmt.Println("passgen export [--out <file.json>]")
		fmt.Println()
		fmt.Println("Writes all entries as plaintext JSON, to stdout or to a file.")
		fmt.Println("The export is NOT encrypted - handle it with care.")
	case "import":
		fmt.Println("passgen import <file.json>")
		fmt.Println()
		fmt.Println("Replaces the vault contents with a previously exported JSON file.")
	case "recover":
		fmt.Println("passgen recover <backup-file> [--dry-run]")
		fmt.Println()
		fmt.Println("Restores the vault from an external backup file. The backup's")
		fmt.Println("passphrase must verify before the local vault is touched.")
		fmt.Println("--dry-run shows which entries would be added or removed.")
	case "status":
		fmt.Println("passgen status")
		fmt.Println()
		fmt.Println("Shows the vault location, whether it is initialized, its size")
		fmt.Println("and whether a session is cached. Never asks for the passphrase.")
	case "diagnose":
		fmt.Println("passgen diagnose [--check-passphrase] [--verbose]")
		fmt.Println()
		fmt.Println("Inspects the vault file: magic tag, header structure, salts.")
		fmt.Println("With --check-passphrase the passphrase is verified and a full")
		fmt.Println("decryption is attempted. The file is never modified.")
	case "lock":
		fmt.Println("passgen lock")
		fmt.Println()
		fmt.Println("Clears the cached session so the next command prompts for the")
		fmt.Println("master passphrase again.")
	case "config":
		fmt.Println("passgen config show")
		fmt.Println("passgen config set <key> <value>")
		fmt.Println("passgen config reset")
		fmt.Println()
		fmt.Println("Keys: password-length, session-timeout, clipboard-timeout,")
		fmt.Println("      max-auth-attempts, symbols, show-strength, storage-path")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}
