package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xiunchen/passgen/internal/crypto"
	"github.com/xiunchen/passgen/internal/diagnose"
)

// Diagnose inspects the vault file and prints a verdict. With checkPass
// the passphrase is also verified and a full decryption attempted.
func Diagnose(app *App, checkPass, verbose bool) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	var passphrase []byte
	if checkPass {
		var err error
		passphrase, err = app.GetPassphrase("Enter master passphrase: ")
		if err != nil {
			HandleError(err)
		}
		defer crypto.ClearBytes(passphrase)
	}

	report := diagnose.Run(log, app.Engine.Path(), passphrase)

	fmt.Printf("vault:  %s\n", report.Path)
	fmt.Printf("result: %s\n", report.Result)
	if report.FileSize > 0 {
		fmt.Printf("size:   %d bytes (%d ciphertext)\n", report.FileSize, report.CiphertextBytes)
	}
	if checkPass {
		fmt.Printf("passphrase verified: %t\n", report.PassphraseOK)
		fmt.Printf("payload decrypts:    %t\n", report.Decrypted)
	}

	switch report.Result {
	case diagnose.ResultOK:
		fmt.Println("No problems found")
	case diagnose.ResultNoFile:
		fmt.Println("No vault file exists, run 'passgen init' to create one")
	case diagnose.ResultBadFormat, diagnose.ResultTruncated:
		fmt.Println("The file is not a usable vault; restore a backup with 'passgen recover'")
	case diagnose.ResultWrongPass:
		fmt.Println("The passphrase does not match this vault")
	case diagnose.ResultCorrupt:
		fmt.Println("The vault is damaged; restore a backup with 'passgen recover'")
	}

	if report.Result != diagnose.ResultOK {
		os.Exit(1)
	}
}
