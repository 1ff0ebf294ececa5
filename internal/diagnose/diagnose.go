// Package diagnose inspects a vault container file and reports what a
// support flow needs to know: is the file present, is it a PGv2 container,
// does a given passphrase verify, does the payload decrypt. It never
// modifies the file.
package diagnose

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xiunchen/passgen/internal/container"
	"github.com/xiunchen/passgen/internal/crypto"
)

// Result classifies the overall state of a vault file.
type Result string

const (
	ResultOK           Result = "ok"
	ResultNoFile       Result = "no_database"
	ResultBadFormat    Result = "unsupported_format"
	ResultTruncated    Result = "truncated"
	ResultWrongPass    Result = "wrong_passphrase"
	ResultCorrupt      Result = "database_corruption"
	ResultNotCheckable Result = "not_checked"
)

// Report is the outcome of a vault inspection.
type Report struct {
	Path            string
	Result          Result
	FileSize        int64
	CiphertextBytes int
	SaltsDistinct   bool
	PassphraseOK    bool
	Decrypted       bool
}

// Run inspects the vault at path, logging each step. When passphrase is
// nil only the container structure is checked; otherwise verification and
// a full decryption are attempted.
func Run(log *logrus.Logger, path string, passphrase []byte) *Report {
	report := &Report{Path: path, Result: ResultNotCheckable}
	fields := logrus.Fields{"path": path}

	info, err := os.Stat(path)
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("vault file not accessible")
		report.Result = ResultNoFile
		return report
	}
	report.FileSize = info.Size()
	fields["size"] = info.Size()
	log.WithFields(fields).Info("vault file found")

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("cannot read vault file")
		report.Result = ResultNoFile
		return report
	}

	if !container.HasMagic(data) {
		log.WithFields(fields).Warn("file does not start with the PGv2 magic tag")
		report.Result = ResultBadFormat
		return report
	}

	hdr, ciphertext, err := container.Decode(data)
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("container header is malformed")
		report.Result = ResultTruncated
		return report
	}
	report.CiphertextBytes = len(ciphertext)
	report.SaltsDistinct = !bytes.Equal(hdr.VerifySalt, hdr.EncryptSalt)

	log.WithFields(logrus.Fields{
		"header_bytes":     container.HeaderSize,
		"ciphertext_bytes": len(ciphertext),
		"salts_distinct":   report.SaltsDistinct,
	}).Info("container header parsed")

	if !report.SaltsDistinct {
		log.Warn("verify and encrypt salts are identical; vault predates salt separation or is corrupt")
	}

	if passphrase == nil {
		report.Result = ResultOK
		return report
	}

	if !crypto.CheckPassphrase(passphrase, hdr.VerifySalt, hdr.VerifyHash) {
		log.WithFields(fields).Warn("passphrase does not match the verification hash")
		report.Result = ResultWrongPass
		return report
	}
	report.PassphraseOK = true
	log.Info("passphrase verified against the header")

	key := crypto.DeriveKey(passphrase, hdr.EncryptSalt)
	defer crypto.ClearBytes(key)
	plaintext, err := crypto.Open(key, hdr.Nonce, ciphertext)
	if err != nil {
		// Verify hash matched but the payload will not open: the
		// ciphertext has been damaged since the last save.
		log.WithFields(fields).WithError(err).Error("passphrase is correct but the payload fails authentication")
		report.Result = ResultCorrupt
		return report
	}
	crypto.ClearBytes(plaintext)
	report.Decrypted = true
	report.Result = ResultOK
	log.Info("payload decrypts and authenticates")
	return report
}
