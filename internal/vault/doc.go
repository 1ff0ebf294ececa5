// Package vault implements the passgen storage engine: an encrypted,
// single-file credential store in the PGv2 container format.
//
// Every operation is a synchronous load, modify, full rewrite of the
// container. The whole record set is re-serialized and re-encrypted on
// each save; writes go to a temp file that is renamed over the vault, so
// a crash can never leave a truncated container. The engine assumes one
// process owns the file at a time and does no locking.
//
// Passphrase verification uses a hash derived from a salt independent of
// the encryption salt, so a passphrase can be checked by reading only the
// 112-byte header.
package vault
