// Package container defines the on-disk byte layout of a PGv2 vault file.
//
// Layout, all fields concatenated with no delimiters:
//
//	offset  size  field
//	0       4     magic "PGv2"
//	4       32    verify salt
//	36      32    verify hash
//	68      32    encrypt salt
//	100     12    nonce
//	112     ...   ciphertext (AEAD-sealed record collection, includes tag)
//
// The header is never encrypted. Tampering with it is caught indirectly:
// a modified salt derives a wrong key and the AEAD open fails, and a
// modified verify hash fails the passphrase check.
package container
