// Package crypto provides cryptographic operations for passgen.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master passphrase via PBKDF2
//   - 12-byte random nonce per encryption operation, stored in the
//     container header
//   - Authenticated encryption prevents tampering
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random salt (stored unencrypted in the container header)
//   - 100,000 iterations, fixed for the PGv2 format
//
// Two independent salts are used per vault: one for the bulk encryption
// key and one for the passphrase verification hash. Verification therefore
// never touches the ciphertext, and the verification token cannot be used
// to derive the encryption key.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
