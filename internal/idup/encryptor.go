package idup

import "io"

// Encryptor encrypts index snapshots before they leave the machine.
// Encryption uses the public key only. Decryption requires a passphrase to
// unlock the private key, producing a DecryptionContext.
type Encryptor interface {
	// Setup generates a key pair, storing the public key in plaintext and the
	// private key encrypted with passphrase. Called by `idup config init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a DecryptionContext.
	// It fails when the passphrase is wrong.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for one restore.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
