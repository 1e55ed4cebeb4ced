package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"idup/internal/config"
	"idup/internal/idup"
)

// ErrNotConfigured is returned when the age key pair has not been generated.
var ErrNotConfigured = errors.New("snapshot encryption keys not found; run 'idup config init' first")

// AgeEncryptor encrypts index snapshots to an X25519 recipient. The
// recipient is kept in plaintext next to its identity, which is itself
// sealed with a passphrase (age scrypt).
type AgeEncryptor struct {
	recipientPath string
	identityPath  string
}

var _ idup.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		recipientPath: cfg.PublicKeyPath,
		identityPath:  cfg.PrivateKeyPath,
	}
}

// Setup generates a key pair and seals the identity with passphrase.
// Existing keys are left alone.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if e.IsConfigured() {
		return fmt.Errorf("encryption keys already exist at %s", filepath.Dir(e.identityPath))
	}
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var sealed bytes.Buffer
	w, err := age.Encrypt(&sealed, recipient)
	if err != nil {
		return fmt.Errorf("sealing private key: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return fmt.Errorf("sealing private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("sealing private key: %w", err)
	}

	// The identity goes first so a crash never leaves a recipient without
	// the key that can read its snapshots.
	if err := writeKeyFile(e.identityPath, sealed.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := writeKeyFile(e.recipientPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// Encrypt streams r to w as age ciphertext for the stored recipient.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.loadRecipient()
	if err != nil {
		return err
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Unlock opens the sealed identity with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (idup.DecryptionContext, error) {
	sealed, err := os.Open(e.identityPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("opening private key: %w", err)
	}
	defer sealed.Close()

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	plain, err := age.Decrypt(sealed, scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlocking private key (wrong passphrase?): %w", err)
	}

	identities, err := age.ParseIdentities(plain)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in private key")
	}

	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// IsConfigured returns true if both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.recipientPath, e.identityPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Recipient returns the public key in age's text form.
func (e *AgeEncryptor) Recipient() (string, error) {
	data, err := os.ReadFile(e.recipientPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("reading public key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	text, err := e.Recipient()
	if err != nil {
		return nil, err
	}
	recipient, err := age.ParseX25519Recipient(text)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return recipient, nil
}

func writeKeyFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// AgeDecryptionContext holds an unlocked age identity for one restore.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ idup.DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt reads age ciphertext from r and writes plaintext to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	decReader, err := age.Decrypt(r, c.identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}
