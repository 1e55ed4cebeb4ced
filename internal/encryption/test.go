package encryption

import (
	"bytes"
	"fmt"
	"io"

	"idup/internal/idup"
)

// testMagic marks snapshots written by TestEncryptor.
var testMagic = []byte("IDUPTEST")

// TestEncryptor frames data with a fixed marker instead of encrypting it.
// Output differs from the input and round-trips without keys, which is all
// snapshot tests need.
type TestEncryptor struct {
	setupCalled bool
}

var _ idup.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testMagic); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

// Unlock accepts any passphrase except "wrong", so callers can exercise the
// failure path.
func (e *TestEncryptor) Unlock(passphrase string) (idup.DecryptionContext, error) {
	if passphrase == "wrong" {
		return nil, fmt.Errorf("unlocking private key: incorrect passphrase")
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext strips the marker added by TestEncryptor.
type TestDecryptionContext struct{}

var _ idup.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	marker := make([]byte, len(testMagic))
	if _, err := io.ReadFull(r, marker); err != nil {
		return fmt.Errorf("reading marker: %w", err)
	}
	if !bytes.Equal(marker, testMagic) {
		return fmt.Errorf("not a test-encrypted snapshot")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
