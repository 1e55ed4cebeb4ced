package testutil

import (
	"idup/internal/encryption"
	"idup/internal/idup"
)

// NewTestEncryptor creates a deterministic encryptor for snapshot tests.
func NewTestEncryptor() idup.Encryptor {
	return encryption.NewTestEncryptor()
}
