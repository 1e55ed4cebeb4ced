package encryption

import (
	"fmt"

	"idup/internal/config"
	"idup/internal/idup"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration
// type. Type "none" yields a nil Encryptor: snapshots are stored as-is.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (idup.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
