package idup

import "io"

// Vault stores index snapshots off the local machine.
// All operations stream through io.Reader/io.Writer.
type Vault interface {
	// PutSnapshot stores a named snapshot for a host. size is the number of
	// bytes that will be read from r. version is stored alongside it.
	PutSnapshot(hostID string, name string, r io.Reader, size int64, version int64) error

	// GetSnapshot writes the named snapshot of a host to w.
	GetSnapshot(hostID string, name string, w io.Writer) error

	// SnapshotVersion returns the version of the named snapshot, or 0 if
	// none has been stored.
	SnapshotVersion(hostID string, name string) (int64, error)

	// ValidateSetup verifies that the vault is accessible.
	ValidateSetup() error
}
