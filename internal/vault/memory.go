package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"idup/internal/idup"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It is useful for testing and is safe for concurrent use.
type MemoryVault struct {
	name      string
	snapshots map[string][]byte // "hostID/name" -> snapshot
	versions  map[string]int64  // "hostID/name" -> version
	mu        sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		snapshots: make(map[string][]byte),
		versions:  make(map[string]int64),
	}
}

// snapshotKey returns the map key for a host/name pair.
func snapshotKey(hostID, name string) string {
	return hostID + "/" + name
}

// PutSnapshot stores a snapshot, replacing any previous one.
func (m *MemoryVault) PutSnapshot(hostID string, name string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := snapshotKey(hostID, name)
	m.snapshots[key] = data
	m.versions[key] = version
	return nil
}

// GetSnapshot writes a stored snapshot to w.
func (m *MemoryVault) GetSnapshot(hostID string, name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[snapshotKey(hostID, name)]
	if !ok {
		return fmt.Errorf("snapshot %q not found for host: %s", name, hostID)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// SnapshotVersion returns 0 if nothing has been stored for host/name.
func (m *MemoryVault) SnapshotVersion(hostID string, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.versions[snapshotKey(hostID, name)], nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements idup.Vault interface
var _ idup.Vault = (*MemoryVault)(nil)
