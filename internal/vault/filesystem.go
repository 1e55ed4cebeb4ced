package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"idup/internal/idup"
)

// FileSystemVault stores snapshots as files, typically on a mounted backup
// drive:
//
//	<root>/
//	  snapshots/
//	    <hostID>/
//	      <name>          (snapshot data)
//	      <name>.version  (decimal version)
type FileSystemVault struct {
	name         string
	root         string
	snapshotsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	snapshotsDir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(snapshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &FileSystemVault{
		name:         name,
		root:         root,
		snapshotsDir: snapshotsDir,
	}, nil
}

func (v *FileSystemVault) hostDir(hostID string) string {
	return filepath.Join(v.snapshotsDir, hostID)
}

// PutSnapshot writes the snapshot, then its version. A reader never sees a
// version newer than the data next to it.
func (v *FileSystemVault) PutSnapshot(hostID string, name string, r io.Reader, size int64, version int64) error {
	dir := v.hostDir(hostID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create host directory: %w", err)
	}

	if err := v.writeFile(filepath.Join(dir, name), r, size); err != nil {
		return err
	}

	versionData := strconv.FormatInt(version, 10)
	return v.writeFile(filepath.Join(dir, name+".version"), strings.NewReader(versionData), int64(len(versionData)))
}

// GetSnapshot writes the stored snapshot to w.
func (v *FileSystemVault) GetSnapshot(hostID string, name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(v.hostDir(hostID), name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot %q not found for host: %s", name, hostID)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

// SnapshotVersion returns 0 if no version file exists.
func (v *FileSystemVault) SnapshotVersion(hostID string, name string) (int64, error) {
	data, err := os.ReadFile(filepath.Join(v.hostDir(hostID), name+".version"))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.snapshotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes data from r to destPath using a temp file and rename.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemVault implements idup.Vault interface
var _ idup.Vault = (*FileSystemVault)(nil)
