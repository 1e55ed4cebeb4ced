package idup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotName is the vault name under which index snapshots are stored.
const SnapshotName = "index"

// SnapshotStore copies the index to and from a vault, encrypting it when an
// Encryptor is configured.
type SnapshotStore struct {
	vault     Vault
	encryptor Encryptor
	hostID    string
	logger    Logger
	clock     Clock
}

// NewSnapshotStore creates a SnapshotStore. encryptor may be nil, in which
// case snapshots are stored in plaintext.
func NewSnapshotStore(vault Vault, encryptor Encryptor, hostID string, logger Logger, clock Clock) *SnapshotStore {
	return &SnapshotStore{
		vault:     vault,
		encryptor: encryptor,
		hostID:    hostID,
		logger:    logger,
		clock:     clock,
	}
}

// Backup writes a consistent copy of index to the vault. The snapshot
// version is the current Unix time; it is returned.
func (s *SnapshotStore) Backup(index Index) (int64, error) {
	if s.vault == nil {
		return 0, ErrNoVault
	}

	tmpDir, err := os.MkdirTemp("", "idup-snapshot-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	plainPath := filepath.Join(tmpDir, "index.db3")
	if err := index.BackupTo(plainPath); err != nil {
		return 0, fmt.Errorf("%w: snapshotting index: %v", ErrStorage, err)
	}

	uploadPath := plainPath
	if s.encryptor != nil {
		uploadPath = plainPath + ".age"
		if err := s.encryptFile(plainPath, uploadPath); err != nil {
			return 0, err
		}
	}

	f, err := os.Open(uploadPath)
	if err != nil {
		return 0, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat snapshot: %w", err)
	}

	version := s.clock.Now().Unix()
	if err := s.vault.PutSnapshot(s.hostID, SnapshotName, f, info.Size(), version); err != nil {
		return 0, fmt.Errorf("uploading snapshot: %w", err)
	}

	s.logger.Info("index snapshot uploaded", "version", version, "size", info.Size(), "encrypted", s.encryptor != nil)
	return version, nil
}

func (s *SnapshotStore) encryptFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}
	if err := s.encryptor.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Close()
}

// Restore downloads the latest snapshot and writes it to destPath. An
// existing file at destPath is only replaced when force is set.
// decryptCtx is required when snapshots are encrypted. The snapshot version
// is returned.
func (s *SnapshotStore) Restore(destPath string, decryptCtx DecryptionContext, force bool) (int64, error) {
	if s.vault == nil {
		return 0, ErrNoVault
	}
	if s.encryptor != nil && decryptCtx == nil {
		return 0, fmt.Errorf("snapshot is encrypted but no passphrase was provided")
	}

	if _, err := os.Stat(destPath); err == nil && !force {
		return 0, fmt.Errorf("index already exists at %s (use --force to overwrite)", destPath)
	}

	version, err := s.vault.SnapshotVersion(s.hostID, SnapshotName)
	if err != nil {
		return 0, fmt.Errorf("checking snapshot version: %w", err)
	}
	if version == 0 {
		return 0, ErrNoSnapshot
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".idup-restore-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := s.fetch(tmp, decryptCtx); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("replacing index: %w", err)
	}

	s.logger.Info("index snapshot restored", "version", version, "path", destPath)
	return version, nil
}

// fetch streams the snapshot into w, through the decryptor when needed.
func (s *SnapshotStore) fetch(w io.Writer, decryptCtx DecryptionContext) error {
	if decryptCtx == nil {
		if err := s.vault.GetSnapshot(s.hostID, SnapshotName, w); err != nil {
			return fmt.Errorf("downloading snapshot: %w", err)
		}
		return nil
	}

	pr, pw := io.Pipe()
	vaultErrCh := make(chan error, 1)
	go func() {
		err := s.vault.GetSnapshot(s.hostID, SnapshotName, pw)
		pw.CloseWithError(err)
		vaultErrCh <- err
	}()

	decryptErr := decryptCtx.Decrypt(pr, w)
	pr.CloseWithError(decryptErr)
	vaultErr := <-vaultErrCh

	if vaultErr != nil {
		return fmt.Errorf("downloading snapshot: %w", vaultErr)
	}
	if decryptErr != nil {
		return fmt.Errorf("decrypting snapshot: %w", decryptErr)
	}
	return nil
}
