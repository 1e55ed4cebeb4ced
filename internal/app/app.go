package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"idup/internal/codec"
	"idup/internal/config"
	"idup/internal/database"
	"idup/internal/encryption"
	"idup/internal/fs"
	"idup/internal/idup"
	"idup/internal/sniff"
	"idup/internal/vault"
)

// IdupApp is the application layer between the CLI and IdupService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and closes the index on Close.
type IdupApp struct {
	cfg       *config.Config
	index     *database.SQLiteIndex
	fsmgr     idup.FilesystemManager
	snapshots *idup.SnapshotStore
	service   *idup.IdupService
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
}

// NewIdupApp creates a fully wired IdupApp from the given config.
// operation names the CLI command being run (e.g. "Scan", "List").
// The caller must call Close when done.
func NewIdupApp(cfg *config.Config, operation string, verbose bool) (*IdupApp, error) {
	op := NewOperation(operation)
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	index, err := database.NewIndexFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening index: %w", err)
	}

	if err := index.CheckMigrations(); err != nil {
		index.Close()
		logFile.Close()
		return nil, fmt.Errorf("index schema out of date: %w", err)
	}

	snapshots, err := newSnapshotStore(cfg, logger)
	if err != nil {
		index.Close()
		logFile.Close()
		return nil, err
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Scan.Ignore)
	svc := idup.NewIdupService(index, codec.NewImagingCodec(), sniff.NewMimeClassifier(), fsmgr,
		&slogAdapter{l: logger}, idup.RealClock{}, idup.UUIDGenerator{}, cfg.Scan.Workers)

	logger.Debug("operation started", "operation", op.Name, "index", index.Path())

	return &IdupApp{
		cfg:       cfg,
		index:     index,
		fsmgr:     fsmgr,
		snapshots: snapshots,
		service:   svc,
		op:        op,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// newSnapshotStore wires the first configured vault and the encryptor. With
// no vault configured the store reports idup.ErrNoVault when used.
func newSnapshotStore(cfg *config.Config, logger *slog.Logger) (*idup.SnapshotStore, error) {
	var v idup.Vault
	if len(cfg.Vaults) > 0 {
		var err error
		v, err = vault.NewVaultFromConfig(cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	return idup.NewSnapshotStore(v, enc, cfg.HostID, &slogAdapter{l: logger}, idup.RealClock{}), nil
}

// Scan resolves rawPath and indexes every image under it.
func (a *IdupApp) Scan(ctx context.Context, rawPath string, opts idup.ScanOptions) (*idup.ScanSummary, error) {
	summary, err := a.service.Scan(ctx, rawPath, opts)
	return summary, a.op.Fail(err)
}

// ExactMatch resolves rawPath and returns its indexed exact duplicates.
func (a *IdupApp) ExactMatch(rawPath string) ([]string, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("resolving path: %w", err))
	}
	matches, err := a.service.ExactMatch(p)
	return matches, a.op.Fail(err)
}

// ExactMatches returns every duplicate cluster in the index.
func (a *IdupApp) ExactMatches() ([]idup.DuplicateGroup, error) {
	groups, err := a.service.ExactMatches()
	return groups, a.op.Fail(err)
}

// Info resolves rawPath and describes its hash set.
func (a *IdupApp) Info(rawPath string) (*idup.ImageInfo, error) {
	p, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("resolving path: %w", err))
	}
	info, err := a.service.Info(p)
	return info, a.op.Fail(err)
}

// Compare resolves both paths and returns their perceptual distance.
func (a *IdupApp) Compare(rawA, rawB string) (*idup.Comparison, error) {
	pa, err := a.fsmgr.Resolve(rawA)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("resolving path: %w", err))
	}
	pb, err := a.fsmgr.Resolve(rawB)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("resolving path: %w", err))
	}
	cmp, err := a.service.Compare(pa, pb)
	return cmp, a.op.Fail(err)
}

// GetHistory returns the most recent scans.
func (a *IdupApp) GetHistory(limit int) ([]*idup.ScanRecord, error) {
	scans, err := a.service.GetHistory(limit)
	return scans, a.op.Fail(err)
}

// Backup uploads a snapshot of the index to the configured vault.
func (a *IdupApp) Backup() (int64, error) {
	version, err := a.snapshots.Backup(a.index)
	return version, a.op.Fail(err)
}

// Close finalizes the operation and closes all resources.
func (a *IdupApp) Close() error {
	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status, "elapsed", a.op.Elapsed())

	var firstErr error
	if err := a.index.Close(); err != nil {
		firstErr = fmt.Errorf("closing index: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// RestoreIndex replaces the local index with the latest vault snapshot. It
// never opens the index, so it also works when the local database is
// missing or unreadable. passphrase is only called when snapshots are
// encrypted.
func RestoreIndex(cfg *config.Config, force, verbose bool, passphrase func() (string, error)) (int64, error) {
	if cfg.Database.Type != "sqlite" {
		return 0, fmt.Errorf("restore needs a sqlite index, database type is %q", cfg.Database.Type)
	}

	op := NewOperation("Restore")
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return 0, fmt.Errorf("creating logger: %w", err)
	}
	defer logFile.Close()

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return 0, fmt.Errorf("creating encryptor: %w", err)
	}

	var decryptCtx idup.DecryptionContext
	if enc != nil {
		pass, err := passphrase()
		if err != nil {
			return 0, fmt.Errorf("reading passphrase: %w", err)
		}
		decryptCtx, err = enc.Unlock(pass)
		if err != nil {
			return 0, err
		}
	}

	store, err := newSnapshotStore(cfg, logger)
	if err != nil {
		return 0, err
	}
	return store.Restore(cfg.Database.Path(), decryptCtx, force)
}

// InitConfig writes cfg to path. When snapshot encryption is enabled it
// also generates the key pair, sealing it with the passphrase.
func InitConfig(path string, cfg *config.Config, passphrase func() (string, error)) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}

	if err := config.Init(path, cfg); err != nil {
		return err
	}

	if enc == nil || enc.IsConfigured() {
		return nil
	}
	pass, err := passphrase()
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	if err := enc.Setup(pass); err != nil {
		return fmt.Errorf("generating encryption keys: %w", err)
	}
	return nil
}
