// Package database implements the content-addressed index on SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"idup/internal/database/migrations"
	"idup/internal/database/sqlc"
	"idup/internal/idup"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteIndex implements idup.Index using SQLite.
type SQLiteIndex struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteIndex opens the index at path, creating it and applying pending
// migrations as needed. path can be a file path or ":memory:".
func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating index: %w", err)
	}

	return &SQLiteIndex{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteIndexFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly
// configured and the schema is applied.
func NewSQLiteIndexFromDB(db *sql.DB) *SQLiteIndex {
	return &SQLiteIndex{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens and configures a SQLite database connection.
// Exported for tools and tests that need a properly configured connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes every writer, and keeps ":memory:" a single
	// database rather than one per pooled connection.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// checkPath rejects paths that are not canonical absolute paths.
func checkPath(path string) error {
	if !filepath.IsAbs(path) || filepath.Clean(path) != path {
		return fmt.Errorf("path is not canonical: %q", path)
	}
	return nil
}

// Images and hashes

// Save replaces the hash set of the image at path in one transaction. The
// partial hashes are derived from the perceptual hash record, if any.
func (s *SQLiteIndex) Save(path string, records []idup.HashRecord) error {
	if err := checkPath(path); err != nil {
		return err
	}

	var partials []idup.PartialHashRecord
	if v, ok, err := idup.PHashOf(records); err != nil {
		return err
	} else if ok {
		partials = idup.SplitPHash(v)
	}

	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	if err := qtx.InsertImage(ctx, path); err != nil {
		return fmt.Errorf("inserting image: %w", err)
	}
	img, err := qtx.GetImageByPath(ctx, path)
	if err != nil {
		return fmt.Errorf("finding image: %w", err)
	}

	if err := qtx.DeleteHashesForImage(ctx, img.ImagesID); err != nil {
		return fmt.Errorf("clearing hashes: %w", err)
	}
	if err := qtx.DeletePartialHashesForImage(ctx, img.ImagesID); err != nil {
		return fmt.Errorf("clearing partial hashes: %w", err)
	}

	for _, r := range records {
		err := qtx.UpsertHash(ctx, sqlc.UpsertHashParams{
			ImagesID: img.ImagesID,
			Kind:     r.Kind.String(),
			Hash:     r.Hash,
		})
		if err != nil {
			return fmt.Errorf("storing %s hash: %w", r.Kind, err)
		}
	}

	for _, p := range partials {
		err := qtx.UpsertPartialHash(ctx, sqlc.UpsertPartialHashParams{
			ImagesID: img.ImagesID,
			Sequence: int64(p.Sequence),
			PartHash: p.PartHash,
		})
		if err != nil {
			return fmt.Errorf("storing partial hash %d: %w", p.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) findImage(ctx context.Context, path string) (*sqlc.Image, error) {
	img, err := s.queries.GetImageByPath(ctx, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding image by path: %w", err)
	}
	return &img, nil
}

func (s *SQLiteIndex) FindImage(path string) (*idup.Image, error) {
	img, err := s.findImage(context.Background(), path)
	if err != nil || img == nil {
		return nil, err
	}
	return &idup.Image{ID: img.ImagesID, Path: img.Path}, nil
}

// HashesForImage returns the stored records in HashKind order. An image
// that is not indexed has no records.
func (s *SQLiteIndex) HashesForImage(path string) ([]idup.HashRecord, error) {
	ctx := context.Background()
	img, err := s.findImage(ctx, path)
	if err != nil || img == nil {
		return nil, err
	}

	rows, err := s.queries.ListHashesForImage(ctx, img.ImagesID)
	if err != nil {
		return nil, fmt.Errorf("listing hashes: %w", err)
	}

	records := make([]idup.HashRecord, 0, len(rows))
	for _, row := range rows {
		kind, err := idup.ParseHashKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", path, err)
		}
		records = append(records, idup.HashRecord{Kind: kind, Hash: row.Hash})
	}
	slices.SortFunc(records, func(a, b idup.HashRecord) int { return int(a.Kind) - int(b.Kind) })
	return records, nil
}

func (s *SQLiteIndex) PartialHashesForImage(path string) ([]idup.PartialHashRecord, error) {
	ctx := context.Background()
	img, err := s.findImage(ctx, path)
	if err != nil || img == nil {
		return nil, err
	}

	rows, err := s.queries.ListPartialHashesForImage(ctx, img.ImagesID)
	if err != nil {
		return nil, fmt.Errorf("listing partial hashes: %w", err)
	}
	return lo.Map(rows, func(row sqlc.PartialHash, _ int) idup.PartialHashRecord {
		return idup.PartialHashRecord{Sequence: int(row.Sequence), PartHash: row.PartHash}
	}), nil
}

func (s *SQLiteIndex) CountImages() (int64, error) {
	n, err := s.queries.CountImages(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting images: %w", err)
	}
	return n, nil
}

// Duplicate queries

// ExactMatch returns the other images sharing any exact fingerprint with
// the image at path. Kinds need not agree, which is what lets a rotated copy
// match through its rotated pixel digest.
func (s *SQLiteIndex) ExactMatch(path string) ([]string, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	ctx := context.Background()
	img, err := s.findImage(ctx, path)
	if err != nil || img == nil {
		return nil, err
	}

	paths, err := s.queries.FindExactMatches(ctx, sqlc.FindExactMatchesParams{
		ImagesID: img.ImagesID,
		Kind:     idup.ExactKindPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("finding exact matches: %w", err)
	}
	return paths, nil
}

// ExactMatches returns every shared exact fingerprint as a group, largest
// first. Groups with the same members are reported once.
func (s *SQLiteIndex) ExactMatches() ([]idup.DuplicateGroup, error) {
	rows, err := s.queries.ListDuplicateHashes(context.Background(), idup.ExactKindPattern)
	if err != nil {
		return nil, fmt.Errorf("listing duplicate hashes: %w", err)
	}

	var groups []idup.DuplicateGroup
	for _, row := range rows {
		if n := len(groups); n > 0 && groups[n-1].Hash == row.Hash {
			groups[n-1].Paths = append(groups[n-1].Paths, row.Path)
			continue
		}
		groups = append(groups, idup.DuplicateGroup{Hash: row.Hash, Paths: []string{row.Path}})
	}

	return lo.UniqBy(groups, func(g idup.DuplicateGroup) string {
		return strings.Join(g.Paths, "\x00")
	}), nil
}

// Scan history

func (s *SQLiteIndex) CreateScan(scan *idup.ScanRecord) error {
	err := s.queries.InsertScan(context.Background(), sqlc.InsertScanParams{
		ID:        scan.ID,
		Root:      scan.Root,
		Recursive: scan.Recursive,
		StartedAt: scan.StartedAt,
		Status:    scan.Status,
	})
	if err != nil {
		return fmt.Errorf("creating scan: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) FinishScan(scan *idup.ScanRecord) error {
	err := s.queries.FinishScan(context.Background(), sqlc.FinishScanParams{
		FinishedAt:   scan.FinishedAt,
		Status:       scan.Status,
		FilesSeen:    scan.FilesSeen,
		ImagesHashed: scan.ImagesHashed,
		Skipped:      scan.Skipped,
		Failed:       scan.Failed,
		ID:           scan.ID,
	})
	if err != nil {
		return fmt.Errorf("finishing scan: %w", err)
	}
	return nil
}

// ListScans returns up to limit scans, newest first.
func (s *SQLiteIndex) ListScans(limit int) ([]*idup.ScanRecord, error) {
	rows, err := s.queries.ListScans(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	scans := make([]*idup.ScanRecord, len(rows))
	for i, row := range rows {
		scans[i] = &idup.ScanRecord{
			ID:           row.ID,
			Root:         row.Root,
			Recursive:    row.Recursive,
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
			Status:       row.Status,
			FilesSeen:    row.FilesSeen,
			ImagesHashed: row.ImagesHashed,
			Skipped:      row.Skipped,
			Failed:       row.Failed,
		}
	}
	return scans, nil
}

// Path returns the file path of the index, empty for wrapped connections.
func (s *SQLiteIndex) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteIndex) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteIndex) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteIndex implements idup.Index
var _ idup.Index = (*SQLiteIndex)(nil)
