package idup

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Image is an indexed file, identified by its canonical absolute path.
type Image struct {
	ID   int64
	Path string
}

// HashRecord is one fingerprint of an image. An image holds at most one
// record per kind.
type HashRecord struct {
	Kind HashKind
	Hash string
}

// PartialHashRecord is a fixed-width chunk of an image's perceptual hash in
// hex. Records are written with every save but no query matches on them yet.
type PartialHashRecord struct {
	Sequence int
	PartHash string
}

// DuplicateGroup is a set of images that share an exact fingerprint.
type DuplicateGroup struct {
	Hash  string
	Paths []string
}

// Size returns the number of images in the group.
func (g DuplicateGroup) Size() int {
	return len(g.Paths)
}

// Scan statuses recorded in the scan history.
const (
	ScanRunning     = "running"
	ScanSuccess     = "success"
	ScanInterrupted = "interrupted"
	ScanError       = "error"
)

// ScanRecord is one entry in the scan history.
type ScanRecord struct {
	ID           string
	Root         string
	Recursive    bool
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	Status       string
	FilesSeen    int64
	ImagesHashed int64
	Skipped      int64
	Failed       int64
}

// partialChunkLen is the number of hex characters per partial hash.
const partialChunkLen = 4

// FormatPHash renders a perceptual hash the way it is stored.
func FormatPHash(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// ParsePHash parses a stored perceptual hash.
func ParsePHash(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing phash %q: %w", s, err)
	}
	return v, nil
}

// SplitPHash chunks the 16-character hex form of a perceptual hash into
// partial hash records, in order.
func SplitPHash(v uint64) []PartialHashRecord {
	hex := fmt.Sprintf("%016x", v)
	parts := make([]PartialHashRecord, 0, len(hex)/partialChunkLen)
	for i := 0; i < len(hex); i += partialChunkLen {
		parts = append(parts, PartialHashRecord{
			Sequence: i / partialChunkLen,
			PartHash: hex[i : i+partialChunkLen],
		})
	}
	return parts
}

// PHashOf returns the perceptual hash in records, if present.
func PHashOf(records []HashRecord) (uint64, bool, error) {
	for _, r := range records {
		if r.Kind == KindPHash {
			v, err := ParsePHash(r.Hash)
			if err != nil {
				return 0, false, err
			}
			return v, true, nil
		}
	}
	return 0, false, nil
}
