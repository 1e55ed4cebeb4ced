package idup

// Index is the content-addressed store of per-image hash sets.
// Paths passed to an Index must already be canonical absolute paths.
type Index interface {
	// Save replaces the hash set of the image at path, creating the image
	// row on first sight. All prior hash and partial hash records of the
	// image are removed first. The whole save is one transaction.
	Save(path string, records []HashRecord) error

	// ExactMatch returns the other images that share at least one exact
	// fingerprint with the image at path.
	ExactMatch(path string) ([]string, error)

	// ExactMatches returns every group of images sharing an exact
	// fingerprint, largest groups first.
	ExactMatches() ([]DuplicateGroup, error)

	// FindImage returns the image at path, or nil if it is not indexed.
	FindImage(path string) (*Image, error)

	// HashesForImage returns the stored records of the image at path.
	HashesForImage(path string) ([]HashRecord, error)

	// PartialHashesForImage returns the stored partial hashes, by sequence.
	PartialHashesForImage(path string) ([]PartialHashRecord, error)

	// CountImages returns the number of indexed images.
	CountImages() (int64, error)

	// Scan history

	CreateScan(scan *ScanRecord) error
	FinishScan(scan *ScanRecord) error
	ListScans(limit int) ([]*ScanRecord, error)

	// BackupTo writes a consistent copy of the index to destPath.
	BackupTo(destPath string) error

	// Close closes the index.
	Close() error
}
