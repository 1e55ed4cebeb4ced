package idup

import "io"

// FilesystemManager abstracts filesystem access so the scan pipeline can be
// tested without touching the real filesystem.
type FilesystemManager interface {
	// Resolve returns the canonical Path for rawPath. It fails when the path
	// does not exist or names something other than a regular file or a
	// directory.
	Resolve(rawPath string) (*Path, error)

	// ReadDir returns the raw paths of the entries of dir.
	ReadDir(dir *Path) ([]string, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// IsIgnored reports whether path matches an ignore pattern, evaluated
	// relative to the scan root.
	IsIgnored(path *Path, root string) (bool, error)
}
