package idup

import "io/fs"

// Path is a canonical absolute filesystem path with cached metadata.
// Paths are created by FilesystemManager.Resolve, which makes the path
// absolute, resolves symbolic links and stats the target. Two raw paths
// that name the same file resolve to equal Path strings.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the canonical path.
func (p *Path) String() string {
	return p.absPath
}

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the file info cached when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}
