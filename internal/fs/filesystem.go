// Package fs implements idup.FilesystemManager on the real filesystem.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"idup/internal/idup"
)

// OSFilesystemManager is the real filesystem implementation of
// idup.FilesystemManager.
type OSFilesystemManager struct {
	configPatterns []string

	mu       sync.Mutex
	matchers map[string]*IgnoreMatcher // by scan root
}

// NewOSFilesystemManager creates a filesystem manager. ignorePatterns apply
// under every scan root, in addition to the root's own ignore file.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		configPatterns: ignorePatterns,
		matchers:       make(map[string]*IgnoreMatcher),
	}
}

// Resolve returns the canonical form of rawPath: absolute, cleaned, with
// every symbolic link evaluated.
func (m *OSFilesystemManager) Resolve(rawPath string) (*idup.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	canonical, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("evaluating symlinks: %w", err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", canonical)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", canonical)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", canonical)
	}

	return idup.NewPath(canonical, info.IsDir(), info), nil
}

// ReadDir returns the paths of the entries of dir, sorted by name.
func (m *OSFilesystemManager) ReadDir(dir *idup.Path) ([]string, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}
	entries, err := os.ReadDir(dir.String())
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = filepath.Join(dir.String(), entry.Name())
	}
	return paths, nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *idup.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// IsIgnored reports whether path matches the configured patterns or the
// ignore file of root. The ignore file is read once per root.
func (m *OSFilesystemManager) IsIgnored(path *idup.Path, root string) (bool, error) {
	matcher, err := m.matcherFor(root)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(root, path.String())
	if err != nil {
		return false, fmt.Errorf("calculating relative path: %w", err)
	}
	return matcher.Match(rel, path.IsDir()), nil
}

func (m *OSFilesystemManager) matcherFor(root string) (*IgnoreMatcher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if matcher, ok := m.matchers[root]; ok {
		return matcher, nil
	}

	filePatterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(alwaysIgnored)+len(m.configPatterns)+len(filePatterns))
	patterns = append(patterns, alwaysIgnored...)
	patterns = append(patterns, m.configPatterns...)
	patterns = append(patterns, filePatterns...)

	matcher := NewIgnoreMatcher(patterns)
	m.matchers[root] = matcher
	return matcher, nil
}

// Compile-time check that OSFilesystemManager implements idup.FilesystemManager.
var _ idup.FilesystemManager = (*OSFilesystemManager)(nil)
