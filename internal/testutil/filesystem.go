package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"idup/internal/idup"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths are
// slash-separated and absolute. Parent directories are created implicitly.
// It is safe for concurrent use, as scan workers open files in parallel.
type MockFilesystemManager struct {
	mu       sync.RWMutex
	files    map[string]*MockFile
	links    map[string]string // link path -> target path
	ignored  map[string]bool
	openErrs map[string]error
	opened   map[string]int
}

// NewMockFilesystemManager creates a new mock filesystem with an empty root.
func NewMockFilesystemManager() *MockFilesystemManager {
	m := &MockFilesystemManager{
		files:    make(map[string]*MockFile),
		links:    make(map[string]string),
		ignored:  make(map[string]bool),
		openErrs: make(map[string]error),
		opened:   make(map[string]int),
	}
	m.files["/"] = &MockFile{Permissions: 0755, IsDirectory: true}
	return m
}

// AddFile adds a file, creating missing parent directories.
func (m *MockFilesystemManager) AddFile(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(path.Dir(p))
	m.files[p] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddDirectory adds a directory, creating missing parents.
func (m *MockFilesystemManager) AddDirectory(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(p)
}

// AddSymlink makes link resolve to target. target must already exist.
func (m *MockFilesystemManager) AddSymlink(link, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(path.Dir(link))
	m.links[link] = target
}

// Ignore marks p as matching an ignore pattern.
func (m *MockFilesystemManager) Ignore(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignored[p] = true
}

// FailOpen makes Open of p return err.
func (m *MockFilesystemManager) FailOpen(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[p] = err
}

// OpenCount returns how many times p was opened.
func (m *MockFilesystemManager) OpenCount(p string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opened[p]
}

func (m *MockFilesystemManager) mkdirAll(p string) {
	for dir := p; ; dir = path.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{Permissions: 0755, ModTime: time.Now(), IsDirectory: true}
		}
		if dir == "/" || dir == "." {
			return
		}
	}
}

// canonical follows symlinks in every component of p.
func (m *MockFilesystemManager) canonical(p string) (string, error) {
	p = path.Clean(p)
	for hops := 0; hops < 40; hops++ {
		changed := false
		for link, target := range m.links {
			if p == link || strings.HasPrefix(p, link+"/") {
				p = target + strings.TrimPrefix(p, link)
				changed = true
				break
			}
		}
		if !changed {
			return p, nil
		}
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", p)
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*idup.Path, error) {
	if !path.IsAbs(rawPath) {
		rawPath = "/" + rawPath
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	canon, err := m.canonical(rawPath)
	if err != nil {
		return nil, err
	}
	file, ok := m.files[canon]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", canon)
	}

	info := &mockFileInfo{
		name:     path.Base(canon),
		size:     int64(len(file.Content)),
		mode:     file.Permissions,
		modTime:  file.ModTime,
		isDir:    file.IsDirectory,
		mockFile: file,
	}
	return idup.NewPath(canon, file.IsDirectory, info), nil
}

// ReadDir lists files, directories and symlinks directly under dir, sorted.
func (m *MockFilesystemManager) ReadDir(dir *idup.Path) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[dir.String()]
	if !ok {
		return nil, fmt.Errorf("directory not found: %s", dir.String())
	}
	if !file.IsDirectory {
		return nil, fmt.Errorf("not a directory: %s", dir.String())
	}

	var entries []string
	add := func(p string) {
		if p != dir.String() && path.Dir(p) == dir.String() {
			entries = append(entries, p)
		}
	}
	for p := range m.files {
		add(p)
	}
	for p := range m.links {
		add(p)
	}
	sort.Strings(entries)
	return entries, nil
}

func (m *MockFilesystemManager) Open(p *idup.Path) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.opened[p.String()]++
	if err, ok := m.openErrs[p.String()]; ok {
		return nil, err
	}
	file, ok := m.files[p.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", p.String())
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) IsIgnored(p *idup.Path, root string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ignored[p.String()], nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ idup.FilesystemManager = (*MockFilesystemManager)(nil)
