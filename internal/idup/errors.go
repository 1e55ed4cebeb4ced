package idup

import "errors"

var (
	// ErrDecode means the file could not be decoded as an image.
	ErrDecode = errors.New("decode error")
	// ErrIO means the filesystem could not be read.
	ErrIO = errors.New("io error")
	// ErrStorage means the index rejected a read or write.
	ErrStorage = errors.New("storage error")
	// ErrNotIndexed means the path has no image row in the index.
	ErrNotIndexed = errors.New("image not indexed")
	// ErrNoSnapshot means the vault holds no index snapshot.
	ErrNoSnapshot = errors.New("no index snapshot in vault")
)

// ErrNoVault means a snapshot operation was requested without a vault.
var ErrNoVault = errors.New("no vault configured")
