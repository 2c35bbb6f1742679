package dirsum

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PathDigester is what the tree aggregator needs from each entry: a path,
// a possibly-unset digest, and a way to compute it.
type PathDigester interface {
	// Path returns the path the entry was created with.
	Path() string
	// Digest returns the entry's content digest and whether it has been
	// computed yet.
	Digest() (Digest, bool)
	// ComputeDigest computes and stores the content digest. Calling it
	// again rereads the content.
	ComputeDigest() error
}

// FileRecord is a PathDigester backed by a regular file on disk.
type FileRecord struct {
	path   string
	digest Digest
	ok     bool
}

// NewFileRecord validates path and returns a record with no digest computed
// yet. The path must be absolute and must point, through symlinks if any, to
// a regular file.
func NewFileRecord(path string) (*FileRecord, error) {
	if !filepath.IsAbs(path) {
		return nil, errors.Join(ErrNotAbsolute, fmt.Errorf("file path %q must be absolute", path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if kind, bad := invalidKindOf(info.Mode()); bad {
		return nil, &InvalidFileTypeError{Kind: kind, Path: path}
	}
	return &FileRecord{path: path}, nil
}

// invalidKindOf maps a file mode to the entry kind that cannot be hashed.
// Character devices also carry the plain device bit, so they must be tested
// before block devices.
func invalidKindOf(mode os.FileMode) (InvalidKind, bool) {
	switch {
	case mode.IsDir():
		return KindDir, true
	case mode&os.ModeCharDevice == os.ModeCharDevice:
		return KindCharDevice, true
	case mode&os.ModeDevice == os.ModeDevice:
		return KindBlockDevice, true
	case mode&os.ModeNamedPipe == os.ModeNamedPipe:
		return KindFIFO, true
	case mode&os.ModeSocket == os.ModeSocket:
		return KindSocket, true
	}
	return 0, false
}

// Path returns the file path the record was created with.
func (f *FileRecord) Path() string {
	return f.path
}

// Digest returns the stored digest and whether ComputeDigest has run yet.
func (f *FileRecord) Digest() (Digest, bool) {
	return f.digest, f.ok
}

// ComputeDigest reads the file and stores the SHA-256 digest of its content.
// Calling it again rereads the file, so a caller holding a stale digest can
// refresh it.
func (f *FileRecord) ComputeDigest() error {
	d, err := GetFileHash(f.path)
	if err != nil {
		return fmt.Errorf("hash %s: %w", f.path, err)
	}
	f.digest = d
	f.ok = true
	return nil
}
