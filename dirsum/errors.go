package dirsum

import (
	"errors"
	"fmt"
)

// Sentinel errors for package dirsum.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File record errors
	ErrNotAbsolute = errors.New("file path is not absolute")

	// Tree hash errors
	ErrRootMismatch = errors.New("root is not a prefix of the entry path")
	ErrUnknown      = errors.New("entry has no digest after compute")
)

// InvalidKind identifies a directory entry type that has no hashable content.
type InvalidKind int

const (
	KindDir InvalidKind = iota
	KindBlockDevice
	KindCharDevice
	KindFIFO
	KindSocket
)

func (k InvalidKind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindBlockDevice:
		return "block device"
	case KindCharDevice:
		return "character device"
	case KindFIFO:
		return "FIFO"
	case KindSocket:
		return "socket"
	}
	return "unknown"
}

// InvalidFileTypeError reports an entry whose type cannot be content-hashed.
// Callers can extract it with errors.As to learn the kind and the offending
// path.
type InvalidFileTypeError struct {
	Kind InvalidKind
	Path string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("expected regular file, found %s at %s", e.Kind, e.Path)
}
