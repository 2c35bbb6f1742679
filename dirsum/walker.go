package dirsum

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// WalkOptions control which directory entries become hashable records.
// The zero value is the strictest walk: symlinks are skipped, hidden entries
// are skipped, and entry types that cannot be hashed fail the walk.
type WalkOptions struct {
	// FollowSymlinks hashes symlinks through to their targets instead of
	// skipping them. Directory targets are descended under the link path,
	// so a linked subtree appears once per link; link cycles are skipped
	// and recorded.
	FollowSymlinks bool
	// IncludeHidden walks entries whose name starts with a dot. When
	// unset, a hidden directory is pruned whole and recorded once.
	IncludeHidden bool
	// IgnoreInvalidTypes records FIFOs, sockets, and device nodes in the
	// ignored list instead of failing the walk.
	IgnoreInvalidTypes bool
}

// IgnoreReason explains why the walker excluded an entry from hashing.
type IgnoreReason int

const (
	ReasonSymlink IgnoreReason = iota
	ReasonHidden
	ReasonDir
	ReasonBlockDevice
	ReasonCharDevice
	ReasonFIFO
	ReasonSocket
)

func (r IgnoreReason) String() string {
	switch r {
	case ReasonSymlink:
		return "symlink"
	case ReasonHidden:
		return "hidden"
	case ReasonDir:
		return "directory"
	case ReasonBlockDevice:
		return "block device"
	case ReasonCharDevice:
		return "character device"
	case ReasonFIFO:
		return "FIFO"
	case ReasonSocket:
		return "socket"
	}
	return "unknown"
}

// IgnoredEntry records one path the walker excluded and why.
type IgnoredEntry struct {
	Path   string
	Reason IgnoreReason
}

// reasonForKind maps an unhashable entry kind to its ignore reason.
func reasonForKind(k InvalidKind) IgnoreReason {
	switch k {
	case KindBlockDevice:
		return ReasonBlockDevice
	case KindCharDevice:
		return ReasonCharDevice
	case KindFIFO:
		return ReasonFIFO
	case KindSocket:
		return ReasonSocket
	}
	return ReasonDir
}

// WalkTree collects the regular files below root according to opts. Excluded
// entries come back in the second return value; record order is traversal
// order and carries no meaning.
func WalkTree(root string, opts WalkOptions) ([]*FileRecord, []IgnoredEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	w := &treeWalker{opts: opts}
	if err := w.walk(absRoot, canon, nil); err != nil {
		return nil, nil, err
	}
	return w.records, w.ignored, nil
}

type treeWalker struct {
	opts    WalkOptions
	records []*FileRecord
	ignored []IgnoredEntry
}

// walk descends dir recursively. canon is dir's fully resolved path; stack
// holds the resolved paths of dir's ancestors and is used to refuse symlink
// cycles.
func (w *treeWalker) walk(dir, canon string, stack []string) error {
	stack = append(stack, canon)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		// Hidden wins over every other policy, so a hidden symlink is
		// recorded as hidden.
		if !w.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			w.ignored = append(w.ignored, IgnoredEntry{Path: path, Reason: ReasonHidden})
			continue
		}

		if entry.Type()&os.ModeSymlink == os.ModeSymlink {
			if !w.opts.FollowSymlinks {
				w.ignored = append(w.ignored, IgnoredEntry{Path: path, Reason: ReasonSymlink})
				continue
			}
			if err := w.followLink(path, stack); err != nil {
				return err
			}
			continue
		}

		if entry.IsDir() {
			if err := w.walk(path, filepath.Join(canon, name), stack); err != nil {
				return err
			}
			continue
		}

		if err := w.addFile(path); err != nil {
			return err
		}
	}
	return nil
}

// followLink resolves a symlink entry. File targets are hashed under the
// link path; directory targets are descended under the link path unless that
// would re-enter a directory already being walked.
func (w *treeWalker) followLink(path string, stack []string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			w.ignored = append(w.ignored, IgnoredEntry{Path: path, Reason: ReasonSymlink})
			return nil
		}
		return fmt.Errorf("resolve symlink %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.addFile(path)
	}
	canon, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve symlink %s: %w", path, err)
	}
	for _, ancestor := range stack {
		if canon == ancestor {
			w.ignored = append(w.ignored, IgnoredEntry{Path: path, Reason: ReasonSymlink})
			return nil
		}
	}
	return w.walk(path, canon, stack)
}

// addFile turns path into a FileRecord, honoring the invalid-type policy.
func (w *treeWalker) addFile(path string) error {
	rec, err := NewFileRecord(path)
	if err != nil {
		var typeErr *InvalidFileTypeError
		if errors.As(err, &typeErr) && w.opts.IgnoreInvalidTypes {
			w.ignored = append(w.ignored, IgnoredEntry{Path: path, Reason: reasonForKind(typeErr.Kind)})
			return nil
		}
		return err
	}
	w.records = append(w.records, rec)
	return nil
}
