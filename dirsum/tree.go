package dirsum

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// TreeHash aggregates per-file digests into one digest for a whole tree.
// Configure it with the With* methods, then call ComputeHash:
//
//	th, err := NewTreeHash().WithFilesFromDir(dir, true, WalkOptions{})
//	if err != nil { ... }
//	if err := th.ComputeHash(); err != nil { ... }
//	digest, _ := th.Digest()
//
// Entries that already carry a digest are not rehashed, so precomputed
// digests can be aggregated without touching the filesystem.
type TreeHash struct {
	root    string
	files   []PathDigester
	table   *HashTable
	digest  *Digest
	ignored []IgnoredEntry
}

// NewTreeHash returns an empty TreeHash.
func NewTreeHash() *TreeHash {
	return &TreeHash{}
}

// WithRoot declares the path prefix that entry paths are relativized
// against when the digest is computed.
func (t *TreeHash) WithRoot(root string) *TreeHash {
	t.root = root
	return t
}

// WithFiles replaces the set of entries to aggregate.
func (t *TreeHash) WithFiles(files []PathDigester) *TreeHash {
	t.files = files
	return t
}

// WithFilesFromDir walks dir and replaces the entry set with the regular
// files found there. Entries the walk excluded are available through
// Ignored. With setRoot, dir also becomes the root, so rendered paths come
// out "./"-relative.
func (t *TreeHash) WithFilesFromDir(dir string, setRoot bool, opts WalkOptions) (*TreeHash, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	records, ignored, err := WalkTree(absDir, opts)
	if err != nil {
		return nil, err
	}
	files := make([]PathDigester, 0, len(records))
	for _, rec := range records {
		files = append(files, rec)
	}
	t.files = files
	t.ignored = ignored
	if setRoot {
		t.root = absDir
	}
	return t, nil
}

// ComputeHash computes each entry's digest where missing, assembles the
// canonical table, and digests its rendering. On success Digest and Table
// report the results; on any error both are left untouched, so a fresh
// instance stays unset.
//
// Calling ComputeHash again reuses the per-entry digests already present
// and is idempotent while the inputs are unchanged.
func (t *TreeHash) ComputeHash() error {
	table := &HashTable{}
	for _, f := range t.files {
		if _, ok := f.Digest(); !ok {
			if err := f.ComputeDigest(); err != nil {
				return err
			}
		}
		d, ok := f.Digest()
		if !ok {
			return errors.Join(ErrUnknown, fmt.Errorf("no digest for %s after compute", f.Path()))
		}
		path, err := relativize(f.Path(), t.root)
		if err != nil {
			return err
		}
		table.Add(HashEntry{Digest: d, Path: path})
	}
	table.Sort()

	h := sha256.New()
	if err := table.render(h); err != nil {
		return err
	}
	var d Digest
	copy(d[:], h.Sum(nil))

	t.table = table
	t.digest = &d
	return nil
}

// relativize rewrites path against root: the root prefix is dropped and
// replaced with "./". An empty root leaves the path untouched. The prefix
// must match on a path component boundary, so root "/pre/fix" does not
// match "/pre/fixother".
func relativize(path, root string) (string, error) {
	if root == "" {
		return path, nil
	}
	if path == root {
		return "./", nil
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", errors.Join(ErrRootMismatch, fmt.Errorf("root %s is not a prefix of %s", root, path))
	}
	return "./" + rest, nil
}

// Root returns the declared root prefix, or "" when none is set.
func (t *TreeHash) Root() string {
	return t.root
}

// Digest returns the aggregated tree digest and whether ComputeHash has
// succeeded yet.
func (t *TreeHash) Digest() (Digest, bool) {
	if t.digest == nil {
		return Digest{}, false
	}
	return *t.digest, true
}

// Table returns the canonical table from the last successful ComputeHash,
// or nil.
func (t *TreeHash) Table() *HashTable {
	return t.table
}

// Ignored returns the entries the last walk excluded from hashing.
func (t *TreeHash) Ignored() []IgnoredEntry {
	return t.ignored
}
