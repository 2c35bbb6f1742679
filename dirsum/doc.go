// Package dirsum computes deterministic SHA-256 digests of directory trees.
//
// The digest of a tree is defined through a canonical hash table: every
// regular file below a root is hashed with SHA-256, each digest is paired
// with the file's path, the pairs are sorted by raw digest bytes (path bytes
// break ties), and the rendered table is hashed once more. The rendering
// matches sha256sum output line for line, so the same fingerprint can be
// reproduced with a shell pipeline:
//
//	find DIR -type f -exec sha256sum {} + | LC_ALL=C sort | sha256sum
//
// Key Components:
//
// Content Hashing:
//   - Digest, GetHash, and GetFileHash for SHA-256 content digests
//   - FileRecord for files whose digest is computed lazily and kept until
//     explicitly recomputed
//
// Tree Walking:
//   - WalkTree collects the regular files below a root directory
//   - WalkOptions policies for symlinks, hidden entries, and entry types
//     that have no hashable content (FIFOs, sockets, device nodes)
//   - Excluded entries are reported as IgnoredEntry values, not errors
//
// Canonical Table:
//   - HashTable accumulates digest/path pairs and sorts them into canonical
//     order
//   - The rendered table text is the only persisted representation and can
//     be read back with ParseHashTable
//
// Aggregation:
//   - TreeHash ties the pieces together: configure it with WithRoot,
//     WithFiles, or WithFilesFromDir, then call ComputeHash
//   - Paths are relativized against the root ("./..."), so the digest does
//     not depend on where the tree happens to live
//
// All operations are synchronous. The package does no logging and reports
// every failure through returned errors.
package dirsum
