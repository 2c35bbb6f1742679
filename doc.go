// Package main provides the dirsum command-line interface.
//
// dirsum computes deterministic SHA-256 digests for whole directory trees.
// Every regular file below a root is hashed, the per-file digests are rendered
// into a canonical table, and the digest of that table identifies the tree.
// The same tree produces the same digest on any machine.
//
// The main binary supports multiple subcommands:
//   - hash: Compute the digest (or canonical table) of a directory tree
//   - verify: Recompute a tree and compare against a saved digest or table
//   - count: Count the files a hash run would cover
//   - seed: Generate a test tree for conformance checks
package main
