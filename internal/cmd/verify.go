package cmd

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/dendrascience/dendra-dirsum/dirsum"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand for the dirsum CLI.
// It recomputes a tree digest and compares it against a saved expectation.
func NewVerifyCmd() *cobra.Command {
	var (
		expect        string
		against       string
		follow        bool
		skipHidden    bool
		ignoreInvalid bool
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "verify DIR",
		Short: "Recompute a tree digest and compare it against a saved one",
		Long: `Recompute the digest of a directory tree and compare.

With --expect the recomputed digest is compared against the given hex
digest. With --against the recomputed canonical table is compared
against a previously saved table file (hash --table --output FILE) and
the paths that were added, changed, or removed are reported. Any
mismatch exits with status 1.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := walkOptionsFromFlags(cmd, follow, skipHidden, ignoreInvalid)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			runVerify(args[0], expect, against, opts, verbose)
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Expected tree digest (64 hex characters)")
	cmd.Flags().StringVar(&against, "against", "", "Path to a saved canonical table to compare against")
	cmd.Flags().BoolVarP(&follow, "follow-symlinks", "L", false, "Hash symlink targets instead of skipping symlinks")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", false, "Skip hidden files and directories")
	cmd.Flags().BoolVar(&ignoreInvalid, "ignore-invalid-types", false, "Skip FIFOs, sockets, and device nodes instead of failing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagsOneRequired("expect", "against")
	cmd.MarkFlagsMutuallyExclusive("expect", "against")

	return cmd
}

func runVerify(path, expect, against string, opts dirsum.WalkOptions, verbose bool) {
	th, err := computeTree(path, true, opts)
	if err != nil {
		log.Fatalf("Failed to hash %s: %v", path, err)
	}

	if verbose {
		for _, ig := range th.Ignored() {
			fmt.Fprintf(os.Stderr, "skipped (%s): %s\n", ig.Reason, ig.Path)
		}
	}
	digest, _ := th.Digest()

	if expect != "" {
		want, err := dirsum.ParseDigest(expect)
		if err != nil {
			log.Fatalf("Invalid --expect digest: %v", err)
		}
		if digest != want {
			fmt.Printf("MISMATCH: %s\n", path)
			fmt.Printf("  expected: %s\n", want)
			fmt.Printf("  computed: %s\n", digest)
			os.Exit(1)
		}
		fmt.Printf("OK: %s\n", digest)
		return
	}

	f, err := os.Open(against)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", against, err)
	}
	defer f.Close()
	saved, err := dirsum.ParseHashTable(f)
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", against, err)
	}

	diffs := diffTables(saved, th.Table())
	if len(diffs) > 0 {
		fmt.Printf("MISMATCH: %s differs from %s in %d paths:\n", path, against, len(diffs))
		for _, d := range diffs {
			fmt.Printf("  - %s\n", d)
		}
		os.Exit(1)
	}
	if verbose {
		fmt.Printf("Table matches: %d files\n", th.Table().Len())
	}
	fmt.Printf("OK: %s\n", digest)
}

// diffTables reports the paths on which the two tables disagree. Paths only
// in saved come back as removed, paths only in computed as added, and paths
// present in both with different digests as changed.
func diffTables(saved, computed *dirsum.HashTable) []string {
	savedDigests := make(map[string]dirsum.Digest)
	saved.Iterate(func(e dirsum.HashEntry) bool {
		savedDigests[e.Path] = e.Digest
		return true
	})

	var diffs []string
	computed.Iterate(func(e dirsum.HashEntry) bool {
		old, ok := savedDigests[e.Path]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("added: %s", e.Path))
		case old != e.Digest:
			diffs = append(diffs, fmt.Sprintf("changed: %s", e.Path))
		}
		delete(savedDigests, e.Path)
		return true
	})
	for path := range savedDigests {
		diffs = append(diffs, fmt.Sprintf("removed: %s", path))
	}

	sort.Strings(diffs)
	return diffs
}
