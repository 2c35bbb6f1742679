package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/dendra-dirsum/dirsum"
	"github.com/spf13/cobra"
)

// NewHashCmd creates and returns the hash subcommand for the dirsum CLI.
// It computes the digest of a directory tree.
func NewHashCmd() *cobra.Command {
	var (
		path          string
		follow        bool
		skipHidden    bool
		ignoreInvalid bool
		absolute      bool
		table         bool
		output        string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "hash [DIR]",
		Short: "Compute the digest of a directory tree",
		Long: `Compute the SHA-256 tree digest of a directory.

Every regular file below DIR is hashed, the per-file digests are
rendered into a canonical table sorted by digest bytes and path bytes,
and the digest of that table is printed. With --table the table itself
is printed instead, in exactly the rendering the digest covers, so the
output can later be fed back to verify --against.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				path = args[0]
			}
			opts, err := walkOptionsFromFlags(cmd, follow, skipHidden, ignoreInvalid)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			runHash(path, opts, absolute, table, output, verbose)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Directory to hash")
	cmd.Flags().BoolVarP(&follow, "follow-symlinks", "L", false, "Hash symlink targets instead of skipping symlinks")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", false, "Skip hidden files and directories")
	cmd.Flags().BoolVar(&ignoreInvalid, "ignore-invalid-types", false, "Skip FIFOs, sockets, and device nodes instead of failing")
	cmd.Flags().BoolVar(&absolute, "absolute", false, "Render absolute paths instead of ./-relative ones")
	cmd.Flags().BoolVarP(&table, "table", "t", false, "Print the canonical table instead of the digest")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the output to a file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report skipped entries on stderr")

	return cmd
}

func runHash(path string, opts dirsum.WalkOptions, absolute, printTable bool, output string, verbose bool) {
	if output != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Fatalf("Failed to resolve %s: %v", path, err)
		}
		absOutput, err := filepath.Abs(output)
		if err != nil {
			log.Fatalf("Failed to resolve %s: %v", output, err)
		}
		if pathsOverlap(absPath, absOutput) {
			log.Fatalf("Output file %s would land inside the hashed tree %s", output, path)
		}
	}

	th, err := computeTree(path, !absolute, opts)
	if err != nil {
		log.Fatalf("Failed to hash %s: %v", path, err)
	}

	if verbose {
		for _, ig := range th.Ignored() {
			fmt.Fprintf(os.Stderr, "skipped (%s): %s\n", ig.Reason, ig.Path)
		}
	}

	digest, _ := th.Digest()
	out := digest.String() + "\n"
	if printTable {
		out = th.Table().String()
	}

	if output == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(output, []byte(out), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", output, err)
	}
	if verbose {
		fmt.Printf("Wrote %s\n", output)
	}
}

// computeTree walks path and computes its tree digest. With relative set,
// table paths come out ./-relative to path.
func computeTree(path string, relative bool, opts dirsum.WalkOptions) (*dirsum.TreeHash, error) {
	th, err := dirsum.NewTreeHash().WithFilesFromDir(path, relative, opts)
	if err != nil {
		return nil, err
	}
	if err := th.ComputeHash(); err != nil {
		return nil, err
	}
	return th, nil
}

// pathsOverlap reports whether one path contains the other after cleaning.
// The check runs on whole path components, so /a/b and /a/bc do not overlap.
func pathsOverlap(path1, path2 string) bool {
	p1 := filepath.Clean(path1)
	p2 := filepath.Clean(path2)
	if p1 == p2 {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(p1, p2+sep) || strings.HasPrefix(p2, p1+sep)
}
