package cmd

import (
	"fmt"
	"log"

	"github.com/dendrascience/dendra-dirsum/dirsum"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the dirsum CLI.
// It reports how many files a hash run would cover.
func NewCountCmd() *cobra.Command {
	var (
		path          string
		follow        bool
		skipHidden    bool
		ignoreInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count the files a hash run would cover",
		Long: `Count the files in a directory tree that hashing would read.

This is a utility command that walks a directory with the same policy
flags as hash and reports how many files would be hashed, plus a
breakdown of the entries the walk skipped. Useful for previewing a
hash run without reading any file contents.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				path = args[0]
			}
			opts, err := walkOptionsFromFlags(cmd, follow, skipHidden, ignoreInvalid)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			runCount(path, opts)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().BoolVarP(&follow, "follow-symlinks", "L", false, "Count symlink targets instead of skipping symlinks")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", false, "Skip hidden files and directories")
	cmd.Flags().BoolVar(&ignoreInvalid, "ignore-invalid-types", false, "Skip FIFOs, sockets, and device nodes instead of failing")

	return cmd
}

func runCount(path string, opts dirsum.WalkOptions) {
	records, ignored, err := dirsum.WalkTree(path, opts)
	if err != nil {
		fmt.Printf("Error counting files: %v\n", err)
		return
	}

	fmt.Printf("Total files: %d\n", len(records))
	if len(ignored) == 0 {
		return
	}

	fmt.Printf("Skipped entries: %d\n", len(ignored))
	byReason := make(map[dirsum.IgnoreReason]int)
	for _, ig := range ignored {
		byReason[ig.Reason]++
	}
	for _, reason := range []dirsum.IgnoreReason{
		dirsum.ReasonSymlink,
		dirsum.ReasonHidden,
		dirsum.ReasonDir,
		dirsum.ReasonBlockDevice,
		dirsum.ReasonCharDevice,
		dirsum.ReasonFIFO,
		dirsum.ReasonSocket,
	} {
		if n := byReason[reason]; n > 0 {
			fmt.Printf("  %s: %d\n", reason, n)
		}
	}
}
