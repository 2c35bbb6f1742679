package cmd

import (
	"github.com/dendrascience/dendra-dirsum/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the dirsum CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirsum",
		Short: "dirsum - Deterministic SHA-256 digests for directory trees",
		Long: `dirsum computes a single SHA-256 digest for a whole directory tree.

Every regular file below the root is hashed, the per-file digests are
rendered into a canonical table sorted by digest bytes and path bytes,
and the digest of that table is the tree digest. The same tree always
produces the same digest, on any machine, and matches the classic shell
pipeline

  cd DIR && find . -type f -exec sha256sum {} + | LC_ALL=C sort | sha256sum

Use subcommands to perform different operations:
  - hash: Compute the digest (or canonical table) of a directory tree
  - verify: Recompute a tree and compare against a saved digest or table
  - count: Count the files a hash run would cover
  - seed: Generate a test tree for cross-checking against the pipeline`,
		Version: version.GetFullVersion(),
	}

	groupHashing := "hashing"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupHashing,
		Title: "Hashing Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./"+defaultConfigFile+")")

	hashCmd := NewHashCmd()
	verifyCmd := NewVerifyCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()

	hashCmd.GroupID = groupHashing
	verifyCmd.GroupID = groupHashing
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)

	return rootCmd
}
