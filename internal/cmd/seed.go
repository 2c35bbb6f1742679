package cmd

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/dendra-dirsum/dirsum"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewSeedCmd creates and returns the seed subcommand for the dirsum CLI.
// It generates a test tree whose digest can be cross-checked against the
// shell pipeline.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		buckets    int
		hidden     bool
		links      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test tree with bucketed random files",
		Long: `Generate a directory tree of test files for digest conformance checks.

Files are spread across bucket directories derived from their content
hash and named after it. Each file contains a single UUID line drawn
from a small pool, so duplicate contents under distinct paths occur by
construction. The tree digest is printed at the end for cross-checking
against

  cd OUTPUT && find . -type f -exec sha256sum {} + | LC_ALL=C sort | sha256sum`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, fileCount, buckets, hidden, links, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of files to generate")
	cmd.Flags().IntVar(&buckets, "buckets", 16, "Number of bucket directories")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Also create hidden files and a hidden directory")
	cmd.Flags().BoolVar(&links, "links", false, "Also create a file symlink and a directory symlink")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, fileCount, buckets int, hidden, links, verbose bool) {
	if buckets < 1 {
		buckets = 1
	}
	if verbose {
		fmt.Printf("Generating %d test files in %s\n", fileCount, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate pool of 50 UUIDs; repeated contents under distinct paths
	// are part of the point
	uuidPool := make([]string, 50)
	for i := 0; i < 50; i++ {
		uuidPool[i] = uuid.New().String()
	}

	filesCreated := 0
	dirFileCounts := make(map[string]int)
	var samplePath, sampleDir string

	for filesCreated < fileCount {
		// Select random UUID from pool
		uuidIndex, _ := rand.Int(rand.Reader, big.NewInt(50))
		content := uuidPool[uuidIndex.Int64()] + "\n"

		digest, err := dirsum.GetHash(strings.NewReader(content))
		if err != nil {
			log.Fatalf("Failed to hash content: %v", err)
		}
		hash := digest.String()

		// The bucket directory comes from the content hash, the same
		// distribution trick content-addressed stores use
		bucket := colorhash.HashString(hash) % buckets
		dirPath := filepath.Join(outputPath, fmt.Sprintf("bucket-%02d", bucket))

		// Create directory if it doesn't exist
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			log.Printf("Warning: Failed to create directory %s: %v", dirPath, err)
			continue
		}

		filename := fmt.Sprintf("%s-%04d.txt", hash[:8], dirFileCounts[dirPath])
		filePath := filepath.Join(dirPath, filename)

		// Skip if file already exists (reseeding into a used directory)
		if _, err := os.Stat(filePath); err == nil {
			dirFileCounts[dirPath]++
			continue
		}

		// Write file
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			log.Printf("Warning: Failed to write file %s: %v", filePath, err)
			continue
		}

		if samplePath == "" {
			samplePath = filePath
			sampleDir = dirPath
		}
		dirFileCounts[dirPath]++
		filesCreated++

		if verbose && filesCreated%1000 == 0 {
			fmt.Printf("Created %d/%d files...\n", filesCreated, fileCount)
		}
	}

	if hidden {
		if err := os.WriteFile(filepath.Join(outputPath, ".marker"), []byte("seed marker\n"), 0644); err != nil {
			log.Fatalf("Failed to write hidden file: %v", err)
		}
		cacheDir := filepath.Join(outputPath, ".seed")
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			log.Fatalf("Failed to create hidden directory: %v", err)
		}
		if err := os.WriteFile(filepath.Join(cacheDir, "cache"), []byte("seed cache\n"), 0644); err != nil {
			log.Fatalf("Failed to write hidden file: %v", err)
		}
	}

	if links && samplePath != "" {
		// Absolute targets, so the links resolve no matter where they
		// are read from
		absFile, err := filepath.Abs(samplePath)
		if err != nil {
			log.Fatalf("Failed to resolve %s: %v", samplePath, err)
		}
		absDir, err := filepath.Abs(sampleDir)
		if err != nil {
			log.Fatalf("Failed to resolve %s: %v", sampleDir, err)
		}
		if err := os.Symlink(absFile, filepath.Join(outputPath, "latest")); err != nil {
			log.Fatalf("Failed to create symlink: %v", err)
		}
		if err := os.Symlink(absDir, filepath.Join(outputPath, "latest-bucket")); err != nil {
			log.Fatalf("Failed to create symlink: %v", err)
		}
	}

	if verbose {
		fmt.Printf("Successfully created %d files\n", filesCreated)
		fmt.Printf("Files distributed across %d directories\n", len(dirFileCounts))

		// Show some statistics
		maxFiles := 0
		minFiles := fileCount
		for _, count := range dirFileCounts {
			if count > maxFiles {
				maxFiles = count
			}
			if count < minFiles {
				minFiles = count
			}
		}
		fmt.Printf("Directory file counts: min=%d, max=%d\n", minFiles, maxFiles)
	}

	// Hidden files count, symlinks do not, exactly what find -type f sees
	th, err := dirsum.NewTreeHash().WithFilesFromDir(outputPath, true, dirsum.WalkOptions{IncludeHidden: true})
	if err != nil {
		log.Fatalf("Failed to walk %s: %v", outputPath, err)
	}
	if err := th.ComputeHash(); err != nil {
		log.Fatalf("Failed to hash %s: %v", outputPath, err)
	}
	digest, _ := th.Digest()
	fmt.Printf("Tree digest: %s\n", digest)
}
