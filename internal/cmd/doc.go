// Package cmd provides the command-line interface implementation for dirsum.
//
// This package contains all the subcommand implementations for the dirsum CLI tool.
// It uses the Cobra library for command structure and Fang for beautiful styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - hash: Tree digest computation and canonical table output
//   - verify: Digest and table comparison against saved expectations
//   - count: File counting with the same walk policy as hash
//   - seed: Test tree generation for conformance checks
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. The root command coordinates all subcommands.
// The walk policy flags are shared across hash, verify, and count, and fall back
// to values from an optional .dirsum.toml config file.
//
// The package leverages the dirsum package for all hashing and tree walking
// operations.
package cmd
