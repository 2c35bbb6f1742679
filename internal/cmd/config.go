package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dendrascience/dendra-dirsum/dirsum"
	"github.com/spf13/cobra"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = ".dirsum.toml"

// Config stores walk policy defaults read from a .dirsum.toml file. Flags
// the user sets explicitly win over the file.
type Config struct {
	FollowSymlinks     bool `toml:"follow_symlinks"`
	SkipHidden         bool `toml:"skip_hidden"`
	IgnoreInvalidTypes bool `toml:"ignore_invalid_types"`
}

// ReadConfig reads the config file at path. A missing file returns an empty
// config.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// walkOptionsFromFlags merges the config file into the walk policy flags of
// cmd. The config supplies defaults; flags the user set on the command line
// override it.
func walkOptionsFromFlags(cmd *cobra.Command, follow, skipHidden, ignoreInvalid bool) (dirsum.WalkOptions, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return dirsum.WalkOptions{}, err
	}
	if cmd.Flags().Changed("config") {
		// An explicitly named config has to exist
		if _, err := os.Stat(configPath); err != nil {
			return dirsum.WalkOptions{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		configPath = defaultConfigFile
	}
	cfg, err := ReadConfig(configPath)
	if err != nil {
		return dirsum.WalkOptions{}, err
	}

	opts := dirsum.WalkOptions{
		FollowSymlinks:     cfg.FollowSymlinks,
		IncludeHidden:      !cfg.SkipHidden,
		IgnoreInvalidTypes: cfg.IgnoreInvalidTypes,
	}
	if cmd.Flags().Changed("follow-symlinks") {
		opts.FollowSymlinks = follow
	}
	if cmd.Flags().Changed("skip-hidden") {
		opts.IncludeHidden = !skipHidden
	}
	if cmd.Flags().Changed("ignore-invalid-types") {
		opts.IgnoreInvalidTypes = ignoreInvalid
	}
	return opts, nil
}
