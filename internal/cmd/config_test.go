package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// policyCmd builds a bare command carrying the walk policy flags, the same
// set hash, verify, and count register.
func policyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "scratch"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().BoolP("follow-symlinks", "L", false, "")
	cmd.Flags().Bool("skip-hidden", false, "")
	cmd.Flags().Bool("ignore-invalid-types", false, "")
	return cmd
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, defaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadConfig_Missing(t *testing.T) {
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("ReadConfig() = %+v, want zero config", cfg)
	}
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "follow_symlinks = true\nskip_hidden = true\nignore_invalid_types = true\n")

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	want := Config{FollowSymlinks: true, SkipHidden: true, IgnoreInvalidTypes: true}
	if cfg != want {
		t.Errorf("ReadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestReadConfig_Malformed(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "follow_symlinks = maybe\n")

	if _, err := ReadConfig(path); err == nil {
		t.Error("ReadConfig() expected error for malformed config, got nil")
	}
}

func TestWalkOptionsFromFlags_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	opts, err := walkOptionsFromFlags(policyCmd(), false, false, false)
	if err != nil {
		t.Fatalf("walkOptionsFromFlags() error = %v", err)
	}
	if opts.FollowSymlinks || !opts.IncludeHidden || opts.IgnoreInvalidTypes {
		t.Errorf("walkOptionsFromFlags() = %+v, want hidden included and everything else off", opts)
	}
}

func TestWalkOptionsFromFlags_ConfigApplies(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "follow_symlinks = true\nskip_hidden = true\n")
	t.Chdir(dir)

	opts, err := walkOptionsFromFlags(policyCmd(), false, false, false)
	if err != nil {
		t.Fatalf("walkOptionsFromFlags() error = %v", err)
	}
	if !opts.FollowSymlinks {
		t.Error("config follow_symlinks was not applied")
	}
	if opts.IncludeHidden {
		t.Error("config skip_hidden was not applied")
	}
}

func TestWalkOptionsFromFlags_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "follow_symlinks = true\nskip_hidden = true\n")
	t.Chdir(dir)

	cmd := policyCmd()
	if err := cmd.Flags().Set("follow-symlinks", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cmd.Flags().Set("ignore-invalid-types", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	opts, err := walkOptionsFromFlags(cmd, false, false, true)
	if err != nil {
		t.Fatalf("walkOptionsFromFlags() error = %v", err)
	}
	if opts.FollowSymlinks {
		t.Error("explicit --follow-symlinks=false did not override the config")
	}
	if opts.IncludeHidden {
		t.Error("skip_hidden from the config should survive when the flag is untouched")
	}
	if !opts.IgnoreInvalidTypes {
		t.Error("explicit --ignore-invalid-types did not override the config")
	}
}

func TestWalkOptionsFromFlags_ExplicitConfig(t *testing.T) {
	// An explicitly named config applies no matter what it is called
	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte("follow_symlinks = true\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cmd := policyCmd()
	if err := cmd.Flags().Set("config", path); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	opts, err := walkOptionsFromFlags(cmd, false, false, false)
	if err != nil {
		t.Fatalf("walkOptionsFromFlags() error = %v", err)
	}
	if !opts.FollowSymlinks {
		t.Error("explicit config file was not applied")
	}
}

func TestWalkOptionsFromFlags_ExplicitConfigMissing(t *testing.T) {
	cmd := policyCmd()
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.toml")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := walkOptionsFromFlags(cmd, false, false, false); err == nil {
		t.Error("walkOptionsFromFlags() expected error for a missing explicit config, got nil")
	}
}
