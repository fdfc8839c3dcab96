package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Codec.Version != 0 {
		t.Errorf("expected version 0, got %d", cfg.Codec.Version)
	}
	if cfg.Codec.StrictSizes {
		t.Error("expected strict_sizes to be false by default")
	}
	if cfg.Text.Indent != "\t" {
		t.Errorf("expected tab indent, got %q", cfg.Text.Indent)
	}
	if !cfg.Text.Diagnostics {
		t.Error("expected diagnostics to be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid: %s", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
codec:
  version: 1
  strict_sizes: true
text:
  indent: "  "
logging:
  level: debug
  file: /tmp/mdlfile.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Codec.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Codec.Version)
	}
	if !cfg.Codec.StrictSizes {
		t.Error("expected strict_sizes to be true")
	}
	if cfg.Text.Indent != "  " {
		t.Errorf("expected two space indent, got %q", cfg.Text.Indent)
	}
	// Unset fields keep their defaults.
	if !cfg.Text.Diagnostics {
		t.Error("expected diagnostics to keep default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "/tmp/mdlfile.log" {
		t.Errorf("expected log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
	if _, err := Load(writeConfig(t, "codec: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
	if _, err := Load(writeConfig(t, "codec:\n  version: 3\n")); err == nil {
		t.Error("expected error for unsupported version")
	}
	if _, err := Load(writeConfig(t, "logging:\n  level: loud\n")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFlagPrecedence(t *testing.T) {
	path := writeConfig(t, `
codec:
  version: 1
  strict_sizes: true
text:
  diagnostics: false
logging:
  level: warn
`)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-version", "2", "-diag"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags.Config)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if err := flags.Apply(cfg); err != nil {
		t.Fatalf("failed to apply flags: %v", err)
	}

	if cfg.Codec.Version != 2 {
		t.Errorf("expected flag version 2, got %d", cfg.Codec.Version)
	}
	if !cfg.Text.Diagnostics {
		t.Error("expected flag to enable diagnostics")
	}
	// Flags that were not given leave the file values alone.
	if !cfg.Codec.StrictSizes {
		t.Error("expected strict_sizes from file")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level from file, got %s", cfg.Logging.Level)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	flags = RegisterFlags(fs)
	if err := fs.Parse([]string{"-version", "5"}); err != nil {
		t.Fatal(err)
	}
	if err := flags.Apply(Default()); err == nil {
		t.Error("expected error for unsupported flag version")
	}
}
