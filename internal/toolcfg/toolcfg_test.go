package toolcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	src := `
[repl]
history-file = "/tmp/hist.db"
banner = false

[run]
gc-threshold = 4096
gc-auto = true

[lint]
format = "json"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repl.HistoryFile != "/tmp/hist.db" {
		t.Errorf("history-file = %q", cfg.Repl.HistoryFile)
	}
	if cfg.Repl.Banner {
		t.Error("banner should be disabled")
	}
	if cfg.Repl.HistoryLimit != 1000 {
		t.Errorf("unset history-limit should keep default, got %d", cfg.Repl.HistoryLimit)
	}
	if cfg.Run.GCThreshold != 4096 || !cfg.Run.GCAuto {
		t.Errorf("run section = %+v", cfg.Run)
	}
	if cfg.Lint.Format != "json" {
		t.Errorf("lint format = %q", cfg.Lint.Format)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if cfg.Repl.HistoryLimit != 1000 {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[lint]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Lint.Format != "json" {
		t.Errorf("discover did not pick up root config: %+v", cfg.Lint)
	}
}

func TestDiscoverWithoutFileIsDefault(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
