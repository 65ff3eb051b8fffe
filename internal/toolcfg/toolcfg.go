// Package toolcfg loads tool settings from ruchy.toml. Settings affect the
// CLI only; language semantics never depend on configuration.
package toolcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// FileName is the configuration file the CLI looks for.
const FileName = "ruchy.toml"

// Config is the root of ruchy.toml.
type Config struct {
	Repl      Repl      `toml:"repl"`
	Run       Run       `toml:"run"`
	Transpile Transpile `toml:"transpile"`
	Lint      Lint      `toml:"lint"`
}

// Repl configures the interactive session.
type Repl struct {
	HistoryFile  string `toml:"history-file"`
	HistoryLimit int    `toml:"history-limit"`
	Banner       bool   `toml:"banner"`
}

// Run configures script execution.
type Run struct {
	GCThreshold int  `toml:"gc-threshold"`
	GCAuto      bool `toml:"gc-auto"`
}

// Transpile configures Rust output.
type Transpile struct {
	Output string `toml:"output"`
}

// Lint configures report rendering.
type Lint struct {
	Format    string `toml:"format"`
	MaxIssues int    `toml:"max-issues"`
}

// Default returns the settings used when no ruchy.toml is present.
func Default() Config {
	return Config{
		Repl: Repl{
			HistoryFile:  ".ruchy_history",
			HistoryLimit: 1000,
			Banner:       true,
		},
		Run: Run{
			GCThreshold: 1024,
			GCAuto:      false,
		},
		Lint: Lint{
			Format:    "text",
			MaxIssues: 100,
		},
	}
}

// Load reads the configuration at path, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Discover walks from dir toward the filesystem root looking for ruchy.toml.
// When none exists it returns the defaults.
func Discover(dir string) (Config, error) {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}
