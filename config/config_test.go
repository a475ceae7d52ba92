package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/errors"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `
[log]
level = "debug"
development = true

[commands]
default_category = "Go script"

[wasm]
memory_limit_pages = 256

[[script]]
name = "hello"
path = "scripts/hello.wasm"
args = ["--verbose", "file.txt"]
autoload = true

[[script]]
name = "later"
`
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Commands.DefaultCategory != "Go script" {
		t.Errorf("DefaultCategory = %q", cfg.Commands.DefaultCategory)
	}
	if cfg.WASM.MemoryLimitPages != 256 {
		t.Errorf("MemoryLimitPages = %d", cfg.WASM.MemoryLimitPages)
	}
	if len(cfg.Scripts) != 2 {
		t.Fatalf("Scripts = %d, want 2", len(cfg.Scripts))
	}
	if args := cfg.Scripts[0].Args; len(args) != 2 || args[0] != "--verbose" {
		t.Errorf("Args = %v", args)
	}

	auto := cfg.Autoload()
	if len(auto) != 1 || auto[0].Name != "hello" {
		t.Fatalf("Autoload = %+v", auto)
	}
	want := filepath.Join(dir, "scripts", "hello.wasm")
	if got := cfg.ScriptPath(auto[0]); got != want {
		t.Errorf("ScriptPath = %q, want %q", got, want)
	}
	if got := cfg.ScriptPath(cfg.Scripts[1]); got != "" {
		t.Errorf("ScriptPath without path = %q", got)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.Commands.DefaultCategory != command.DefaultCategory {
		t.Errorf("DefaultCategory = %q", cfg.Commands.DefaultCategory)
	}
	if len(cfg.Scripts) != 0 {
		t.Errorf("Scripts = %v", cfg.Scripts)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    errors.Kind
	}{
		{"syntax", "[log\nlevel=", errors.KindInvalidData},
		{"level", "[log]\nlevel = \"loud\"", errors.KindInvalidInput},
		{"empty name", "[[script]]\npath = \"x.wasm\"", errors.KindInvalidInput},
		{"duplicate", "[[script]]\nname = \"a\"\n[[script]]\nname = \"a\"", errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %T, want *errors.Error", err)
			}
			if e.Kind != tt.kind || e.Phase != errors.PhaseConfig {
				t.Fatalf("err = %v, want %s/%s", err, errors.PhaseConfig, tt.kind)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
