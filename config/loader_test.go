package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesIncludeBeforeOwnValues(t *testing.T) {
	dir := t.TempDir()

	basePath := filepath.Join(dir, "base.yml")
	if err := os.WriteFile(basePath, []byte("engine:\n  term: vt100\nlistener:\n  addr: \":2222\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mainPath := filepath.Join(dir, "main.yml")
	if err := os.WriteFile(mainPath, []byte("include:\n  - base.yml\nlistener:\n  addr: \":2323\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Term != "vt100" {
		t.Errorf("included value not applied, got %q", cfg.Engine.Term)
	}
	if cfg.Listener.Addr != ":2323" {
		t.Errorf("including file's own value lost, got %q", cfg.Listener.Addr)
	}
	if len(cfg.LoadedFiles) != 2 {
		t.Errorf("expected two loaded files, got %v", cfg.LoadedFiles)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TELNETKIT_TEST_ADDR", ":9999")

	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yml")
	if err := os.WriteFile(path, []byte("listener:\n  addr: \"${TELNETKIT_TEST_ADDR}\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listener.Addr != ":9999" {
		t.Errorf("got %q, want expanded env var", cfg.Listener.Addr)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestDefaultHasAStdoutLoggerAndListener(t *testing.T) {
	cfg := Default()
	if len(cfg.Loggers) != 1 || !cfg.Loggers[0].Stdout {
		t.Errorf("expected a single stdout logger by default, got %+v", cfg.Loggers)
	}
	if cfg.Listener.Addr == "" {
		t.Errorf("expected a default listener address")
	}
}

func TestDirRespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := Dir(); got != filepath.Join("/tmp/xdg-test", "telnetkit") {
		t.Errorf("got %q", got)
	}
}
