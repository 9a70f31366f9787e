package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	body := `{"addr":":9090","savesDir":"data/saves","archive":"/abs/games.parquet","enginePath":"bin/engine","engineDepth":8}`
	if err := os.WriteFile(filepath.Join(root, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	path, dir, err := findConfigPath()
	if err != nil {
		t.Fatalf("findConfigPath: %v", err)
	}
	rootReal, _ := filepath.EvalSymlinks(root)
	dirReal, _ := filepath.EvalSymlinks(dir)
	if dirReal != rootReal {
		t.Fatalf("found config in %s, want %s", dir, root)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.EngineDepth != 8 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SavesDir != filepath.Join(dir, "data", "saves") {
		t.Fatalf("saves dir not resolved: %s", cfg.SavesDir)
	}
	if cfg.Archive != "/abs/games.parquet" {
		t.Fatalf("absolute archive path changed: %s", cfg.Archive)
	}
	if cfg.EnginePath != filepath.Join(dir, "bin", "engine") {
		t.Fatalf("engine path not resolved: %s", cfg.EnginePath)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CHESS_TEST_STR", "x")
	t.Setenv("CHESS_TEST_BOOL", "yes")
	t.Setenv("CHESS_TEST_JUNK", "maybe")
	if getenv("CHESS_TEST_STR", "d") != "x" || getenv("CHESS_TEST_UNSET", "d") != "d" {
		t.Fatalf("getenv fallback broken")
	}
	if !getenb("CHESS_TEST_BOOL", false) || getenb("CHESS_TEST_JUNK", false) {
		t.Fatalf("getenb parsing broken")
	}
	if or("", "d") != "d" || or("v", "d") != "v" {
		t.Fatalf("or broken")
	}
}
