package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileConfig is the optional config.json. Every field may be empty.
type fileConfig struct {
	Addr        string `json:"addr"`
	SavesDir    string `json:"savesDir"`
	Archive     string `json:"archive"`
	EnginePath  string `json:"enginePath"`
	EngineDepth int    `json:"engineDepth"`
}

// findConfigPath walks up from the working directory looking for
// config.json and returns the file and the directory it was found in.
func findConfigPath() (string, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	dir := cwd
	for {
		path := filepath.Join(dir, "config.json")
		if _, err := os.Stat(path); err == nil {
			return path, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", fmt.Errorf("config.json not found from %s", cwd)
}

// loadConfig reads path and resolves relative paths in it against the
// directory holding the file.
func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, err
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	cfg.SavesDir = resolve(base, cfg.SavesDir)
	cfg.Archive = resolve(base, cfg.Archive)
	if strings.ContainsRune(cfg.EnginePath, filepath.Separator) {
		cfg.EnginePath = resolve(base, cfg.EnginePath)
	}
	return cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
