package util

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLog(t *testing.T) {
	prevOut, prevPrefix := log.Writer(), log.Prefix()
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetPrefix(prevPrefix)
	})

	dest := filepath.Join(t.TempDir(), "chess.log")
	if err := InitLog(dest, "test "); err != nil {
		t.Fatalf("InitLog: %v", err)
	}
	log.Print("hello")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.HasPrefix(string(data), "test ") || !strings.Contains(string(data), "hello") {
		t.Fatalf("log contents %q", data)
	}

	if err := InitLog(filepath.Join(t.TempDir(), "missing", "x.log"), ""); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
