// Command server exposes a chess game over a JSON API.
//
// Settings come from flags, then CHESS_* environment variables, then the
// nearest config.json, then built-in defaults.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"chesscore/internal/game"
	"chesscore/internal/httpx"
	"chesscore/internal/oracle"
	"chesscore/internal/store"
	"chesscore/internal/util"
)

func main() {
	var cfg fileConfig
	if path, _, err := findConfigPath(); err == nil {
		loaded, err := loadConfig(path)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}

	depthDefault := cfg.EngineDepth
	if v, err := strconv.Atoi(os.Getenv("CHESS_ENGINE_DEPTH")); err == nil {
		depthDefault = v
	}

	addr := flag.String("addr", getenv("CHESS_ADDR", or(cfg.Addr, ":8080")), "listen address")
	savesDir := flag.String("saves", getenv("CHESS_SAVES", or(cfg.SavesDir, "saves")), "directory for saved games")
	noSaves := flag.Bool("no-saves", getenb("CHESS_NO_SAVES", false), "disable the save endpoints")
	archive := flag.String("archive", getenv("CHESS_ARCHIVE", cfg.Archive), "export all saves to this parquet file and exit")
	fen := flag.String("fen", getenv("CHESS_FEN", ""), "starting position (default: standard)")
	enginePath := flag.String("engine", getenv("CHESS_ENGINE", cfg.EnginePath), "UCI engine binary used for hints")
	depth := flag.Int("depth", depthDefault, "engine search depth (0: default)")
	logFile := flag.String("log", getenv("CHESS_LOG", ""), "write logs to this file")
	flag.Parse()

	if *logFile != "" {
		if err := util.InitLog(*logFile, "chess-server "); err != nil {
			log.Fatal(err)
		}
	}

	var saves *store.FileStore
	if !*noSaves || *archive != "" {
		fs, err := store.NewFileStore(*savesDir)
		if err != nil {
			log.Fatalf("saves: %v", err)
		}
		saves = fs
	}

	if *archive != "" {
		n, err := saves.Archive(*archive)
		if err != nil {
			log.Fatalf("archive: %v", err)
		}
		log.Printf("archived %d saves to %s", n, *archive)
		return
	}
	if *noSaves {
		saves = nil
	}

	eng := game.NewEngine()
	if *fen != "" {
		if err := eng.LoadFEN(*fen); err != nil {
			log.Printf("starting position %q: %v; using the standard position", *fen, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hints oracle.Oracle
	if *enginePath != "" {
		proc, err := startEngine(ctx, *enginePath, *depth)
		if err != nil {
			log.Fatalf("engine: %v", err)
		}
		defer proc.Close()
		hints = proc.client
		log.Printf("hint engine %s ready", *enginePath)
	}

	srv := httpx.NewServer(eng, httpx.Config{Store: saves, Oracle: hints})
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdown); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}
