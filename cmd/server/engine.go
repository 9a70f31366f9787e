package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"chesscore/internal/oracle"
)

// engineProcess is an external UCI engine started for hints.
type engineProcess struct {
	cmd    *exec.Cmd
	client *oracle.UCI
}

func startEngine(ctx context.Context, path string, depth int) (*engineProcess, error) {
	cmd := exec.CommandContext(ctx, path)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	client := oracle.NewUCI(stdout, stdin, depth)
	hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Handshake(hctx); err != nil {
		_ = client.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("handshake with %s: %w", path, err)
	}
	return &engineProcess{cmd: cmd, client: client}, nil
}

func (p *engineProcess) Close() error {
	_ = p.client.Close()
	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		_ = p.cmd.Process.Kill()
		return <-done
	}
}
