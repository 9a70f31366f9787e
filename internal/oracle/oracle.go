// Package oracle talks to best-move engines. The engine process itself is
// owned by the caller; this package only speaks the line protocol over the
// pipes it is handed.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chesscore/internal/shared"
)

var (
	ErrNoMove        = errors.New("engine returned no move")
	ErrMalformedMove = errors.New("malformed engine move")
	ErrClosed        = errors.New("engine stream closed")
)

// Oracle suggests a move for a position given in board notation. The
// result is a 4-5 character coordinate move such as "e2e4" or "a7a8q".
type Oracle interface {
	BestMove(ctx context.Context, fen string) (string, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, fen string) (string, error)

func (f Func) BestMove(ctx context.Context, fen string) (string, error) { return f(ctx, fen) }

// ParseMove validates an engine reply. Empty replies and the null moves
// "(none)" and "0000" map to ErrNoMove; anything else that is not a
// coordinate move maps to ErrMalformedMove.
func ParseMove(s string) (shared.CoordinateMove, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "(none)", "0000":
		return shared.CoordinateMove{}, ErrNoMove
	}
	m, err := shared.ParseCoordinateMove(strings.ToLower(s))
	if err != nil {
		return shared.CoordinateMove{}, fmt.Errorf("%w: %q", ErrMalformedMove, s)
	}
	return m, nil
}
