package oracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 12

// EventType represents a UCI protocol event type.
type EventType int

const (
	EventUnknown EventType = iota
	EventID
	EventUCIOK
	EventReadyOK
	EventInfo
	EventBestMove
)

// Event is a parsed UCI protocol line.
type Event struct {
	Type   EventType
	Key    string
	Value  string
	Move   string
	Ponder string
	Raw    string
}

// ParseLine converts a raw engine line into a protocol event.
func ParseLine(line string) (Event, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{}, errors.New("empty line")
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "id":
		if len(fields) < 3 {
			return Event{}, fmt.Errorf("invalid id: %q", line)
		}
		return Event{Type: EventID, Key: fields[1], Value: strings.Join(fields[2:], " ")}, nil
	case "uciok":
		return Event{Type: EventUCIOK}, nil
	case "readyok":
		return Event{Type: EventReadyOK}, nil
	case "bestmove":
		e := Event{Type: EventBestMove}
		if len(fields) >= 2 {
			e.Move = fields[1]
		}
		if len(fields) >= 4 && fields[2] == "ponder" {
			e.Ponder = fields[3]
		}
		return e, nil
	case "info":
		return Event{Type: EventInfo, Raw: line}, nil
	default:
		return Event{Type: EventUnknown, Raw: line}, nil
	}
}

// UCI is a client for an engine speaking the UCI line protocol over a pair
// of streams. One reader goroutine feeds parsed events to the caller.
type UCI struct {
	w     io.Writer
	depth int

	mu     sync.Mutex
	closed bool

	// search serialises whole request/response exchanges.
	search sync.Mutex
	events chan Event
	errCh  chan error
}

// NewUCI starts reading engine output from r. Commands are written to w.
// depth <= 0 selects DefaultDepth.
func NewUCI(r io.Reader, w io.Writer, depth int) *UCI {
	if depth <= 0 {
		depth = DefaultDepth
	}
	u := &UCI{
		w:      w,
		depth:  depth,
		events: make(chan Event, 64),
		errCh:  make(chan error, 1),
	}
	go u.readLoop(r)
	return u
}

func (u *UCI) readLoop(r io.Reader) {
	defer close(u.events)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		event, err := ParseLine(scanner.Text())
		if err != nil {
			continue
		}
		u.events <- event
	}
	err := scanner.Err()
	if err == nil {
		err = ErrClosed
	}
	select {
	case u.errCh <- err:
	default:
	}
}

// Send writes a single command line to the engine.
func (u *UCI) Send(line string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(u.w, line)
	return err
}

// Handshake runs the standard UCI handshake.
func (u *UCI) Handshake(ctx context.Context) error {
	u.search.Lock()
	defer u.search.Unlock()
	if err := u.Send("uci"); err != nil {
		return err
	}
	if _, err := u.waitForEvent(ctx, EventUCIOK); err != nil {
		return err
	}
	if err := u.Send("isready"); err != nil {
		return err
	}
	_, err := u.waitForEvent(ctx, EventReadyOK)
	return err
}

// BestMove asks the engine to search fen to the configured depth.
func (u *UCI) BestMove(ctx context.Context, fen string) (string, error) {
	u.search.Lock()
	defer u.search.Unlock()
	// readyok also flushes a late bestmove left over from a cancelled search.
	if err := u.Send("isready"); err != nil {
		return "", err
	}
	if _, err := u.waitForEvent(ctx, EventReadyOK); err != nil {
		return "", err
	}
	if err := u.Send("position fen " + fen); err != nil {
		return "", err
	}
	if err := u.Send(fmt.Sprintf("go depth %d", u.depth)); err != nil {
		return "", err
	}
	event, err := u.waitForEvent(ctx, EventBestMove)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = u.Send("stop")
		}
		return "", err
	}
	m, err := ParseMove(event.Move)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Close sends quit and closes the command stream when it is closable.
func (u *UCI) Close() error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.mu.Unlock()

	_ = u.Send("quit")
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
	if c, ok := u.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (u *UCI) waitForEvent(ctx context.Context, want EventType) (Event, error) {
	for {
		event, err := u.nextEvent(ctx)
		if err != nil {
			return Event{}, err
		}
		if event.Type == want {
			return event, nil
		}
	}
}

func (u *UCI) nextEvent(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case event, ok := <-u.events:
		if !ok {
			select {
			case err := <-u.errCh:
				return Event{}, err
			default:
				return Event{}, ErrClosed
			}
		}
		return event, nil
	}
}
