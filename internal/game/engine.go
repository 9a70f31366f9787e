// Package game implements the chess rules engine: board representation,
// move generation, legality, notation and the move executor state machine.
package game

import (
	"errors"
	"fmt"

	"chesscore/internal/shared"
)

// FiftyMoveLimit is the halfmove clock value that ends the game as a draw.
const FiftyMoveLimit = 50

// PromotionChooser is asked for a piece when a pawn reaches the last rank
// and the request carried none. Returning false rejects the move.
type PromotionChooser func(color Color) (PieceType, bool)

// Engine owns one game: the live BoardState, its history and the outcome.
// It is not safe for concurrent use; callers serialise access.
type Engine struct {
	state   BoardState
	history *History
	status  Status
	outcome Outcome
	mode    Mode
	puzzle  puzzleState
	promote PromotionChooser
}

type puzzleState struct {
	solver      Color
	maxMoves    int
	solverMoves int
}

// MoveRequest is passed in by an external layer to request a move.
type MoveRequest struct {
	From         Position
	To           Position
	Promotion    PieceType
	HasPromotion bool
}

// MoveResult reports what a submission did. Applied is false for every
// rejection and Reason carries the cause.
type MoveResult struct {
	Applied     bool    `json:"applied"`
	Move        string  `json:"move,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	Captured    string  `json:"captured,omitempty"`
	Outcome     Outcome `json:"-"`
	OutcomeText string  `json:"outcome"`
	Reason      string  `json:"reason,omitempty"`
}

// NewEngine creates an engine set up on the standard starting position.
func NewEngine() *Engine {
	e := &Engine{history: NewHistory()}
	e.Reset()
	return e
}

// SetPromotionChooser installs the fallback used when a promotion move
// arrives without a piece. nil restores the default of rejecting it.
func (e *Engine) SetPromotionChooser(fn PromotionChooser) { e.promote = fn }

// Reset starts a new standard game.
func (e *Engine) Reset() {
	e.start(StandardBoardState(), ModeStandard, puzzleState{})
}

// LoadFEN replaces the game with the decoded position. On error the current
// game is left untouched.
func (e *Engine) LoadFEN(fen string) error {
	st, err := DecodeFEN(fen)
	if err != nil {
		return err
	}
	e.start(st, ModeStandard, puzzleState{})
	return nil
}

// LoadPuzzle starts a puzzle: the side to move in fen must deliver mate
// within maxMoves of its own moves.
func (e *Engine) LoadPuzzle(fen string, maxMoves int) error {
	if maxMoves < 1 {
		return fmt.Errorf("%w: maxMoves must be positive, got %d", ErrInvalidPuzzle, maxMoves)
	}
	st, err := DecodeFEN(fen)
	if err != nil {
		return err
	}
	e.start(st, ModePuzzle, puzzleState{solver: st.Turn, maxMoves: maxMoves})
	return nil
}

// ResumePuzzle continues a puzzle from a saved position. solver need not be
// the side to move in fen; used of its maxMoves have already been played.
func (e *Engine) ResumePuzzle(fen string, solver Color, maxMoves, used int) error {
	if maxMoves < 1 || used < 0 || used >= maxMoves {
		return fmt.Errorf("%w: %d of %d moves used", ErrInvalidPuzzle, used, maxMoves)
	}
	if solver != White && solver != Black {
		return fmt.Errorf("%w: solver %d", ErrInvalidPuzzle, solver)
	}
	st, err := DecodeFEN(fen)
	if err != nil {
		return err
	}
	e.start(st, ModePuzzle, puzzleState{solver: solver, maxMoves: maxMoves, solverMoves: used})
	return nil
}

func (e *Engine) start(st BoardState, mode Mode, pz puzzleState) {
	e.state = st
	e.mode = mode
	e.puzzle = pz
	e.history.Reset(&e.state)
	e.status = StatusReady
	e.outcome = Outcome{}
	e.evaluate()
}

// Move validates and applies req. The returned error wraps one of the
// package sentinels when the move is rejected.
func (e *Engine) Move(req MoveRequest) (MoveResult, error) {
	if e.status == StatusGameEnded {
		return MoveResult{}, ErrGameEnded
	}
	pc, ok := e.state.Board.Get(req.From)
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrNoPiece, req.From)
	}
	if pc.Color != e.state.Turn {
		return MoveResult{}, fmt.Errorf("%w: %s to move", ErrNotYourTurn, e.state.Turn)
	}

	m := Move{From: req.From, To: req.To}
	if !containsMove(LegalMoves(&e.state, req.From), m) || !IsMoveValidUnderCheck(&e.state, m) {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	kind := classify(&e.state.Board, pc, m)
	promo := Queen
	if kind == MovePromotion {
		var err error
		if promo, err = e.resolvePromotion(req, pc.Color); err != nil {
			return MoveResult{}, err
		}
	} else if req.HasPromotion {
		return MoveResult{}, fmt.Errorf("%w: %s is not a promotion", ErrInvalidPromotion, m)
	}

	e.history.push(e.state)
	captured, hasCaptured := applyMove(&e.state, m, kind, promo)
	e.history.record(&e.state)
	if e.mode == ModePuzzle && pc.Color == e.puzzle.solver {
		e.puzzle.solverMoves++
	}
	e.evaluate()

	res := MoveResult{
		Applied:     true,
		Move:        m.String(),
		Kind:        kind.String(),
		Outcome:     e.outcome,
		OutcomeText: e.outcome.String(),
	}
	if kind == MovePromotion {
		res.Move = shared.CoordinateMove{From: m.From, To: m.To, Promotion: promo, HasPromotion: true}.String()
	}
	if hasCaptured {
		res.Captured = captured.Type.Name()
	}
	return res, nil
}

func (e *Engine) resolvePromotion(req MoveRequest, c Color) (PieceType, error) {
	if req.HasPromotion {
		switch req.Promotion {
		case Queen, Rook, Bishop, Knight:
			return req.Promotion, nil
		default:
			return 0, fmt.Errorf("%w: %s", ErrInvalidPromotion, req.Promotion.Name())
		}
	}
	if e.promote != nil {
		if pt, ok := e.promote(c); ok {
			return e.resolvePromotion(MoveRequest{Promotion: pt, HasPromotion: true}, c)
		}
	}
	return 0, ErrPromotionRequired
}

// SubmitMove is the notation-level entry point. Rejections are reported in
// the result, never as a panic or error.
func (e *Engine) SubmitMove(start, end, promotion string) MoveResult {
	req, err := buildRequest(start, end, promotion)
	if err != nil {
		return rejected(err)
	}
	return e.submit(req)
}

// SubmitUCI applies a coordinate move such as "e2e4" or "e7e8q", typically
// one produced by an external engine.
func (e *Engine) SubmitUCI(move string) MoveResult {
	cm, err := shared.ParseCoordinateMove(move)
	if err != nil {
		return rejected(err)
	}
	return e.submit(MoveRequest{From: cm.From, To: cm.To, Promotion: cm.Promotion, HasPromotion: cm.HasPromotion})
}

func (e *Engine) submit(req MoveRequest) MoveResult {
	res, err := e.Move(req)
	if err != nil {
		return rejected(err)
	}
	return res
}

func buildRequest(start, end, promotion string) (MoveRequest, error) {
	from, err := shared.ParsePosition(start)
	if err != nil {
		return MoveRequest{}, err
	}
	to, err := shared.ParsePosition(end)
	if err != nil {
		return MoveRequest{}, err
	}
	req := MoveRequest{From: from, To: to}
	if promotion != "" {
		pt, ok := shared.ParsePromotionPiece(promotion)
		if !ok {
			return MoveRequest{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
		}
		req.Promotion, req.HasPromotion = pt, true
	}
	return req, nil
}

func rejected(err error) MoveResult {
	return MoveResult{Applied: false, Reason: err.Error(), OutcomeText: Outcome{}.String()}
}

// Undo steps back one move. It is allowed after the game has ended and
// reopens it.
func (e *Engine) Undo() error {
	prev, ok := e.history.popUndo(e.state)
	if !ok {
		return ErrNothingToUndo
	}
	e.history.forget(&e.state)
	e.state = prev
	if e.mode == ModePuzzle && e.state.Turn == e.puzzle.solver && e.puzzle.solverMoves > 0 {
		e.puzzle.solverMoves--
	}
	e.reopen()
	return nil
}

// Redo replays the most recently undone move.
func (e *Engine) Redo() error {
	next, ok := e.history.popRedo(e.state)
	if !ok {
		return ErrNothingToRedo
	}
	if e.mode == ModePuzzle && e.state.Turn == e.puzzle.solver {
		e.puzzle.solverMoves++
	}
	e.state = next
	e.history.record(&e.state)
	e.reopen()
	return nil
}

func (e *Engine) reopen() {
	e.status = StatusReady
	e.outcome = Outcome{}
	e.evaluate()
}

// Resign ends the game in favour of the side not to move.
func (e *Engine) Resign() error {
	if e.status == StatusGameEnded {
		return ErrGameEnded
	}
	e.finish(Outcome{Kind: OutcomeResignation, Winner: e.state.Turn.Opposite(), HasWinner: true})
	return nil
}

// evaluate applies the end-of-game checks in priority order; the first
// match ends the game.
func (e *Engine) evaluate() {
	st := &e.state
	if IsThreefoldRepetition(e.history, st) {
		e.finish(Outcome{Kind: OutcomeDraw, Reason: DrawThreefold})
		return
	}
	if e.mode == ModePuzzle {
		solver := e.puzzle.solver
		if IsCheckmate(solver.Opposite(), st) {
			e.finish(Outcome{Kind: OutcomePuzzleSolved, Winner: solver, HasWinner: true})
			return
		}
		if e.puzzle.solverMoves >= e.puzzle.maxMoves {
			e.finish(Outcome{Kind: OutcomePuzzleFailed, Winner: solver.Opposite(), HasWinner: true})
			return
		}
	}
	switch {
	case IsCheckmate(st.Turn, st):
		e.finish(Outcome{Kind: OutcomeCheckmate, Winner: st.Turn.Opposite(), HasWinner: true})
	case st.HalfmoveClock >= FiftyMoveLimit:
		e.finish(Outcome{Kind: OutcomeDraw, Reason: DrawFiftyMove})
	case IsDeadPosition(&st.Board):
		e.finish(Outcome{Kind: OutcomeDraw, Reason: DrawDeadPosition})
	case IsStalemate(st.Turn, st):
		e.finish(Outcome{Kind: OutcomeDraw, Reason: DrawStalemate})
	}
}

func (e *Engine) finish(o Outcome) {
	e.status = StatusGameEnded
	e.outcome = o
}

func (e *Engine) Status() Status   { return e.status }
func (e *Engine) Outcome() Outcome { return e.outcome }
func (e *Engine) Mode() Mode       { return e.mode }
func (e *Engine) Turn() Color      { return e.state.Turn }
func (e *Engine) FEN() string      { return EncodeFEN(&e.state) }
func (e *Engine) CanUndo() bool    { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool    { return e.history.CanRedo() }

// Snapshot returns an independent copy of the live BoardState.
func (e *Engine) Snapshot() BoardState { return e.state }

// Occurrences is how often the current reduced position has been reached.
func (e *Engine) Occurrences() int { return e.history.Occurrences(&e.state) }

// LegalTargets lists the destinations of the piece on from, provided it
// belongs to the side to move and the game is still running.
func (e *Engine) LegalTargets(from Position) []Position {
	if e.status == StatusGameEnded {
		return nil
	}
	pc, ok := e.state.Board.Get(from)
	if !ok || pc.Color != e.state.Turn {
		return nil
	}
	moves := LegalMoves(&e.state, from)
	out := make([]Position, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To)
	}
	return out
}

// IsRejection reports whether err is one of the move rejection sentinels.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrGameEnded, ErrNoPiece, ErrNotYourTurn, ErrIllegalMove,
		ErrPromotionRequired, ErrInvalidPromotion,
		shared.ErrInvalidNotation, shared.ErrInvalidPosition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func containsMove(moves []Move, m Move) bool {
	for _, cand := range moves {
		if cand == m {
			return true
		}
	}
	return false
}
