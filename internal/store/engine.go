package store

import (
	"chesscore/internal/game"
	"chesscore/internal/shared"
)

// Capture records the engine's position and puzzle progress. The front-end
// fields (name, colour, clocks) are left for the caller to fill in.
func Capture(e *game.Engine) GameSave {
	save := GameSave{FEN: e.FEN(), Mode: e.Mode().String()}
	if p := e.State().Puzzle; p != nil {
		save.PuzzleMoves = p.Remaining
		save.PuzzleMaxMoves = p.MaxMoves
		save.PuzzleSolver = p.Solver
	}
	return save
}

// Apply loads save into e. On error e keeps its current game.
func Apply(e *game.Engine, save GameSave) error {
	mode, _ := game.ParseMode(save.Mode)
	if mode != game.ModePuzzle || save.PuzzleMoves <= 0 {
		return e.LoadFEN(save.FEN)
	}
	solver, ok := shared.ParseColor(save.PuzzleSolver)
	if !ok {
		// Older saves only carried the remaining budget, counted for the
		// side to move.
		return e.LoadPuzzle(save.FEN, save.PuzzleMoves)
	}
	maxMoves := max(save.PuzzleMaxMoves, save.PuzzleMoves)
	return e.ResumePuzzle(save.FEN, solver, maxMoves, maxMoves-save.PuzzleMoves)
}
