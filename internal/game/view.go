package game

// PieceState is a serializable representation of a Piece.
type PieceState struct {
	Square    Position  `json:"square"`
	Color     Color     `json:"color"`
	ColorName string    `json:"colorName"`
	Type      PieceType `json:"type"`
	TypeName  string    `json:"typeName"`
	Letter    string    `json:"letter"`
	Moved     bool      `json:"moved"`
}

// PuzzleState reports progress in puzzle mode.
type PuzzleState struct {
	Solver    string `json:"solver"`
	MaxMoves  int    `json:"maxMoves"`
	MovesUsed int    `json:"movesUsed"`
	Remaining int    `json:"remaining"`
}

// GameState is a serializable representation of the whole game.
type GameState struct {
	FEN               string          `json:"fen"`
	Pieces            []PieceState    `json:"pieces"`
	Turn              Color           `json:"turn"`
	TurnName          string          `json:"turnName"`
	Mode              string          `json:"mode"`
	Status            string          `json:"status"`
	InCheck           bool            `json:"inCheck"`
	GameOver          bool            `json:"gameOver"`
	Outcome           string          `json:"outcome"`
	HasWinner         bool            `json:"hasWinner"`
	WinnerName        string          `json:"winnerName,omitempty"`
	LastMove          string          `json:"lastMove,omitempty"`
	HalfmoveClock     int             `json:"halfmoveClock"`
	FullmoveNumber    int             `json:"fullmoveNumber"`
	Castling          CastlingRights  `json:"castling"`
	EnPassant         EnPassantTarget `json:"enPassant"`
	MaterialAdvantage int             `json:"materialAdvantage"`
	Repetitions       int             `json:"repetitions"`
	CanUndo           bool            `json:"canUndo"`
	CanRedo           bool            `json:"canRedo"`
	Puzzle            *PuzzleState    `json:"puzzle,omitempty"`
}

// State returns a serializable representation of the current game state.
func (e *Engine) State() GameState {
	st := &e.state
	gs := GameState{
		FEN:               EncodeFEN(st),
		Pieces:            make([]PieceState, 0, st.Board.Len()),
		Turn:              st.Turn,
		TurnName:          st.Turn.String(),
		Mode:              e.mode.String(),
		Status:            e.status.String(),
		InCheck:           IsKingInCheck(st.Turn, &st.Board),
		GameOver:          e.status == StatusGameEnded,
		Outcome:           e.outcome.String(),
		HasWinner:         e.outcome.HasWinner,
		HalfmoveClock:     st.HalfmoveClock,
		FullmoveNumber:    st.FullmoveNumber,
		Castling:          st.Castling,
		EnPassant:         st.EnPassant,
		MaterialAdvantage: st.Board.MaterialAdvantage(),
		Repetitions:       e.history.Occurrences(st),
		CanUndo:           e.history.CanUndo(),
		CanRedo:           e.history.CanRedo(),
	}
	if e.outcome.HasWinner {
		gs.WinnerName = e.outcome.Winner.String()
	}
	if st.HasLastMove {
		gs.LastMove = st.LastMove.String()
	}
	st.Board.Each(func(p Position, pc Piece) {
		gs.Pieces = append(gs.Pieces, PieceState{
			Square:    p,
			Color:     pc.Color,
			ColorName: pc.Color.String(),
			Type:      pc.Type,
			TypeName:  pc.Type.Name(),
			Letter:    pc.String(),
			Moved:     pc.Moved,
		})
	})
	if e.mode == ModePuzzle {
		gs.Puzzle = &PuzzleState{
			Solver:    e.puzzle.solver.String(),
			MaxMoves:  e.puzzle.maxMoves,
			MovesUsed: e.puzzle.solverMoves,
			Remaining: max(0, e.puzzle.maxMoves-e.puzzle.solverMoves),
		}
	}
	return gs
}
