package game

import (
	"fmt"

	"chesscore/internal/shared"
)

// BoardState is the full per-position record. It is a value type: copying it
// yields an independent snapshot suitable for the history stacks.
type BoardState struct {
	Board          BoardMap
	Turn           Color
	LastMove       Move
	HasLastMove    bool
	HalfmoveClock  int
	FullmoveNumber int
	EnPassant      EnPassantTarget
	Castling       CastlingRights
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoardState wraps board with White to move and fresh clocks. Castling
// rights are granted for every unmoved king on its home square paired with
// an unmoved rook on the matching corner.
func NewBoardState(board BoardMap) (BoardState, error) {
	if err := validateKings(&board); err != nil {
		return BoardState{}, err
	}
	st := BoardState{
		Board:          board,
		Turn:           White,
		FullmoveNumber: 1,
	}
	for _, c := range []Color{White, Black} {
		for _, side := range []CastlingSide{CastleKingside, CastleQueenside} {
			if castlingPiecesInPlace(&st.Board, c, side) {
				st.Castling |= CastlingRight(c, side)
			}
		}
	}
	return st, nil
}

// StandardBoardState is the initial chess position.
func StandardBoardState() BoardState {
	var b BoardMap
	for col := 0; col < 8; col++ {
		b.Set(Position(col), NewPiece(White, backRank[col]))
		b.Set(Position(8+col), NewPiece(White, Pawn))
		b.Set(Position(48+col), NewPiece(Black, Pawn))
		b.Set(Position(56+col), NewPiece(Black, backRank[col]))
	}
	st, err := NewBoardState(b)
	if err != nil {
		panic(err)
	}
	return st
}

// validateKings enforces one king per colour on any non-empty board.
func validateKings(b *BoardMap) error {
	if b.Empty() {
		return nil
	}
	for _, c := range []Color{White, Black} {
		if n := b.Count(c, King); n != 1 {
			return fmt.Errorf("%w: %s has %d", ErrKingCount, c, n)
		}
	}
	return nil
}

func castlingPiecesInPlace(b *BoardMap, c Color, side CastlingSide) bool {
	king, ok := b.Get(kingHome(c))
	if !ok || king.Color != c || king.Type != King || king.Moved {
		return false
	}
	rook, ok := b.Get(side.rookHome(c))
	return ok && rook.Color == c && rook.Type == Rook && !rook.Moved
}

// Key is the repetition key: placement, side to move, castling rights and
// en passant target. Clocks are not part of it.
func (st *BoardState) Key() string { return ReducedFEN(st) }

// Equal reports reduced equality, the relation used for repetition.
func (st *BoardState) Equal(o *BoardState) bool {
	return st.Turn == o.Turn &&
		st.Castling == o.Castling &&
		st.EnPassant == o.EnPassant &&
		st.Board.SamePlacement(&o.Board)
}

func (st *BoardState) PieceAt(p Position) (Piece, bool) { return st.Board.Get(p) }

// lastMoveRef returns the previous move for pawn generation, or nil.
func (st *BoardState) lastMoveRef() *Move {
	if !st.HasLastMove {
		return nil
	}
	m := st.LastMove
	return &m
}

// PlacePiece is a convenience for setting up positions by notation.
func (st *BoardState) PlacePiece(square string, pc Piece) error {
	p, err := shared.ParsePosition(square)
	if err != nil {
		return err
	}
	st.Board.Set(p, pc)
	return nil
}
