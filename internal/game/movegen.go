package game

import "chesscore/internal/shared"

// genContext carries what generation needs beyond the placement itself.
// last is nil and castling is empty when generating for attack detection.
type genContext struct {
	board    *BoardMap
	last     *Move
	castling CastlingRights
}

type generator func(g *genContext, from Position, pc Piece) []Move

// generators maps a piece kind to its pseudo-legal move generator. It is
// filled in init because kingMoves reaches back into it through the check
// test.
var generators [King + 1]generator

func init() {
	generators = [King + 1]generator{
		Pawn:   pawnMoves,
		Knight: knightMoves,
		Bishop: bishopMoves,
		Rook:   rookMoves,
		Queen:  queenMoves,
		King:   kingMoves,
	}
}

// PseudoMoves lists the moves of the piece on from that respect its movement
// pattern and occupancy, including castling and en passant, without regard
// to the mover's own king.
func PseudoMoves(st *BoardState, from Position) []Move {
	pc, ok := st.Board.Get(from)
	if !ok {
		return nil
	}
	g := genContext{board: &st.Board, last: st.lastMoveRef(), castling: st.Castling}
	return generators[pc.Type](&g, from, pc)
}

// attackMoves generates without castling and en passant. Neither can land
// on an occupied square, so they never matter for attacks.
func attackMoves(b *BoardMap, from Position, pc Piece) []Move {
	g := genContext{board: b}
	return generators[pc.Type](&g, from, pc)
}

// canLand reports whether pc may end on p: on the board and not onto a
// friendly piece.
func canLand(b *BoardMap, p Position, pc Piece) bool {
	occupant, ok := b.Get(p)
	return !ok || occupant.Color != pc.Color
}

func slide(b *BoardMap, from Position, pc Piece, dirs []shared.Delta) []Move {
	var moves []Move
	for _, d := range dirs {
		cur := from
		for {
			next, ok := cur.Offset(d.DC, d.DR)
			if !ok {
				break
			}
			occupant, occupied := b.Get(next)
			if occupied {
				if occupant.Color != pc.Color {
					moves = append(moves, Move{From: from, To: next})
				}
				break
			}
			moves = append(moves, Move{From: from, To: next})
			cur = next
		}
	}
	return moves
}

func step(b *BoardMap, from Position, pc Piece, offsets []shared.Delta) []Move {
	moves := make([]Move, 0, len(offsets))
	for _, d := range offsets {
		to, ok := from.Offset(d.DC, d.DR)
		if ok && canLand(b, to, pc) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func bishopMoves(g *genContext, from Position, pc Piece) []Move {
	return slide(g.board, from, pc, shared.DiagonalDirs)
}

func rookMoves(g *genContext, from Position, pc Piece) []Move {
	return slide(g.board, from, pc, shared.OrthogonalDirs)
}

func queenMoves(g *genContext, from Position, pc Piece) []Move {
	return slide(g.board, from, pc, shared.AllDirs)
}

func knightMoves(g *genContext, from Position, pc Piece) []Move {
	return step(g.board, from, pc, shared.KnightOffsets)
}

func kingMoves(g *genContext, from Position, pc Piece) []Move {
	moves := step(g.board, from, pc, shared.AllDirs)
	if g.castling == CastlingNone || from != kingHome(pc.Color) || pc.Moved {
		return moves
	}
	if IsKingInCheck(pc.Color, g.board) {
		return moves
	}
	for _, side := range []CastlingSide{CastleKingside, CastleQueenside} {
		if g.castling.HasSide(pc.Color, side) && canCastle(g.board, pc, side) {
			moves = append(moves, Move{From: from, To: side.kingTarget(pc.Color)})
		}
	}
	return moves
}

// canCastle checks the rook, the empty gap and that the king is safe on
// every square it stands on or crosses. The caller has already established
// the king is unmoved, at home and not in check.
func canCastle(b *BoardMap, king Piece, side CastlingSide) bool {
	start := kingHome(king.Color)
	corner := side.rookHome(king.Color)
	rook, ok := b.Get(corner)
	if !ok || rook.Type != Rook || rook.Color != king.Color || rook.Moved {
		return false
	}
	for _, p := range shared.Line(start, corner) {
		if b.Has(p) {
			return false
		}
	}
	dest := side.kingTarget(king.Color)
	transit := shared.Line(start, dest)
	for _, p := range append(append([]Position{start}, transit...), dest) {
		sim := *b
		sim.Remove(start)
		sim.Set(p, king)
		if IsKingInCheck(king.Color, &sim) {
			return false
		}
	}
	return true
}

func pawnDir(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

func pawnMoves(g *genContext, from Position, pc Piece) []Move {
	b := g.board
	dir := pawnDir(pc.Color)
	var moves []Move

	if one, ok := from.Offset(0, dir); ok && !b.Has(one) {
		moves = append(moves, Move{From: from, To: one})
		if !pc.Moved && from.Row() == pawnStartRow(pc.Color) {
			if two, ok := from.Offset(0, 2*dir); ok && !b.Has(two) {
				moves = append(moves, Move{From: from, To: two})
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		to, ok := from.Offset(dc, dir)
		if !ok {
			continue
		}
		if target, occupied := b.Get(to); occupied && target.Color != pc.Color {
			moves = append(moves, Move{From: from, To: to})
		}
	}

	if to, ok := enPassantCapture(g, from, pc); ok {
		moves = append(moves, Move{From: from, To: to})
	}
	return moves
}

// enPassantCapture returns the landing square when the previous move was an
// opposing two-square pawn advance ending beside the pawn on from.
func enPassantCapture(g *genContext, from Position, pc Piece) (Position, bool) {
	if g.last == nil {
		return 0, false
	}
	last := *g.last
	moved, ok := g.board.Get(last.To)
	if !ok || moved.Type != Pawn || moved.Color == pc.Color {
		return 0, false
	}
	if abs(last.To.Row()-last.From.Row()) != 2 || last.To.Row() != from.Row() {
		return 0, false
	}
	if abs(last.To.Col()-from.Col()) != 1 {
		return 0, false
	}
	return from.Offset(last.To.Col()-from.Col(), pawnDir(pc.Color))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
