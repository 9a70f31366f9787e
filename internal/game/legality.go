package game

import "chesscore/internal/shared"

// IsKingInCheck reports whether color's king is attacked on b.
//
// Opposing kings never count as attackers here. King generation asks this
// question while building castling moves, so letting kings attack would make
// the two recurse into each other. Adjacent kings are reported as check
// instead, which is also the only way a king-delivered attack shows up.
func IsKingInCheck(color Color, b *BoardMap) bool {
	king, ok := b.King(color)
	if !ok {
		return false
	}
	if other, ok := b.King(color.Opposite()); ok && shared.Chebyshev(king, other) <= 1 {
		return true
	}
	bb := b.ColorOccupancy(color.Opposite())
	for bb != 0 {
		var from Position
		from, bb = bb.PopLSB()
		pc, _ := b.Get(from)
		if pc.Type == King {
			continue
		}
		for _, m := range attackMoves(b, from, pc) {
			if m.To == king {
				return true
			}
		}
	}
	return false
}

// simulate returns a copy of b with m played. An en passant capture also
// removes the pawn standing beside the mover.
func simulate(b *BoardMap, m Move) BoardMap {
	sim := *b
	pc, ok := sim.Remove(m.From)
	if !ok {
		return sim
	}
	if pc.Type == Pawn && m.From.Col() != m.To.Col() && !sim.Has(m.To) {
		if victim, ok := shared.PositionFromIndex(m.From.Row()*8 + m.To.Col()); ok {
			sim.Remove(victim)
		}
	}
	sim.Set(m.To, pc)
	return sim
}

func leavesKingInCheck(b *BoardMap, m Move, color Color) bool {
	sim := simulate(b, m)
	return IsKingInCheck(color, &sim)
}

// IsValidMove reports whether m is a pseudo-move of the piece on m.From that
// does not leave that piece's own king in check.
func IsValidMove(st *BoardState, m Move) bool {
	pc, ok := st.Board.Get(m.From)
	if !ok {
		return false
	}
	for _, cand := range PseudoMoves(st, m.From) {
		if cand == m {
			return !leavesKingInCheck(&st.Board, m, pc.Color)
		}
	}
	return false
}

// LegalMoves lists the fully legal moves of the piece on from.
func LegalMoves(st *BoardState, from Position) []Move {
	pc, ok := st.Board.Get(from)
	if !ok {
		return nil
	}
	var legal []Move
	for _, m := range PseudoMoves(st, from) {
		if !leavesKingInCheck(&st.Board, m, pc.Color) {
			legal = append(legal, m)
		}
	}
	return legal
}

// AllLegalMoves lists every legal move for the side to move, in board index
// order of the moving piece.
func AllLegalMoves(st *BoardState) []Move {
	var all []Move
	st.Board.EachOf(st.Turn, func(p Position, _ Piece) {
		all = append(all, LegalMoves(st, p)...)
	})
	return all
}

// IsMoveValidUnderCheck re-validates m against the live board. Moves that
// arrive from outside the selection flow, such as an engine suggestion, go
// through here as well.
func IsMoveValidUnderCheck(st *BoardState, m Move) bool {
	pc, ok := st.Board.Get(m.From)
	if !ok {
		return false
	}
	if !IsKingInCheck(pc.Color, &st.Board) {
		return IsValidMove(st, m)
	}
	return !leavesKingInCheck(&st.Board, m, pc.Color)
}

func hasLegalMove(color Color, st *BoardState) bool {
	bb := st.Board.ColorOccupancy(color)
	for bb != 0 {
		var from Position
		from, bb = bb.PopLSB()
		for _, m := range PseudoMoves(st, from) {
			if !leavesKingInCheck(&st.Board, m, color) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate reports whether color is in check with no move that clears it.
// It takes the whole state so an en passant escape is considered.
func IsCheckmate(color Color, st *BoardState) bool {
	return IsKingInCheck(color, &st.Board) && !hasLegalMove(color, st)
}

// IsStalemate reports whether color is not in check but has no safe move.
func IsStalemate(color Color, st *BoardState) bool {
	return !IsKingInCheck(color, &st.Board) && !hasLegalMove(color, st)
}

// IsDeadPosition recognises the material sets that cannot mate: K v K,
// K+N v K, K+B v K, and K+B v K+B with both bishops on one square colour.
func IsDeadPosition(b *BoardMap) bool {
	type minor struct {
		pos Position
		pc  Piece
	}
	var rest []minor
	b.Each(func(p Position, pc Piece) {
		if pc.Type != King {
			rest = append(rest, minor{p, pc})
		}
	})
	switch len(rest) {
	case 0:
		return true
	case 1:
		return rest[0].pc.Type == Knight || rest[0].pc.Type == Bishop
	case 2:
		a, c := rest[0], rest[1]
		return a.pc.Type == Bishop && c.pc.Type == Bishop &&
			a.pc.Color != c.pc.Color &&
			a.pos.IsLight() == c.pos.IsLight()
	default:
		return false
	}
}

// IsThreefoldRepetition reports whether st's reduced position has been
// reached at least three times in h.
func IsThreefoldRepetition(h *History, st *BoardState) bool {
	return h.Occurrences(st) >= 3
}
