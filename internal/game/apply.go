package game

// classify names the kind of a legal move before it is applied.
func classify(b *BoardMap, pc Piece, m Move) MoveKind {
	switch pc.Type {
	case King:
		if abs(m.To.Col()-m.From.Col()) == 2 {
			return MoveCastling
		}
	case Pawn:
		if m.From.Col() != m.To.Col() && !b.Has(m.To) {
			return MoveEnPassant
		}
		if m.To.Row() == homeRow(pc.Color.Opposite()) {
			return MovePromotion
		}
	}
	return MoveOrdinary
}

// applyMove plays an already validated move on st in place and returns the
// captured piece, if any. promo is only read for MovePromotion.
func applyMove(st *BoardState, m Move, kind MoveKind, promo PieceType) (Piece, bool) {
	b := &st.Board
	pc, _ := b.Remove(m.From)

	var (
		captured    Piece
		hasCaptured bool
	)
	switch kind {
	case MoveCastling:
		side := CastleQueenside
		if m.To.Col() > m.From.Col() {
			side = CastleKingside
		}
		moveCastleRook(b, pc.Color, side)
	case MoveEnPassant:
		victim := Position(m.From.Row()*8 + m.To.Col())
		captured, hasCaptured = b.Remove(victim)
	default:
		captured, hasCaptured = b.Remove(m.To)
	}
	if hasCaptured {
		revokeRightsForCapture(st, captured, m.To)
	}

	revokeRightsForMove(st, pc, m.From)
	pc.Moved = true
	if kind == MovePromotion {
		pc.Type = promo
	}
	b.Set(m.To, pc)

	st.LastMove = m
	st.HasLastMove = true
	st.EnPassant = NoEnPassantTarget()
	if pc.Type == Pawn && abs(m.To.Row()-m.From.Row()) == 2 {
		st.EnPassant = NewEnPassantTarget(Position((m.From.Row()+m.To.Row())/2*8 + m.From.Col()))
	}

	if hasCaptured || kind == MovePromotion || pc.Type == Pawn {
		st.HalfmoveClock = 0
	} else {
		st.HalfmoveClock++
	}
	if pc.Color == Black {
		st.FullmoveNumber++
	}
	st.Turn = st.Turn.Opposite()
	return captured, hasCaptured
}

func moveCastleRook(b *BoardMap, c Color, side CastlingSide) {
	rook, ok := b.Remove(side.rookHome(c))
	if !ok {
		return
	}
	rook.Moved = true
	b.Set(side.rookTarget(c), rook)
}

// castlingRightForRook names the right tied to a rook standing on p, if p is
// one of c's corners.
func castlingRightForRook(c Color, p Position) CastlingRights {
	for _, side := range []CastlingSide{CastleKingside, CastleQueenside} {
		if p == side.rookHome(c) {
			return CastlingRight(c, side)
		}
	}
	return CastlingNone
}

func revokeRightsForMove(st *BoardState, pc Piece, from Position) {
	switch pc.Type {
	case King:
		st.Castling = st.Castling.WithoutColor(pc.Color)
	case Rook:
		st.Castling = st.Castling.Without(castlingRightForRook(pc.Color, from))
	}
}

func revokeRightsForCapture(st *BoardState, captured Piece, at Position) {
	if captured.Type == Rook {
		st.Castling = st.Castling.Without(castlingRightForRook(captured.Color, at))
	}
}
