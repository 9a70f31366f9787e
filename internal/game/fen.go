package game

import (
	"fmt"
	"strconv"
	"strings"

	"chesscore/internal/shared"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// EncodeFEN renders the six-field notation string.
func EncodeFEN(st *BoardState) string {
	return ReducedFEN(st) + " " + strconv.Itoa(st.HalfmoveClock) + " " + strconv.Itoa(st.FullmoveNumber)
}

// ReducedFEN renders the first four fields only. It doubles as the
// repetition key.
func ReducedFEN(st *BoardState) string {
	var sb strings.Builder
	sb.Grow(72)
	writePlacement(&sb, &st.Board)
	sb.WriteByte(' ')
	sb.WriteString(st.Turn.Letter())
	sb.WriteByte(' ')
	sb.WriteString(st.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(st.EnPassant.String())
	return sb.String()
}

func writePlacement(sb *strings.Builder, b *BoardMap) {
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			pc, ok := b.Get(Position(row*8 + col))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
}

// DecodeFEN parses the four- or six-field notation string. Failures wrap
// ErrInvalidFEN, or ErrKingCount when the placement lacks a unique king per
// side; callers are expected to fall back to a known position.
func DecodeFEN(text string) (BoardState, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 && len(fields) != 6 {
		return BoardState{}, fmt.Errorf("%w: expected 4 or 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	var st BoardState
	if err := parsePlacement(fields[0], &st.Board); err != nil {
		return BoardState{}, err
	}
	if err := validateKings(&st.Board); err != nil {
		return BoardState{}, err
	}
	if st.Board.Empty() {
		return BoardState{}, fmt.Errorf("%w: empty board", ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		st.Turn = White
	case "b":
		st.Turn = Black
	default:
		return BoardState{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	rights, err := ParseCastlingRights(fields[2])
	if err != nil {
		return BoardState{}, err
	}
	st.Castling = rights

	ep, err := ParseEnPassantTarget(fields[3])
	if err != nil {
		return BoardState{}, err
	}
	if ep.Valid() {
		last, err := impliedDoublePush(&st.Board, st.Turn, ep)
		if err != nil {
			return BoardState{}, err
		}
		st.EnPassant = ep
		st.LastMove = last
		st.HasLastMove = true
	}

	st.HalfmoveClock, st.FullmoveNumber = 0, 1
	if len(fields) == 6 {
		if st.HalfmoveClock, err = parseClock(fields[4], 0); err != nil {
			return BoardState{}, err
		}
		if st.FullmoveNumber, err = parseClock(fields[5], 1); err != nil {
			return BoardState{}, err
		}
	}

	deriveMovedFlags(&st)
	return st, nil
}

func parsePlacement(field string, b *BoardMap) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rank := range ranks {
		row := 7 - i
		col := 0
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			color, kind, ok := shared.ParsePieceLetter(ch)
			if !ok {
				return fmt.Errorf("%w: piece letter %q", ErrInvalidFEN, string(ch))
			}
			if col > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, row+1)
			}
			if kind == Pawn && (row == 0 || row == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, row+1)
			}
			b.Set(Position(row*8+col), NewPiece(color, kind))
			col++
		}
		if col != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, row+1, col)
		}
	}
	return nil
}

// impliedDoublePush checks that ep is a square a pawn of the side not to
// move just skipped and returns that pawn's move.
func impliedDoublePush(b *BoardMap, turn Color, ep EnPassantTarget) (Move, error) {
	target, _ := ep.Position()
	mover := turn.Opposite()
	dir := pawnDir(mover)
	wantRow := 2
	if mover == Black {
		wantRow = 5
	}
	if target.Row() != wantRow || b.Has(target) {
		return Move{}, fmt.Errorf("%w: en-passant square %s", ErrInvalidFEN, target)
	}
	from, _ := target.Offset(0, -dir)
	to, _ := target.Offset(0, dir)
	pc, ok := b.Get(to)
	if !ok || pc.Type != Pawn || pc.Color != mover || b.Has(from) {
		return Move{}, fmt.Errorf("%w: no pawn behind en-passant square %s", ErrInvalidFEN, target)
	}
	return Move{From: from, To: to}, nil
}

func parseClock(s string, floor int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < floor {
		return 0, fmt.Errorf("%w: clock %q", ErrInvalidFEN, s)
	}
	return n, nil
}

// deriveMovedFlags infers the moved bit, which the notation does not carry.
func deriveMovedFlags(st *BoardState) {
	st.Board.Each(func(p Position, pc Piece) {
		switch pc.Type {
		case Pawn:
			pc.Moved = p.Row() != pawnStartRow(pc.Color)
		case King:
			pc.Moved = p != kingHome(pc.Color) || !st.Castling.Has(CastlingRightsForColor(pc.Color))
		case Rook:
			pc.Moved = true
			for _, side := range []CastlingSide{CastleKingside, CastleQueenside} {
				if p == side.rookHome(pc.Color) && st.Castling.HasSide(pc.Color, side) {
					pc.Moved = false
				}
			}
		default:
			pc.Moved = p.Row() != homeRow(pc.Color)
		}
		st.Board.Set(p, pc)
	})
}
