package game

import (
	"fmt"
	"strings"

	"chesscore/internal/shared"
)

type (
	Color     = shared.Color
	PieceType = shared.PieceType
	Position  = shared.Position
)

const (
	White = shared.White
	Black = shared.Black

	Pawn   = shared.Pawn
	Knight = shared.Knight
	Bishop = shared.Bishop
	Rook   = shared.Rook
	Queen  = shared.Queen
	King   = shared.King
)

// Piece is a board occupant. Moved is set once the piece has left its
// square at least once and gates castling and the pawn double step.
type Piece struct {
	Color Color
	Type  PieceType
	Moved bool
}

func NewPiece(c Color, t PieceType) Piece { return Piece{Color: c, Type: t} }

func (p Piece) Value() int { return p.Type.Value() }

func (p Piece) Letter() byte { return p.Type.Letter(p.Color) }

func (p Piece) String() string { return string(p.Letter()) }

// Move is a (from, to) pair. Promotion is carried separately by MoveRequest.
type Move struct {
	From Position
	To   Position
}

func (m Move) String() string { return m.From.String() + m.To.String() }

type MoveKind uint8

const (
	MoveOrdinary MoveKind = iota
	MoveCastling
	MoveEnPassant
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveOrdinary:
		return "ordinary"
	case MoveCastling:
		return "castling"
	case MoveEnPassant:
		return "en-passant"
	case MovePromotion:
		return "promotion"
	default:
		return "?"
	}
}

type CastlingRights uint8

const (
	CastlingNone          CastlingRights = 0
	CastlingWhiteKingside CastlingRights = 1 << iota
	CastlingWhiteQueenside
	CastlingBlackKingside
	CastlingBlackQueenside
	CastlingAll = CastlingWhiteKingside | CastlingWhiteQueenside | CastlingBlackKingside | CastlingBlackQueenside
)

type CastlingSide uint8

const (
	CastleKingside CastlingSide = iota
	CastleQueenside
)

func (cs CastlingSide) String() string {
	if cs == CastleQueenside {
		return "queenside"
	}
	return "kingside"
}

// rookHome is the corner a side's rook starts on.
func (cs CastlingSide) rookHome(c Color) Position {
	row := homeRow(c)
	if cs == CastleQueenside {
		return Position(row * 8)
	}
	return Position(row*8 + 7)
}

// kingTarget is the square the king lands on when castling to this side.
func (cs CastlingSide) kingTarget(c Color) Position {
	row := homeRow(c)
	if cs == CastleQueenside {
		return Position(row*8 + 2)
	}
	return Position(row*8 + 6)
}

// rookTarget is the square the rook lands on when castling to this side.
func (cs CastlingSide) rookTarget(c Color) Position {
	row := homeRow(c)
	if cs == CastleQueenside {
		return Position(row*8 + 3)
	}
	return Position(row*8 + 5)
}

func homeRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

func kingHome(c Color) Position { return Position(homeRow(c)*8 + 4) }

func CastlingRight(color Color, side CastlingSide) CastlingRights {
	switch {
	case color == White && side == CastleQueenside:
		return CastlingWhiteQueenside
	case color == White:
		return CastlingWhiteKingside
	case side == CastleQueenside:
		return CastlingBlackQueenside
	default:
		return CastlingBlackKingside
	}
}

func CastlingRightsForColor(color Color) CastlingRights {
	if color == White {
		return CastlingWhiteKingside | CastlingWhiteQueenside
	}
	return CastlingBlackKingside | CastlingBlackQueenside
}

func (cr CastlingRights) Has(right CastlingRights) bool { return cr&right != 0 }

func (cr CastlingRights) HasSide(color Color, side CastlingSide) bool {
	return cr.Has(CastlingRight(color, side))
}

func (cr CastlingRights) Without(right CastlingRights) CastlingRights { return cr &^ right }

func (cr CastlingRights) WithoutColor(color Color) CastlingRights {
	return cr.Without(CastlingRightsForColor(color))
}

func (cr CastlingRights) String() string {
	var b strings.Builder
	if cr.Has(CastlingWhiteKingside) {
		b.WriteByte('K')
	}
	if cr.Has(CastlingWhiteQueenside) {
		b.WriteByte('Q')
	}
	if cr.Has(CastlingBlackKingside) {
		b.WriteByte('k')
	}
	if cr.Has(CastlingBlackQueenside) {
		b.WriteByte('q')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func ParseCastlingRights(s string) (CastlingRights, error) {
	if s == "-" {
		return CastlingNone, nil
	}
	if s == "" {
		return CastlingNone, fmt.Errorf("%w: empty castling field", ErrInvalidFEN)
	}
	var rights CastlingRights
	for _, r := range s {
		var bit CastlingRights
		switch r {
		case 'K':
			bit = CastlingWhiteKingside
		case 'Q':
			bit = CastlingWhiteQueenside
		case 'k':
			bit = CastlingBlackKingside
		case 'q':
			bit = CastlingBlackQueenside
		default:
			return CastlingNone, fmt.Errorf("%w: castling flag %q", ErrInvalidFEN, string(r))
		}
		if rights.Has(bit) {
			return CastlingNone, fmt.Errorf("%w: repeated castling flag %q", ErrInvalidFEN, string(r))
		}
		rights |= bit
	}
	return rights, nil
}

func (cr CastlingRights) MarshalText() ([]byte, error) { return []byte(cr.String()), nil }

func (cr *CastlingRights) UnmarshalText(text []byte) error {
	v, err := ParseCastlingRights(string(text))
	if err != nil {
		return err
	}
	*cr = v
	return nil
}

// EnPassantTarget is the square a pawn skipped over on the previous move.
type EnPassantTarget struct {
	square Position
	valid  bool
}

func NewEnPassantTarget(p Position) EnPassantTarget { return EnPassantTarget{square: p, valid: true} }

func NoEnPassantTarget() EnPassantTarget { return EnPassantTarget{} }

func (e EnPassantTarget) Valid() bool { return e.valid }

func (e EnPassantTarget) Position() (Position, bool) { return e.square, e.valid }

func (e EnPassantTarget) String() string {
	if !e.valid {
		return "-"
	}
	return e.square.String()
}

func ParseEnPassantTarget(s string) (EnPassantTarget, error) {
	if s == "-" {
		return EnPassantTarget{}, nil
	}
	p, err := shared.ParsePosition(s)
	if err != nil {
		return EnPassantTarget{}, fmt.Errorf("%w: en-passant square %q", ErrInvalidFEN, s)
	}
	return NewEnPassantTarget(p), nil
}

func (e EnPassantTarget) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EnPassantTarget) UnmarshalText(text []byte) error {
	v, err := ParseEnPassantTarget(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

type OutcomeKind uint8

const (
	OutcomeNone OutcomeKind = iota
	OutcomeCheckmate
	OutcomeDraw
	OutcomeResignation
	OutcomePuzzleSolved
	OutcomePuzzleFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeDraw:
		return "draw"
	case OutcomeResignation:
		return "resignation"
	case OutcomePuzzleSolved:
		return "puzzle-solved"
	case OutcomePuzzleFailed:
		return "puzzle-failed"
	default:
		return "?"
	}
}

type DrawReason uint8

const (
	DrawNone DrawReason = iota
	DrawThreefold
	DrawFiftyMove
	DrawDeadPosition
	DrawStalemate
)

func (r DrawReason) String() string {
	switch r {
	case DrawThreefold:
		return "threefold repetition"
	case DrawFiftyMove:
		return "fifty-move rule"
	case DrawDeadPosition:
		return "dead position"
	case DrawStalemate:
		return "stalemate"
	default:
		return ""
	}
}

// Outcome describes how a finished game ended.
type Outcome struct {
	Kind      OutcomeKind
	Winner    Color
	HasWinner bool
	Reason    DrawReason
}

func (o Outcome) Ended() bool { return o.Kind != OutcomeNone }

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeNone:
		return "in progress"
	case OutcomeDraw:
		return "draw by " + o.Reason.String()
	case OutcomeCheckmate:
		return "checkmate, " + o.Winner.String() + " wins"
	case OutcomeResignation:
		return o.Winner.Opposite().String() + " resigned, " + o.Winner.String() + " wins"
	case OutcomePuzzleSolved:
		return "puzzle solved"
	case OutcomePuzzleFailed:
		return "puzzle failed"
	default:
		return "?"
	}
}

type Status uint8

const (
	StatusReady Status = iota
	StatusGameEnded
)

func (s Status) String() string {
	if s == StatusGameEnded {
		return "ended"
	}
	return "ready"
}

type Mode uint8

const (
	ModeStandard Mode = iota
	ModePuzzle
)

func (m Mode) String() string {
	if m == ModePuzzle {
		return "puzzle"
	}
	return "standard"
}

func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return ModeStandard, true
	case "puzzle":
		return ModePuzzle, true
	default:
		return ModeStandard, false
	}
}
