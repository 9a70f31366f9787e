package shared

import (
	"fmt"
	"math"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Letter is the side-to-move field of the board notation.
func (c Color) Letter() string {
	if c == White {
		return "w"
	}
	return "b"
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return White, false
	}
}

type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// KingValue is a sentinel larger than any real material sum. It is never
// added into a material total.
const KingValue = math.MaxInt32

func (p PieceType) String() string {
	switch p {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "?"
	}
}

func (p PieceType) Value() int {
	switch p {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return KingValue
	default:
		return 0
	}
}

// Letter returns the one-letter notation, uppercase for White.
func (p PieceType) Letter(c Color) byte {
	l := p.String()[0]
	if c == Black {
		l += 'a' - 'A'
	}
	return l
}

// ParsePieceLetter maps a notation letter (PNBRQK / pnbrqk) to colour and kind.
func ParsePieceLetter(b byte) (Color, PieceType, bool) {
	color := White
	if b >= 'a' && b <= 'z' {
		color = Black
		b -= 'a' - 'A'
	}
	switch b {
	case 'P':
		return color, Pawn, true
	case 'N':
		return color, Knight, true
	case 'B':
		return color, Bishop, true
	case 'R':
		return color, Rook, true
	case 'Q':
		return color, Queen, true
	case 'K':
		return color, King, true
	default:
		return White, Pawn, false
	}
}

// ParsePromotionPiece accepts a letter or a piece name.
func ParsePromotionPiece(s string) (PieceType, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "q", "queen":
		return Queen, true
	case "r", "rook":
		return Rook, true
	case "b", "bishop":
		return Bishop, true
	case "n", "knight":
		return Knight, true
	default:
		return 0, false
	}
}

// Position is a validated board coordinate. Index layout is row*8+col, so a1
// is 0 and h8 is 63.
type Position uint8

func NewPosition(col, row int) (Position, error) {
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, col, row)
	}
	return Position(row*8 + col), nil
}

// PositionFromIndex is the inverse of Index for 0..63.
func PositionFromIndex(idx int) (Position, bool) {
	if idx < 0 || idx > 63 {
		return 0, false
	}
	return Position(idx), true
}

// ParsePosition converts "a1".."h8" (case-insensitive file) to a Position.
func ParsePosition(text string) (Position, error) {
	if len(text) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNotation, text)
	}
	file := text[0]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	rank := text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNotation, text)
	}
	return Position(int(rank-'1')*8 + int(file-'a')), nil
}

func (p Position) Col() int   { return int(p) & 7 }
func (p Position) Row() int   { return int(p) >> 3 }
func (p Position) Index() int { return int(p) }

// Offset returns the position shifted by (dc, dr), if it stays on the board.
func (p Position) Offset(dc, dr int) (Position, bool) {
	col, row := p.Col()+dc, p.Row()+dr
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return 0, false
	}
	return Position(row*8 + col), true
}

// IsLight reports whether the square is a light square (file+rank parity).
func (p Position) IsLight() bool { return (p.Col()+p.Row())%2 == 1 }

func (p Position) String() string {
	return string([]byte{byte('a' + p.Col()), byte('1' + p.Row())})
}

func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
