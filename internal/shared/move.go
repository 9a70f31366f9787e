package shared

import (
	"fmt"
	"strings"
)

// CoordinateMove is a move in long coordinate form: two squares plus an
// optional promotion kind, e.g. "e2e4" or "e7e8q".
type CoordinateMove struct {
	From         Position
	To           Position
	Promotion    PieceType
	HasPromotion bool
}

func (m CoordinateMove) String() string {
	s := m.From.String() + m.To.String()
	if m.HasPromotion {
		s += strings.ToLower(m.Promotion.String())
	}
	return s
}

// ParseCoordinateMove accepts 4 or 5 characters: two squares followed by an
// optional q, r, b or n.
func ParseCoordinateMove(text string) (CoordinateMove, error) {
	s := strings.TrimSpace(text)
	if len(s) != 4 && len(s) != 5 {
		return CoordinateMove{}, fmt.Errorf("%w: move %q", ErrInvalidNotation, text)
	}
	from, err := ParsePosition(s[0:2])
	if err != nil {
		return CoordinateMove{}, err
	}
	to, err := ParsePosition(s[2:4])
	if err != nil {
		return CoordinateMove{}, err
	}
	m := CoordinateMove{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
		default:
			return CoordinateMove{}, fmt.Errorf("%w: promotion %q", ErrInvalidNotation, s[4:])
		}
		pt, _ := ParsePromotionPiece(s[4:])
		m.Promotion = pt
		m.HasPromotion = true
	}
	return m, nil
}
