package game

// BoardMap places pieces onto positions. It is a plain value: assigning a
// BoardMap copies every cell, so snapshots never alias the live board.
//
// A cell is occupied iff its bit is set in occ of the piece's colour; the
// content of an unoccupied cell is meaningless.
type BoardMap struct {
	cells [64]Piece
	occ   [2]Bitboard
}

func (b *BoardMap) Get(p Position) (Piece, bool) {
	if !b.Has(p) {
		return Piece{}, false
	}
	return b.cells[p], true
}

func (b *BoardMap) Has(p Position) bool { return b.Occupancy().Has(p) }

// Set places pc on p, replacing whatever was there.
func (b *BoardMap) Set(p Position, pc Piece) {
	b.Remove(p)
	b.cells[p] = pc
	b.occ[pc.Color.Index()] = b.occ[pc.Color.Index()].Add(p)
}

// Remove clears p and returns the piece that stood there, if any.
func (b *BoardMap) Remove(p Position) (Piece, bool) {
	pc, ok := b.Get(p)
	if !ok {
		return Piece{}, false
	}
	b.occ[pc.Color.Index()] = b.occ[pc.Color.Index()].Remove(p)
	b.cells[p] = Piece{}
	return pc, true
}

func (b *BoardMap) Occupancy() Bitboard { return b.occ[0] | b.occ[1] }

func (b *BoardMap) ColorOccupancy(c Color) Bitboard { return b.occ[c.Index()] }

func (b *BoardMap) Len() int { return b.Occupancy().Count() }

func (b *BoardMap) Empty() bool { return b.Occupancy().Empty() }

// Each visits occupied squares in index order (a1, b1, ..., h8).
func (b *BoardMap) Each(fn func(Position, Piece)) {
	b.Occupancy().Iter(func(p Position) { fn(p, b.cells[p]) })
}

// EachOf visits the squares holding pieces of colour c.
func (b *BoardMap) EachOf(c Color, fn func(Position, Piece)) {
	b.occ[c.Index()].Iter(func(p Position) { fn(p, b.cells[p]) })
}

// King returns the position of c's king. With more than one king present
// the lowest index wins.
func (b *BoardMap) King(c Color) (Position, bool) {
	var (
		found Position
		ok    bool
	)
	bb := b.occ[c.Index()]
	for bb != 0 {
		p, rest := bb.PopLSB()
		if b.cells[p].Type == King {
			found, ok = p, true
			break
		}
		bb = rest
	}
	return found, ok
}

// Count returns how many pieces of colour c and kind t are on the board.
func (b *BoardMap) Count(c Color, t PieceType) int {
	n := 0
	b.EachOf(c, func(_ Position, pc Piece) {
		if pc.Type == t {
			n++
		}
	})
	return n
}

// MaterialAdvantage is White's material minus Black's. Kings are skipped:
// their sentinel value would overflow any sum.
func (b *BoardMap) MaterialAdvantage() int {
	total := 0
	b.Each(func(_ Position, pc Piece) {
		if pc.Type == King {
			return
		}
		if pc.Color == White {
			total += pc.Value()
		} else {
			total -= pc.Value()
		}
	})
	return total
}

// SamePlacement compares two boards on piece colour and kind per square,
// ignoring moved flags.
func (b *BoardMap) SamePlacement(o *BoardMap) bool {
	if b.occ != o.occ {
		return false
	}
	same := true
	b.Each(func(p Position, pc Piece) {
		if o.cells[p].Type != pc.Type {
			same = false
		}
	})
	return same
}
