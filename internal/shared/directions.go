package shared

// Delta is a (col, row) step on the board.
type Delta struct {
	DC, DR int
}

var (
	OrthogonalDirs = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	DiagonalDirs   = []Delta{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	AllDirs        = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	KnightOffsets  = []Delta{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// Line returns the squares strictly between from and to when they share a
// rank, file or diagonal. It returns nil otherwise or when they are adjacent.
func Line(from, to Position) []Position {
	dr := to.Row() - from.Row()
	dc := to.Col() - from.Col()
	stepR := normalize(dr)
	stepC := normalize(dc)

	aligned := false
	switch {
	case dr == 0 && dc != 0:
		aligned = true
	case dc == 0 && dr != 0:
		aligned = true
	case abs(dr) == abs(dc) && dr != 0:
		aligned = true
	}
	if !aligned {
		return nil
	}

	distance := max(abs(dr), abs(dc)) - 1
	if distance <= 0 {
		return nil
	}

	squares := make([]Position, 0, distance)
	cur := from
	for i := 0; i < distance; i++ {
		next, ok := cur.Offset(stepC, stepR)
		if !ok {
			return nil
		}
		squares = append(squares, next)
		cur = next
	}
	return squares
}

// Chebyshev is the king-move distance between two squares.
func Chebyshev(a, b Position) int {
	return max(abs(a.Col()-b.Col()), abs(a.Row()-b.Row()))
}

func normalize(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
