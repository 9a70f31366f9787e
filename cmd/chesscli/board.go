package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"chesscore/internal/game"
	"chesscore/internal/shared"
)

var (
	statusOK   = color.New(color.FgGreen)
	statusWarn = color.New(color.FgYellow)
	statusErr  = color.New(color.FgRed)
)

// renderBoard draws the board from White's side. Squares in marks are
// highlighted.
func renderBoard(w io.Writer, st *game.BoardState, marks map[shared.Position]bool) {
	for row := 7; row >= 0; row-- {
		var line strings.Builder
		fmt.Fprintf(&line, "%d ", row+1)
		for col := 0; col < 8; col++ {
			p, _ := shared.NewPosition(col, row)
			line.WriteString(cell(st, p, marks[p]))
		}
		fmt.Fprintln(w, line.String())
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
}

func cell(st *game.BoardState, p shared.Position, marked bool) string {
	bg := color.BgGreen
	switch {
	case marked:
		bg = color.BgYellow
	case p.IsLight():
		bg = color.BgHiWhite
	}
	pc, ok := st.Board.Get(p)
	if !ok {
		return color.New(bg).Sprint("   ")
	}
	fg := color.FgHiBlue
	if pc.Color == shared.Black {
		fg = color.FgRed
	}
	return color.New(bg, color.Bold, fg).Sprint(" " + pc.String() + " ")
}

// renderStatus prints the side to move and the game result, if any.
func renderStatus(w io.Writer, gs game.GameState) {
	line := fmt.Sprintf("%s to move", gs.TurnName)
	switch {
	case gs.GameOver:
		statusWarn.Fprintf(w, "game over: %s\n", gs.Outcome)
		return
	case gs.InCheck:
		line += ", check"
	}
	if gs.MaterialAdvantage != 0 {
		line += fmt.Sprintf(" (material %+d)", gs.MaterialAdvantage)
	}
	if gs.Puzzle != nil {
		line += fmt.Sprintf(" [puzzle: %d moves left]", gs.Puzzle.Remaining)
	}
	statusOK.Fprintln(w, line)
}
