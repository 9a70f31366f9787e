// Command chesscli plays a game in the terminal. Moves are typed in
// coordinate form (e2e4, e7e8q); "help" lists the other commands.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"chesscore/internal/game"
	"chesscore/internal/shared"
	"chesscore/internal/store"
	"chesscore/internal/util"
)

const helpText = `commands:
  e2e4, e7e8q      play a move (promotion letter q, r, b or n)
  moves <square>   list legal destinations of the piece on square
  undo, redo       step through the move history
  fen              print the current position
  load <fen>       start from a position
  puzzle <n> <fen> start a puzzle: mate within n moves
  save [name]      save the game
  restore [name]   restore a save (default: the newest)
  saves            list saves
  resign           resign for the side to move
  new              start a new game
  quit             leave`

func main() {
	fen := flag.String("fen", "", "starting position (default: standard)")
	savesDir := flag.String("saves", "saves", "directory for saved games")
	noColor := flag.Bool("no-color", false, "disable coloured output")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}
	if *logFile != "" {
		if err := util.InitLog(*logFile, "chesscli "); err != nil {
			log.Fatal(err)
		}
	}

	saves, err := store.NewFileStore(*savesDir)
	if err != nil {
		log.Printf("saves disabled: %v", err)
		saves = nil
	}
	s := newSession(game.NewEngine(), saves, color.Output)
	if *fen != "" {
		s.load(*fen)
	}
	s.show()
	s.run(os.Stdin)
}

// session is one interactive game.
type session struct {
	eng   *game.Engine
	saves *store.FileStore
	out   io.Writer
	marks map[shared.Position]bool
}

func newSession(eng *game.Engine, saves *store.FileStore, out io.Writer) *session {
	return &session{eng: eng, saves: saves, out: out}
}

func (s *session) run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		if !s.exec(scanner.Text()) {
			return
		}
		fmt.Fprint(s.out, "> ")
	}
}

// exec runs one command line and reports whether to keep reading.
func (s *session) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	s.marks = nil

	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return true
	case "fen":
		fmt.Fprintln(s.out, s.eng.FEN())
		return true
	case "moves":
		s.moves(args)
	case "undo":
		s.report(s.eng.Undo())
	case "redo":
		s.report(s.eng.Redo())
	case "resign":
		s.report(s.eng.Resign())
	case "new":
		s.eng.Reset()
	case "load":
		s.load(strings.Join(args, " "))
	case "puzzle":
		s.puzzle(args)
	case "save":
		s.save(args)
		return true
	case "restore":
		s.restore(args)
	case "saves":
		s.list()
		return true
	default:
		res := s.eng.SubmitUCI(strings.ToLower(cmd))
		if !res.Applied {
			statusErr.Fprintf(s.out, "rejected: %s\n", res.Reason)
			return true
		}
		if res.Captured != "" {
			fmt.Fprintf(s.out, "%s captures %s\n", res.Move, res.Captured)
		}
	}
	s.show()
	return true
}

func (s *session) show() {
	st := s.eng.Snapshot()
	renderBoard(s.out, &st, s.marks)
	renderStatus(s.out, s.eng.State())
}

func (s *session) report(err error) {
	if err != nil {
		statusErr.Fprintln(s.out, err)
	}
}

func (s *session) moves(args []string) {
	if len(args) != 1 {
		statusErr.Fprintln(s.out, "usage: moves <square>")
		return
	}
	from, err := shared.ParsePosition(strings.ToLower(args[0]))
	if err != nil {
		s.report(err)
		return
	}
	targets := s.eng.LegalTargets(from)
	s.marks = make(map[shared.Position]bool, len(targets))
	names := make([]string, 0, len(targets))
	for _, p := range targets {
		s.marks[p] = true
		names = append(names, p.String())
	}
	if len(names) == 0 {
		fmt.Fprintf(s.out, "%s: no legal moves\n", from)
		return
	}
	fmt.Fprintf(s.out, "%s: %s\n", from, strings.Join(names, " "))
}

func (s *session) load(fen string) {
	if err := s.eng.LoadFEN(fen); err != nil {
		s.report(err)
	}
}

func (s *session) puzzle(args []string) {
	if len(args) < 2 {
		statusErr.Fprintln(s.out, "usage: puzzle <moves> <fen>")
		return
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
		statusErr.Fprintf(s.out, "bad move count %q\n", args[0])
		return
	}
	s.report(s.eng.LoadPuzzle(strings.Join(args[1:], " "), n))
}

func (s *session) save(args []string) {
	if s.saves == nil {
		statusErr.Fprintln(s.out, "saving is disabled")
		return
	}
	snap := store.Capture(s.eng)
	if len(args) > 0 {
		snap.Name = args[0]
	}
	saved, err := s.saves.Save(snap)
	if err != nil {
		log.Printf("save: %v", err)
		s.report(err)
		return
	}
	statusOK.Fprintf(s.out, "saved as %s\n", saved.Name)
}

func (s *session) restore(args []string) {
	if s.saves == nil {
		statusErr.Fprintln(s.out, "saving is disabled")
		return
	}
	var (
		save store.GameSave
		err  error
	)
	if len(args) > 0 {
		save, err = s.saves.Load(args[0])
	} else {
		save, err = s.saves.LoadLatest()
	}
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrNoSaves) {
			log.Printf("restore: %v", err)
		}
		s.report(err)
		return
	}
	if err := store.Apply(s.eng, save); err != nil {
		log.Printf("restore %s: %v", save.Name, err)
		statusWarn.Fprintf(s.out, "save %s is unreadable (%v); starting a new game\n", save.Name, err)
		s.eng.Reset()
		return
	}
	statusOK.Fprintf(s.out, "restored %s\n", save.Name)
}

func (s *session) list() {
	if s.saves == nil {
		statusErr.Fprintln(s.out, "saving is disabled")
		return
	}
	list, err := s.saves.List()
	if err != nil {
		s.report(err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "no saves")
		return
	}
	for _, save := range list {
		fmt.Fprintf(s.out, "%-24s %s  %s\n", save.Name, save.Timestamp.Format("2006-01-02 15:04"), save.FEN)
	}
}
