package game

import (
	"sort"
	"testing"

	"chesscore/internal/shared"
)

func mustPos(t *testing.T, s string) Position {
	t.Helper()
	p, err := shared.ParsePosition(s)
	if err != nil {
		t.Fatalf("invalid square %q: %v", s, err)
	}
	return p
}

func mustState(t *testing.T, fen string) BoardState {
	t.Helper()
	st, err := DecodeFEN(fen)
	if err != nil {
		t.Fatalf("DecodeFEN(%q): %v", fen, err)
	}
	return st
}

func mustPlay(t *testing.T, eng *Engine, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if res := eng.SubmitUCI(mv); !res.Applied {
			t.Fatalf("move %s rejected: %s", mv, res.Reason)
		}
	}
}

func targetNames(ps []Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	sort.Strings(out)
	return out
}

func moveTargets(moves []Move) []string {
	ps := make([]Position, len(moves))
	for i, m := range moves {
		ps[i] = m.To
	}
	return targetNames(ps)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
