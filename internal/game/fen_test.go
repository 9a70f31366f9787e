package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

func TestEncodeStartPosition(t *testing.T) {
	st := StandardBoardState()
	if got := EncodeFEN(&st); got != StartFEN {
		t.Fatalf("EncodeFEN(start) = %q", got)
	}
	if got := ReducedFEN(&st); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -" {
		t.Fatalf("ReducedFEN(start) = %q", got)
	}
	if st.Castling != CastlingAll {
		t.Fatalf("start castling = %s, want all four rights", st.Castling)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 12 40",
		"4k3/8/8/8/8/8/8/4K2R b K - 3 17",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			st := mustState(t, fen)
			if got := EncodeFEN(&st); got != fen {
				t.Fatalf("round trip: got %q", got)
			}
			reduced := strings.Join(strings.Fields(fen)[:4], " ")
			rst := mustState(t, reduced)
			if got := ReducedFEN(&rst); got != reduced {
				t.Fatalf("reduced round trip: got %q want %q", got, reduced)
			}
		})
	}
}

func TestFourFieldDefaultsClocks(t *testing.T) {
	st := mustState(t, "4k3/8/8/8/8/8/8/4K3 b - -")
	if st.HalfmoveClock != 0 || st.FullmoveNumber != 1 || st.Turn != Black {
		t.Fatalf("unexpected defaults: half=%d full=%d turn=%s", st.HalfmoveClock, st.FullmoveNumber, st.Turn)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"Empty", "", ErrInvalidFEN},
		{"FiveFields", "4k3/8/8/8/8/8/8/4K3 w - - 0", ErrInvalidFEN},
		{"SevenRanks", "4k3/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidFEN},
		{"ShortRank", "4k3/8/8/8/8/8/8/4K2 w - - 0 1", ErrInvalidFEN},
		{"LongRank", "4k3/8/8/8/8/8/8/4K4 w - - 0 1", ErrInvalidFEN},
		{"BadLetter", "4k3/8/8/8/8/8/8/4X3 w - - 0 1", ErrInvalidFEN},
		{"BadTurn", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", ErrInvalidFEN},
		{"BadCastling", "4k3/8/8/8/8/8/8/4K3 w KX - 0 1", ErrInvalidFEN},
		{"BadEnPassant", "4k3/8/8/8/8/8/8/4K3 w - e9 0 1", ErrInvalidFEN},
		{"EnPassantWithoutPawn", "4k3/8/8/8/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
		{"NegativeClock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1", ErrInvalidFEN},
		{"ZeroFullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 0", ErrInvalidFEN},
		{"PawnOnBackRank", "4k2P/8/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidFEN},
		{"EmptyBoard", "8/8/8/8/8/8/8/8 w - - 0 1", ErrInvalidFEN},
		{"MissingBlackKing", "8/8/8/8/8/8/8/4K3 w - - 0 1", ErrKingCount},
		{"TwoWhiteKings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", ErrKingCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFEN(tt.fen); !errors.Is(err, tt.want) {
				t.Fatalf("DecodeFEN(%q): expected %v, got %v", tt.fen, tt.want, err)
			}
		})
	}
}

func TestDecodeDerivesMovedFlags(t *testing.T) {
	st := mustState(t, "r3k2r/8/8/8/8/8/4P3/R3K2R w Kq - 0 1")
	check := func(sq string, wantMoved bool) {
		t.Helper()
		pc, ok := st.Board.Get(mustPos(t, sq))
		if !ok {
			t.Fatalf("no piece on %s", sq)
		}
		if pc.Moved != wantMoved {
			t.Fatalf("%s moved = %v, want %v", sq, pc.Moved, wantMoved)
		}
	}
	check("e1", false)
	check("h1", false)
	check("a1", true)
	check("e8", false)
	check("a8", false)
	check("h8", true)
	check("e2", false)
}

func TestFENMatchesReferenceAfterMoves(t *testing.T) {
	eng := NewEngine()
	ref := chess.NewGame(chess.UseNotation(chess.UCINotation{}))
	for _, mv := range []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6", "c1e3", "e7e5"} {
		mustPlay(t, eng, mv)
		if err := ref.MoveStr(mv); err != nil {
			t.Fatalf("reference move %s: %v", mv, err)
		}
		if got, want := eng.FEN(), ref.Position().String(); got != want {
			t.Fatalf("after %s: got %q want %q", mv, got, want)
		}
	}
}
