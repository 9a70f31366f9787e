package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"chesscore/internal/game"
	"chesscore/internal/oracle"
	"chesscore/internal/store"
)

const backRankPuzzle = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

type response struct {
	Error    string           `json:"error"`
	Move     *string          `json:"move"`
	Restored bool             `json:"restored"`
	Targets  []string         `json:"targets"`
	Result   game.MoveResult  `json:"result"`
	State    game.GameState   `json:"state"`
	Save     store.GameSave   `json:"save"`
	Saves    []store.GameSave `json:"saves"`
}

func newTestServer(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	return NewServer(game.NewEngine(), cfg).Handler()
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, response) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Fatalf("%s %s: missing API security headers", method, path)
	}
	var out response
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, out
}

func expectStatus(t *testing.T, got, want int, resp response) {
	t.Helper()
	if got != want {
		t.Fatalf("status %d, want %d (error %q)", got, want, resp.Error)
	}
}

func TestStateAndMove(t *testing.T) {
	h := newTestServer(t, Config{})

	code, resp := call(t, h, http.MethodGet, "/api/state", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.FEN != game.StartFEN || len(resp.State.Pieces) != 32 {
		t.Fatalf("unexpected start state %q with %d pieces", resp.State.FEN, len(resp.State.Pieces))
	}

	code, resp = call(t, h, http.MethodPost, "/api/move", `{"from":"E2","to":"e4"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.Result.Applied || resp.Result.Move != "e2e4" {
		t.Fatalf("move result %+v", resp.Result)
	}
	if resp.State.Turn != game.Black || resp.State.LastMove != "e2e4" || !resp.State.CanUndo {
		t.Fatalf("state after e2e4: turn %v last %q", resp.State.Turn, resp.State.LastMove)
	}

	code, resp = call(t, h, http.MethodPost, "/api/move", `{"uci":"e7e5"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.Turn != game.White {
		t.Fatalf("uci move did not pass the turn")
	}
}

func TestMoveRejections(t *testing.T) {
	h := newTestServer(t, Config{})
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"WrongMethod", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"BadJSON", http.MethodPost, `{"from":`, http.StatusBadRequest},
		{"BadSquare", http.MethodPost, `{"from":"z9","to":"e4"}`, http.StatusBadRequest},
		{"EmptySquare", http.MethodPost, `{"from":"e4","to":"e5"}`, http.StatusBadRequest},
		{"NotYourTurn", http.MethodPost, `{"from":"e7","to":"e5"}`, http.StatusBadRequest},
		{"Illegal", http.MethodPost, `{"from":"e2","to":"e5"}`, http.StatusBadRequest},
		{"BadPromotion", http.MethodPost, `{"from":"e2","to":"e4","promotion":"k"}`, http.StatusBadRequest},
		{"BadUCI", http.MethodPost, `{"uci":"e2e4x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := call(t, h, tt.method, "/api/move", tt.body)
			expectStatus(t, code, tt.want, resp)
			if resp.Error == "" {
				t.Fatalf("expected an error message")
			}
		})
	}

	_, resp := call(t, h, http.MethodGet, "/api/state", "")
	if resp.State.FEN != game.StartFEN {
		t.Fatalf("rejected moves changed the game: %s", resp.State.FEN)
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := newTestServer(t, Config{})
	body := `{"from":"` + strings.Repeat("a", int(maxJSONBodyBytes)) + `"}`
	code, resp := call(t, h, http.MethodPost, "/api/move", body)
	expectStatus(t, code, http.StatusRequestEntityTooLarge, resp)
}

func TestUndoRedo(t *testing.T) {
	h := newTestServer(t, Config{})

	code, resp := call(t, h, http.MethodPost, "/api/undo", "")
	expectStatus(t, code, http.StatusConflict, resp)

	call(t, h, http.MethodPost, "/api/move", `{"uci":"g1f3"}`)
	code, resp = call(t, h, http.MethodPost, "/api/undo", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.FEN != game.StartFEN || !resp.State.CanRedo {
		t.Fatalf("undo: fen %q canRedo %v", resp.State.FEN, resp.State.CanRedo)
	}

	code, resp = call(t, h, http.MethodPost, "/api/redo", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.LastMove != "g1f3" || resp.State.CanRedo {
		t.Fatalf("redo: last %q canRedo %v", resp.State.LastMove, resp.State.CanRedo)
	}

	code, resp = call(t, h, http.MethodPost, "/api/redo", "")
	expectStatus(t, code, http.StatusConflict, resp)

	code, resp = call(t, h, http.MethodPost, "/api/reset", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.FEN != game.StartFEN || resp.State.CanUndo {
		t.Fatalf("reset did not restore a fresh game")
	}
}

func TestLoadPuzzleAndResign(t *testing.T) {
	h := newTestServer(t, Config{})

	code, resp := call(t, h, http.MethodPost, "/api/load", `{"fen":"not a fen"}`)
	expectStatus(t, code, http.StatusBadRequest, resp)
	code, resp = call(t, h, http.MethodPost, "/api/load", `{"fen":"8/8/8/8/8/8/8/4K3 w - - 0 1"}`)
	expectStatus(t, code, http.StatusBadRequest, resp)

	code, resp = call(t, h, http.MethodPost, "/api/puzzle", `{"fen":"`+backRankPuzzle+`","maxMoves":0}`)
	expectStatus(t, code, http.StatusBadRequest, resp)
	code, resp = call(t, h, http.MethodPost, "/api/puzzle", `{"fen":"`+backRankPuzzle+`","maxMoves":1}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.Mode != "puzzle" || resp.State.Puzzle == nil || resp.State.Puzzle.Remaining != 1 {
		t.Fatalf("puzzle state %+v", resp.State.Puzzle)
	}

	code, resp = call(t, h, http.MethodPost, "/api/move", `{"from":"a1","to":"a8"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.State.GameOver || resp.State.Outcome != "puzzle solved" {
		t.Fatalf("puzzle outcome %q", resp.State.Outcome)
	}

	code, resp = call(t, h, http.MethodPost, "/api/resign", "")
	expectStatus(t, code, http.StatusConflict, resp)

	call(t, h, http.MethodPost, "/api/load", `{"fen":"`+game.StartFEN+`"}`)
	code, resp = call(t, h, http.MethodPost, "/api/resign", "")
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.State.GameOver || resp.State.WinnerName != "black" {
		t.Fatalf("resign outcome %q winner %q", resp.State.Outcome, resp.State.WinnerName)
	}
}

func TestTargets(t *testing.T) {
	h := newTestServer(t, Config{})
	code, resp := call(t, h, http.MethodGet, "/api/targets?from=g1", "")
	expectStatus(t, code, http.StatusOK, resp)
	sort.Strings(resp.Targets)
	if strings.Join(resp.Targets, ",") != "f3,h3" {
		t.Fatalf("targets = %v", resp.Targets)
	}
	code, resp = call(t, h, http.MethodGet, "/api/targets?from=q9", "")
	expectStatus(t, code, http.StatusBadRequest, resp)
}

func TestSaveRestore(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h := newTestServer(t, Config{Store: fs})

	call(t, h, http.MethodPost, "/api/move", `{"uci":"e2e4"}`)
	code, resp := call(t, h, http.MethodPost, "/api/save", `{"name":"after-e4","chosenColor":"white","whiteTimeRemaining":60000}`)
	expectStatus(t, code, http.StatusOK, resp)
	afterE4 := resp.Save.FEN
	if resp.Save.Name != "after-e4" || resp.Save.WhiteClockMs != 60000 || resp.Save.Mode != "standard" {
		t.Fatalf("save = %+v", resp.Save)
	}

	code, resp = call(t, h, http.MethodPost, "/api/save", `{"name":"../x"}`)
	expectStatus(t, code, http.StatusBadRequest, resp)
	code, resp = call(t, h, http.MethodPost, "/api/save", `{"chosenColor":"purple"}`)
	expectStatus(t, code, http.StatusBadRequest, resp)

	call(t, h, http.MethodPost, "/api/reset", "")
	code, resp = call(t, h, http.MethodPost, "/api/restore", "")
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.Restored || resp.State.FEN != afterE4 {
		t.Fatalf("restore: restored %v fen %q", resp.Restored, resp.State.FEN)
	}

	code, resp = call(t, h, http.MethodPost, "/api/restore", `{"name":"missing"}`)
	expectStatus(t, code, http.StatusNotFound, resp)

	if _, err := fs.Save(store.GameSave{Name: "corrupt", FEN: "garbage"}); err != nil {
		t.Fatalf("seed corrupt save: %v", err)
	}
	code, resp = call(t, h, http.MethodPost, "/api/restore", `{"name":"corrupt"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Restored || resp.State.FEN != game.StartFEN {
		t.Fatalf("corrupt save should fall back to the start position, got %q", resp.State.FEN)
	}

	code, resp = call(t, h, http.MethodGet, "/api/saves", "")
	expectStatus(t, code, http.StatusOK, resp)
	if len(resp.Saves) != 2 {
		t.Fatalf("saves = %+v", resp.Saves)
	}
}

func TestPuzzleSaveKeepsMode(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h := newTestServer(t, Config{Store: fs})
	call(t, h, http.MethodPost, "/api/puzzle", `{"fen":"`+backRankPuzzle+`","maxMoves":2}`)
	code, resp := call(t, h, http.MethodPost, "/api/save", `{"name":"pz"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Save.Mode != "puzzle" || resp.Save.PuzzleMoves != 2 {
		t.Fatalf("puzzle save = %+v", resp.Save)
	}
	call(t, h, http.MethodPost, "/api/reset", "")
	_, resp = call(t, h, http.MethodPost, "/api/restore", `{"name":"pz"}`)
	if resp.State.Mode != "puzzle" || resp.State.Puzzle == nil || resp.State.Puzzle.MaxMoves != 2 {
		t.Fatalf("restored puzzle state %+v", resp.State.Puzzle)
	}
}

func TestPuzzleRestoreKeepsSolverMidPuzzle(t *testing.T) {
	const ladder = "7k/8/8/8/8/8/R7/1R4K1 w - - 0 1"
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h := newTestServer(t, Config{Store: fs})
	call(t, h, http.MethodPost, "/api/puzzle", `{"fen":"`+ladder+`","maxMoves":2}`)
	code, resp := call(t, h, http.MethodPost, "/api/move", `{"uci":"a2a7"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.State.Puzzle == nil {
		t.Fatalf("puzzle state missing after a2a7")
	}
	want := *resp.State.Puzzle

	code, resp = call(t, h, http.MethodPost, "/api/save", `{"name":"ladder"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Save.PuzzleSolver != "white" || resp.Save.PuzzleMoves != 1 || resp.Save.PuzzleMaxMoves != 2 {
		t.Fatalf("puzzle save = %+v", resp.Save)
	}

	call(t, h, http.MethodPost, "/api/reset", "")
	code, resp = call(t, h, http.MethodPost, "/api/restore", `{"name":"ladder"}`)
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.Restored || resp.State.Puzzle == nil || *resp.State.Puzzle != want {
		t.Fatalf("restored puzzle %+v, want %+v", resp.State.Puzzle, want)
	}
	if resp.State.Turn != game.Black {
		t.Fatalf("restored turn %v", resp.State.Turn)
	}
}

func TestSavesDisabled(t *testing.T) {
	h := newTestServer(t, Config{})
	for _, path := range []string{"/api/save", "/api/restore"} {
		code, resp := call(t, h, http.MethodPost, path, "")
		expectStatus(t, code, http.StatusServiceUnavailable, resp)
	}
	code, resp := call(t, h, http.MethodGet, "/api/saves", "")
	expectStatus(t, code, http.StatusServiceUnavailable, resp)
	code, resp = call(t, h, http.MethodGet, "/api/hint", "")
	expectStatus(t, code, http.StatusServiceUnavailable, resp)
}

func TestHint(t *testing.T) {
	reply := "E2E4"
	o := oracle.Func(func(ctx context.Context, fen string) (string, error) {
		if fen != game.StartFEN {
			return "(none)", nil
		}
		return reply, nil
	})
	h := newTestServer(t, Config{Oracle: o})

	code, resp := call(t, h, http.MethodGet, "/api/hint", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Move == nil || *resp.Move != "e2e4" {
		t.Fatalf("hint move = %v", resp.Move)
	}
	_, resp = call(t, h, http.MethodGet, "/api/state", "")
	if resp.State.FEN != game.StartFEN {
		t.Fatalf("GET hint must not move")
	}

	code, resp = call(t, h, http.MethodPost, "/api/hint", "")
	expectStatus(t, code, http.StatusOK, resp)
	if !resp.Result.Applied || resp.State.LastMove != "e2e4" {
		t.Fatalf("POST hint result %+v", resp.Result)
	}

	code, resp = call(t, h, http.MethodGet, "/api/hint", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Move == nil || *resp.Move != "" {
		t.Fatalf("expected an empty suggestion, got %v", resp.Move)
	}
}

func TestHintBadEngineReply(t *testing.T) {
	o := oracle.Func(func(ctx context.Context, fen string) (string, error) { return "zz", nil })
	h := newTestServer(t, Config{Oracle: o})
	code, resp := call(t, h, http.MethodGet, "/api/hint", "")
	expectStatus(t, code, http.StatusBadGateway, resp)

	slow := oracle.Func(func(ctx context.Context, fen string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	srv := NewServer(game.NewEngine(), Config{Oracle: slow, HintTimeout: 1})
	code, resp = call(t, srv.Handler(), http.MethodGet, "/api/hint", "")
	expectStatus(t, code, http.StatusGatewayTimeout, resp)
}

func TestIllegalEngineMoveIsNotApplied(t *testing.T) {
	o := oracle.Func(func(ctx context.Context, fen string) (string, error) { return "e2e5", nil })
	h := newTestServer(t, Config{Oracle: o})
	code, resp := call(t, h, http.MethodPost, "/api/hint", "")
	expectStatus(t, code, http.StatusOK, resp)
	if resp.Result.Applied || resp.Result.Reason == "" {
		t.Fatalf("illegal engine move result %+v", resp.Result)
	}
	if resp.State.FEN != game.StartFEN {
		t.Fatalf("illegal engine move changed the board")
	}
}
