package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"chesscore/internal/game"
	"chesscore/internal/oracle"
	"chesscore/internal/shared"
	"chesscore/internal/store"
)

// ---- API: saves ----

type saveBody struct {
	Name         string `json:"name"`
	ChosenColor  string `json:"chosenColor"`
	WhiteClockMs int64  `json:"whiteTimeRemaining"`
	BlackClockMs int64  `json:"blackTimeRemaining"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is disabled")
		return
	}
	var body saveBody
	if !decodeBody(w, r, &body) {
		return
	}
	if c := strings.TrimSpace(body.ChosenColor); c != "" {
		if _, ok := shared.ParseColor(c); !ok {
			writeError(w, http.StatusBadRequest, "invalid color")
			return
		}
	}

	s.engineMu.Lock()
	snap := store.Capture(s.engine)
	s.engineMu.Unlock()

	snap.Name = body.Name
	snap.ChosenColor = body.ChosenColor
	snap.WhiteClockMs = body.WhiteClockMs
	snap.BlackClockMs = body.BlackClockMs
	saved, err := s.saves.Save(snap)
	if err != nil {
		if errors.Is(err, store.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("save %q: %v", body.Name, err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, map[string]any{"save": saved})
}

type restoreBody struct {
	Name string `json:"name"`
}

// handleRestore applies the named save, or the newest one when no name is
// given. A save whose position no longer decodes falls back to the
// standard start position.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is disabled")
		return
	}
	var body restoreBody
	if !decodeBody(w, r, &body) {
		return
	}
	var (
		save store.GameSave
		err  error
	)
	if name := strings.TrimSpace(body.Name); name != "" {
		save, err = s.saves.Load(name)
	} else {
		save, err = s.saves.LoadLatest()
	}
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoSaves):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("restore %q: %v", body.Name, err)
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}

	s.engineMu.Lock()
	restored := applySave(s.engine, save)
	state := s.engine.State()
	s.engineMu.Unlock()

	writeJSON(w, map[string]any{"save": save, "restored": restored, "state": state})
}

// applySave loads save into the engine and reports whether it was used.
func applySave(e *game.Engine, save store.GameSave) bool {
	if err := store.Apply(e, save); err != nil {
		log.Printf("restore %q: %v; starting a new game", save.Name, err)
		e.Reset()
		return false
	}
	return true
}

func (s *Server) handleSaves(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "saving is disabled")
		return
	}
	list, err := s.saves.List()
	if err != nil {
		log.Printf("list saves: %v", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	writeJSON(w, map[string]any{"saves": list})
}

// ---- API: hint ----

// handleHint asks the oracle for a move in the current position. GET only
// reports the suggestion; POST also plays it through the normal move path.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if s.oracle == nil {
		writeError(w, http.StatusServiceUnavailable, "no engine configured")
		return
	}

	s.engineMu.Lock()
	fen := s.engine.FEN()
	ended := s.engine.Status() == game.StatusGameEnded
	s.engineMu.Unlock()
	if ended {
		writeError(w, http.StatusConflict, game.ErrGameEnded.Error())
		return
	}

	// The oracle runs without the engine lock; the position is re-checked
	// before anything is applied.
	ctx, cancel := context.WithTimeout(r.Context(), s.hintWait)
	defer cancel()
	reply, err := s.oracle.BestMove(ctx, fen)
	if err == nil {
		var cm shared.CoordinateMove
		cm, err = oracle.ParseMove(reply)
		reply = cm.String()
	}
	switch {
	case errors.Is(err, oracle.ErrNoMove):
		writeJSON(w, map[string]any{"move": ""})
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "engine timed out")
		return
	case err != nil:
		log.Printf("hint: %v", err)
		writeError(w, http.StatusBadGateway, "engine error")
		return
	}

	if r.Method == http.MethodGet {
		writeJSON(w, map[string]any{"move": reply})
		return
	}

	s.engineMu.Lock()
	var res game.MoveResult
	if s.engine.FEN() != fen {
		res = game.MoveResult{Reason: "position changed during search"}
	} else {
		res = s.engine.SubmitUCI(reply)
	}
	state := s.engine.State()
	s.engineMu.Unlock()

	if !res.Applied {
		log.Printf("hint: engine move %q rejected: %s", reply, res.Reason)
	}
	writeJSON(w, map[string]any{"move": reply, "result": res, "state": state})
}
