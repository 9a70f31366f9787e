package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"chesscore/internal/game"
	"chesscore/internal/oracle"
	"chesscore/internal/shared"
	"chesscore/internal/store"
)

// DefaultHintTimeout bounds one oracle query.
const DefaultHintTimeout = 10 * time.Second

// Config carries the optional collaborators of a Server. A nil Store
// disables the save endpoints and a nil Oracle disables hints.
type Config struct {
	Store       *store.FileStore
	Oracle      oracle.Oracle
	HintTimeout time.Duration
}

// Server wires the HTTP layer to the chess engine. engineMu makes the
// server the single owner of the turn: every engine call runs under it.
type Server struct {
	engineMu sync.Mutex
	engine   *game.Engine
	saves    *store.FileStore
	oracle   oracle.Oracle
	hintWait time.Duration
	srvMu    sync.Mutex
	srv      *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// NewServer builds a Server around engine.
func NewServer(engine *game.Engine, cfg Config) *Server {
	wait := cfg.HintTimeout
	if wait <= 0 {
		wait = DefaultHintTimeout
	}
	return &Server{
		engine:   engine,
		saves:    cfg.Store,
		oracle:   cfg.Oracle,
		hintWait: wait,
	}
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.routes() }

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.hintWait + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.withJSON(s.handleState))
	mux.HandleFunc("/api/move", s.withJSON(s.handleMove))
	mux.HandleFunc("/api/undo", s.withJSON(s.handleUndo))
	mux.HandleFunc("/api/redo", s.withJSON(s.handleRedo))
	mux.HandleFunc("/api/reset", s.withJSON(s.handleReset))
	mux.HandleFunc("/api/load", s.withJSON(s.handleLoad))
	mux.HandleFunc("/api/puzzle", s.withJSON(s.handlePuzzle))
	mux.HandleFunc("/api/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("/api/targets", s.withJSON(s.handleTargets))
	mux.HandleFunc("/api/save", s.withJSON(s.handleSave))
	mux.HandleFunc("/api/restore", s.withJSON(s.handleRestore))
	mux.HandleFunc("/api/saves", s.withJSON(s.handleSaves))
	mux.HandleFunc("/api/hint", s.withJSON(s.handleHint))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody reads an optional JSON body into v. It writes the error
// response itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNothingToUndo), errors.Is(err, game.ErrNothingToRedo),
		errors.Is(err, game.ErrGameEnded):
		return http.StatusConflict
	case game.IsRejection(err), errors.Is(err, game.ErrInvalidFEN),
		errors.Is(err, game.ErrKingCount), errors.Is(err, game.ErrInvalidPuzzle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// stateResponse runs fn under the engine lock and replies with the state
// it leaves behind.
func (s *Server) stateResponse(w http.ResponseWriter, fn func(*game.Engine) error) {
	s.engineMu.Lock()
	err := fn(s.engine)
	state := s.engine.State()
	s.engineMu.Unlock()

	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, map[string]any{"state": state})
}

// ---- API: state ----

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	s.stateResponse(w, func(*game.Engine) error { return nil })
}

// ---- API: move ----

type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
	UCI       string `json:"uci"`
}

func (b moveBody) request() (game.MoveRequest, error) {
	if uci := strings.TrimSpace(b.UCI); uci != "" {
		cm, err := shared.ParseCoordinateMove(strings.ToLower(uci))
		if err != nil {
			return game.MoveRequest{}, err
		}
		return game.MoveRequest{From: cm.From, To: cm.To, Promotion: cm.Promotion, HasPromotion: cm.HasPromotion}, nil
	}
	from, err := shared.ParsePosition(strings.ToLower(strings.TrimSpace(b.From)))
	if err != nil {
		return game.MoveRequest{}, err
	}
	to, err := shared.ParsePosition(strings.ToLower(strings.TrimSpace(b.To)))
	if err != nil {
		return game.MoveRequest{}, err
	}
	req := game.MoveRequest{From: from, To: to}
	if promotion := strings.TrimSpace(b.Promotion); promotion != "" {
		pt, ok := shared.ParsePromotionPiece(promotion)
		if !ok {
			return game.MoveRequest{}, game.ErrInvalidPromotion
		}
		req.Promotion, req.HasPromotion = pt, true
	}
	return req, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.engineMu.Lock()
	res, err := s.engine.Move(req)
	state := s.engine.State()
	s.engineMu.Unlock()

	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, map[string]any{"result": res, "state": state})
}

// ---- API: history ----

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.stateResponse(w, (*game.Engine).Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.stateResponse(w, (*game.Engine).Redo)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.stateResponse(w, func(e *game.Engine) error {
		e.Reset()
		return nil
	})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.stateResponse(w, (*game.Engine).Resign)
}

// ---- API: positions ----

type loadBody struct {
	FEN      string `json:"fen"`
	MaxMoves int    `json:"maxMoves"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var body loadBody
	if !decodeBody(w, r, &body) {
		return
	}
	s.stateResponse(w, func(e *game.Engine) error { return e.LoadFEN(body.FEN) })
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var body loadBody
	if !decodeBody(w, r, &body) {
		return
	}
	s.stateResponse(w, func(e *game.Engine) error { return e.LoadPuzzle(body.FEN, body.MaxMoves) })
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	from, err := shared.ParsePosition(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("from"))))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.engineMu.Lock()
	targets := s.engine.LegalTargets(from)
	s.engineMu.Unlock()

	names := make([]string, 0, len(targets))
	for _, p := range targets {
		names = append(names, p.String())
	}
	writeJSON(w, map[string]any{"from": from.String(), "targets": names})
}
