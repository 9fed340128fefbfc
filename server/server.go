// Package server exposes the solver over HTTP.  Every request carries the whole game so the
// server keeps no per game state.
//
// Routes:
//   - GET  /health
//   - POST /feedback  {"guess","answer"}
//   - POST /solve     {"turns":[{"guess","pattern"}],"mode","criterion","limit"}
//   - POST /rank      {"turns":[...],"mode","criterion","top"}
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

const (
	defaultLimit = 25
	defaultTop   = 10
)

// Server bundles the router with one solver per mode and criterion.
type Server struct {
	r      *chi.Mux
	dict   *wordle.Dictionary
	base   solver.Config
	logger zerolog.Logger

	mu      sync.Mutex
	solvers map[solverKey]*solver.Solver
}

type solverKey struct {
	mode      solver.Mode
	criterion solver.Criterion
}

// New installs the middleware and routes.  base supplies everything but the mode and criterion,
// which a request may override.
func New(dict *wordle.Dictionary, base solver.Config, logger zerolog.Logger, timeout time.Duration) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		dict:    dict,
		base:    base,
		logger:  logger,
		solvers: make(map[solverKey]*solver.Solver),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.accessLog)
	s.r.Use(chimw.Recoverer)
	if timeout > 0 {
		s.r.Use(chimw.Timeout(timeout))
	}
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Post("/feedback", s.handleFeedback)
	s.r.Post("/solve", s.handleSolve)
	s.r.Post("/rank", s.handleRank)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start serves HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the router for tests and embedding.
func (s *Server) Router() chi.Router { return s.r }

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// badRequest reports invalid input as 400 and anything else as 500.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, wordle.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error().Err(err).Str("id", chimw.GetReqID(r.Context())).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal")
}

// solverFor returns the shared solver for the mode and criterion names, empty names keep base.
func (s *Server) solverFor(mode, criterion string) (*solver.Solver, error) {
	key := solverKey{mode: s.base.Mode, criterion: s.base.Criterion}
	var err error
	if mode != "" {
		if key.mode, err = solver.ParseMode(mode); err != nil {
			return nil, err
		}
	}
	if criterion != "" {
		if key.criterion, err = solver.ParseCriterion(criterion); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ret, ok := s.solvers[key]; ok {
		return ret, nil
	}
	config := s.base
	config.Mode = key.mode
	config.Criterion = key.criterion
	ret, err := solver.New(s.dict, config)
	if err != nil {
		return nil, err
	}
	s.solvers[key] = ret
	return ret, nil
}

type feedbackReq struct {
	Guess  string `json:"guess"`
	Answer string `json:"answer"`
}
type feedbackRes struct {
	Pattern string `json:"pattern"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pattern, err := wordle.Feedback(wordle.Word(req.Guess), wordle.Word(req.Answer))
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	writeJSON(w, feedbackRes{Pattern: pattern.String()})
}

type turn struct {
	Guess   string `json:"guess"`
	Pattern string `json:"pattern"`
}

type gameReq struct {
	Turns     []turn `json:"turns"`
	Mode      string `json:"mode"`
	Criterion string `json:"criterion"`
	Limit     int    `json:"limit"`
	Top       int    `json:"top"`
}

// replay builds the game the turns describe.
func (s *Server) replay(w http.ResponseWriter, r *http.Request) (*solver.Solver, *solver.Game, *gameReq, bool) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return nil, nil, nil, false
	}
	sol, err := s.solverFor(req.Mode, req.Criterion)
	if err != nil {
		s.badRequest(w, r, err)
		return nil, nil, nil, false
	}
	game := sol.NewGame()
	for _, t := range req.Turns {
		guess, err := wordle.ParseWord(t.Guess)
		if err != nil {
			s.badRequest(w, r, err)
			return nil, nil, nil, false
		}
		pattern, err := wordle.ParsePattern(t.Pattern)
		if err != nil {
			s.badRequest(w, r, err)
			return nil, nil, nil, false
		}
		if err := game.Observe(guess, pattern); err != nil {
			s.badRequest(w, r, err)
			return nil, nil, nil, false
		}
	}
	return sol, game, &req, true
}

type solveRes struct {
	Candidates int      `json:"candidates"`
	Words      []string `json:"words"`
	Best       string   `json:"best,omitempty"`
	Entropy    float64  `json:"entropy"`
	Status     string   `json:"status"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	_, game, req, ok := s.replay(w, r)
	if !ok {
		return
	}
	suggestion, err := game.Next(r.Context())
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	words := game.Candidates().Strings()
	res := solveRes{
		Candidates: len(words),
		Words:      words[:min(limit, len(words))],
		Best:       string(suggestion.Guess),
		Entropy:    suggestion.Score.Entropy,
		Status:     suggestion.Status.String(),
	}
	if timedOut(r) {
		return
	}
	writeJSON(w, res)
}

type scoreRes struct {
	Guess             string  `json:"guess"`
	Entropy           float64 `json:"entropy"`
	ExpectedRemaining float64 `json:"expected"`
	Coverage          int     `json:"coverage"`
	Patterns          int     `json:"patterns"`
}

type rankRes struct {
	Candidates int        `json:"candidates"`
	Scores     []scoreRes `json:"scores"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	sol, game, req, ok := s.replay(w, r)
	if !ok {
		return
	}
	top := req.Top
	if top <= 0 {
		top = defaultTop
	}
	config := sol.Config()
	candidates := game.Candidates()
	pool := solver.PoolFor(config.Mode, sol.Dictionary(), candidates, config.FinishThreshold)
	opts := solver.Options{Criterion: config.Criterion, Workers: config.Workers}
	res := rankRes{Candidates: candidates.Len(), Scores: []scoreRes{}}
	for _, score := range solver.Rank(r.Context(), pool, candidates.Words(), opts, top) {
		res.Scores = append(res.Scores, scoreRes{
			Guess:             string(score.Guess),
			Entropy:           score.Entropy,
			ExpectedRemaining: score.ExpectedRemaining,
			Coverage:          score.Coverage,
			Patterns:          score.Patterns,
		})
	}
	if timedOut(r) {
		return
	}
	writeJSON(w, res)
}

// timedOut reports whether the request deadline passed, in which case the timeout
// middleware answers 504 and the handler must not write.
func timedOut(r *http.Request) bool {
	return r.Context().Err() != nil
}
