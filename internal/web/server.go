// Package web serves a read-only JSON view of the client: the state of the
// current round and the journal of past rounds.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/wordgame/wordclient/internal/game"
	"github.com/wordgame/wordclient/internal/models"
	"github.com/wordgame/wordclient/internal/repo"
)

const (
	defaultRoundsLimit = 20
	maxRoundsLimit     = 500
)

type Status interface {
	State() game.State
	Round() (game.Round, bool)
}

type History interface {
	ListRounds(ctx context.Context, limit int) ([]*models.Round, error)
	GetRound(ctx context.Context, id int64) (*models.Round, error)
}

type Options struct {
	Logger *slog.Logger
	Status Status
	// History is optional. Without it the rounds endpoints respond with 404.
	History History
	// Peer returns the address of the game server currently in use.
	Peer func() string
}

type Server struct {
	r    *chi.Mux
	opts Options
}

type statusResponse struct {
	State      game.State  `json:"state"`
	Peer       string      `json:"peer,omitempty"`
	Round      *game.Round `json:"round,omitempty"`
	HintLength int         `json:"hint_length"`
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{r: chi.NewRouter(), opts: opts}
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/status", s.handleStatus)
	s.r.Route("/rounds", func(r chi.Router) {
		r.Get("/", s.handleListRounds)
		r.Get("/{id}", s.handleGetRound)
	})
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the router for tests.
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	s.opts.Logger.Info("Serving HTTP", slog.String("addr", addr))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errChan
	return ctx.Err()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	res := statusResponse{State: s.opts.Status.State()}
	if s.opts.Peer != nil {
		res.Peer = s.opts.Peer()
	}
	if round, ok := s.opts.Status.Round(); ok {
		res.Round = &round
		res.HintLength = round.HintLength()
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}

	limit := defaultRoundsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxRoundsLimit)
	}

	rounds, err := s.opts.History.ListRounds(r.Context(), limit)
	if err != nil {
		s.opts.Logger.Error("Unable to list rounds", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rounds == nil {
		rounds = []*models.Round{}
	}

	writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id")
		return
	}

	round, err := s.opts.History.GetRound(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		s.opts.Logger.Error("Unable to get round", slog.Int64("id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, round)
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
