// Package server exposes the two assistants over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/exedev/fincoach/internal/chat"
	"github.com/exedev/fincoach/internal/ledger"
)

// exchangeTimeout caps one chat exchange, including all tool round-trips.
const exchangeTimeout = 2 * time.Minute

// CoachAgent is one session's tool-calling agent.
type CoachAgent interface {
	Chat(ctx context.Context, userMessage string) (string, error)
}

// AccountsAPI is the slice of the ledger client the server needs.
type AccountsAPI interface {
	Accounts(ctx context.Context, customerID string) ([]ledger.Account, error)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// coachSession serializes exchanges for one session: an agent's
// conversation is append-only and must not interleave.
type coachSession struct {
	mu    sync.Mutex
	agent CoachAgent
}

// Server routes HTTP requests to the rule-based handler and the coach.
type Server struct {
	chat       *chat.Handler
	accounts   AccountsAPI
	customerID string
	newAgent   func(sessionID string) CoachAgent
	logger     *slog.Logger

	mu     sync.Mutex
	coachs map[string]*coachSession

	httpServer *http.Server
}

// New creates a server. newAgent is called once per coach session.
func New(addr string, chatHandler *chat.Handler, accounts AccountsAPI, customerID string,
	newAgent func(sessionID string) CoachAgent, logger *slog.Logger) *Server {

	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		chat:       chatHandler,
		accounts:   accounts,
		customerID: customerID,
		newAgent:   newAgent,
		logger:     logger,
		coachs:     make(map[string]*coachSession),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/coach", s.handleCoach)
	mux.HandleFunc("GET /api/accounts", s.handleAccounts)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.logged(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), exchangeTimeout)
	defer cancel()

	response := s.chat.Respond(ctx, req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Response: response})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	sess := s.sessionFor(req.SessionID)

	ctx, cancel := context.WithTimeout(r.Context(), exchangeTimeout)
	defer cancel()

	sess.mu.Lock()
	answer, err := sess.agent.Chat(ctx, req.Message)
	sess.mu.Unlock()

	if err != nil {
		s.logger.Error("coach exchange failed", "session", req.SessionID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "The coach is unavailable right now. Please try again."})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.Accounts(r.Context(), s.customerID)
	if err != nil {
		s.logger.Error("accounts fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) sessionFor(id string) *coachSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.coachs[id]
	if !ok {
		sess = &coachSession{agent: s.newAgent(id)}
		s.coachs[id] = sess
	}
	return sess
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return req, false
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
