package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/ironlog/internal/auth"
)

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req auth.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	nav, err := s.auth.SignIn(r.Context(), req)
	s.finishAuth(w, "sign_in", nav, err)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req auth.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	nav, err := s.auth.SignUp(r.Context(), req)
	s.finishAuth(w, "sign_up", nav, err)
}

func (s *Server) finishAuth(w http.ResponseWriter, kind string, nav *auth.Navigation, err error) {
	result := "ok"
	defer func() {
		if s.metrics != nil {
			s.metrics.CounterSignIns.WithLabelValues(kind, result).Inc()
		}
	}()

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, nav)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away during the delay; nobody is left to answer.
		result = "abandoned"
	default:
		result = "invalid"
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}
